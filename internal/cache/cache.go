// Package cache holds short-lived JSON values keyed by string, such as
// forecasts per location.
package cache

import (
	"context"
	"strings"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// WeatherKey normalizes a free-form location so "Paris " and "paris" share
// an entry.
func WeatherKey(location string) string {
	return "weather:" + strings.ToLower(strings.Join(strings.Fields(location), " "))
}

// Noop never hits. It stands in when no redis is configured.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Del(context.Context, ...string) error                      { return nil }
