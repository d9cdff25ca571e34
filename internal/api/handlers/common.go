package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/tripwise/prompt-svc/internal/api/middleware"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	"github.com/tripwise/prompt-svc/internal/services"
	"github.com/tripwise/prompt-svc/internal/utils"
)

const (
	svcName = "prompt-svc"

	msgInvalidBody   = "The request body is invalid"
	msgInvalidMode   = "Invalid type: please use 1) chat, 2) embedded, or 3) image"
	msgBadForecast   = "The forecast returned by the model is not valid JSON"
	msgUnauthorized  = "Unauthorized access forbidden"
	msgMissingHeader = "Authorization header is missing"
)

// badRequest writes the fixed body every route returns for a missing or
// malformed field.
func badRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"svc": svcName, "Error": msgInvalidBody})
}

// writeError maps a service error onto the route's response. Upstream
// failures answer 200 with messages echoed back, as clients expect.
func writeError(c *gin.Context, err error, messages any) {
	_ = c.Error(err)

	var pe *llm.ProviderError
	switch {
	case errors.Is(err, llm.ErrInvalidMode):
		c.JSON(http.StatusOK, gin.H{"svc": svcName, "error": msgInvalidMode, "messages": messages})
		return
	case errors.Is(err, services.ErrInvalidForecast):
		c.JSON(http.StatusOK, gin.H{"svc": svcName, "error": msgBadForecast, "messages": messages})
		return
	case errors.As(err, &pe):
		c.JSON(http.StatusOK, gin.H{"svc": svcName, "error": pe.Error(), "messages": messages})
		return
	}

	var ae *utils.AppError
	msg := http.StatusText(http.StatusInternalServerError)
	if errors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}

	switch status := utils.HTTPStatus(err); status {
	case http.StatusOK:
		c.JSON(status, gin.H{"svc": svcName, "error": msg, "messages": messages})
	case http.StatusBadRequest:
		badRequest(c)
	case http.StatusUnauthorized:
		c.JSON(status, gin.H{"Error": msg})
	case http.StatusNotFound:
		c.JSON(status, gin.H{"svc": svcName, "error": msg})
	default:
		c.JSON(status, gin.H{"svc": svcName, "error": services.MsgDatabase})
	}
}

// requireUserID writes a 401 with body when no caller was identified.
func requireUserID(c *gin.Context, body any) (string, bool) {
	if uid := middleware.UserID(c); uid != nil {
		return *uid, true
	}
	c.JSON(http.StatusUnauthorized, body)
	return "", false
}

// bindRequired decodes the JSON body into dst after checking that every key
// in required is present. A key holding null counts as present.
func bindRequired(c *gin.Context, dst any, required ...string) bool {
	var present map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&present, binding.JSON); err != nil || present == nil {
		badRequest(c)
		return false
	}
	for _, k := range required {
		if _, ok := present[k]; !ok {
			badRequest(c)
			return false
		}
	}
	if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil {
		badRequest(c)
		return false
	}
	return true
}

// flexString accepts a JSON string, number or boolean. Form clients send
// counts and budgets either way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*f = flexString(b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", b)
		}
		*f = flexString(n.String())
	}
	return nil
}

func (f flexString) String() string { return string(f) }

// tripID accepts a trip id as a JSON number or a numeric string.
type tripID int64

func (t *tripID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("trip_id must be a number, got %s", b)
		}
		n = json.Number(s)
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return fmt.Errorf("trip_id must be an integer: %w", err)
	}
	*t = tripID(v)
	return nil
}
