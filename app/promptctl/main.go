// Command promptctl sends a single prompt to the configured provider in any
// completion mode. It needs no database.
//
//	promptctl chat  [-system text] <message>
//	promptctl embed <text>
//	promptctl image [-n 2] [-size 512x512] <prompt>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tripwise/prompt-svc/config"
	"github.com/tripwise/prompt-svc/internal/cache"
	"github.com/tripwise/prompt-svc/internal/logger"
	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	"github.com/tripwise/prompt-svc/internal/services"
)

var errUsage = errors.New("usage: promptctl chat|embed|image [flags] <text>")

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()
	provider, err := config.InitLLM(ctx, cfg)
	if err != nil {
		log.Fatalf("llm init error: %v", err)
	}
	client := llm.NewClient(provider, llm.WithTimeout(cfg.LLM.Timeout))
	defer client.Close()

	svc := services.NewPromptService(client, cache.Noop{}, 0, log)
	if err := run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, svc services.PromptService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(out)
	system := fs.String("system", "", "system instruction (chat)")
	n := fs.Int("n", 2, "number of images (image)")
	size := fs.String("size", "", "image size, ex: 512x512 (image)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return errUsage
	}

	var mode llm.Mode
	req := llm.Request{Text: text, ImageCount: *n, ImageSize: *size}
	switch args[0] {
	case "chat":
		mode = llm.ModeChat
		if *system != "" {
			req.Messages = append(req.Messages, models.NewTextMessage(models.RoleSystem, *system))
		}
		req.Messages = append(req.Messages, models.NewTextMessage(models.RoleUser, text))
	case "embed":
		mode = llm.ModeEmbedding
	case "image":
		mode = llm.ModeImage
	default:
		return errUsage
	}

	resp, err := svc.Run(ctx, mode, req)
	if err != nil {
		return err
	}

	switch mode {
	case llm.ModeChat:
		fmt.Fprintln(out, resp.Completion.Content)
		return nil
	case llm.ModeEmbedding:
		return printJSON(out, map[string]any{"provider": resp.Provider, "dimensions": len(resp.Embedding), "embedding": resp.Embedding})
	default:
		return printJSON(out, resp.Images)
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
