// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/probatch/ai"
	"github.com/poiesic/probatch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
// One Generate call is one bare attempt; retry policy lives with the caller.
type Generator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// attributionTransport decorates outbound requests with the referer and
// title headers OpenRouter uses for request accounting.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []openai.Option{
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.APIKey),
	}

	if config.Referer != "" || config.Title != "" {
		opts = append(opts, openai.WithHTTPClient(&http.Client{
			Transport: &attributionTransport{
				referer: config.Referer,
				title:   config.Title,
			},
		}))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		timeout: config.AttemptTimeout,
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate sends one prompt to the service identified by req.Model.
// The attempt is bounded by the configured per-attempt timeout; transport
// errors, non-success statuses, and empty bodies all surface as
// *core.RemoteCallError so the retry governor can classify them.
func (g *Generator) Generate(ctx context.Context, req ai.GenerationRequest) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(req.Prompt),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithModel(req.Model),
		llms.WithMaxTokens(req.MaxTokens),
		llms.WithTemperature(req.Temperature),
	)
	if err != nil {
		g.logger.Debug("generation attempt failed", "model", req.Model, "err", err)
		return "", &core.RemoteCallError{Service: req.Model, Err: err}
	}

	if len(response.Choices) < 1 {
		return "", &core.RemoteCallError{Service: req.Model, Err: core.ErrEmptyResponse}
	}

	text := response.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		return "", &core.RemoteCallError{Service: req.Model, Err: core.ErrEmptyResponse}
	}

	return text, nil
}
