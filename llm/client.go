// Copyright 2025 Reposcope Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"

	"github.com/reposcope/reposcope/internal/logging"
)

// Client implements Invoker over an eino chat model, with per-attempt
// timeouts and retry with exponential backoff on transport-shaped
// failures. This is the only layer that retries; the pipeline core never
// does.
type Client struct {
	model   ChatModel
	timeout time.Duration
	retries int
}

// NewClient wraps a chat model. Timeout and retries default to 600s
// and 3 when unset in cfg.
func NewClient(m ChatModel, cfg ModelConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 600 * time.Second
	}
	retries := cfg.Retries
	if retries == 0 {
		retries = 3
	}
	return &Client{model: m, timeout: timeout, retries: retries}
}

// Invoke renders one generation round-trip. Generation parameters from
// req override the model's construction-time defaults.
func (c *Client) Invoke(ctx context.Context, req Request) (string, error) {
	logger := logging.New("llm")
	msgs := []*schema.Message{schema.UserMessage(req.Prompt)}

	opts := make([]model.Option, 0, 3)
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	opts = append(opts, model.WithTemperature(req.Temperature))

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt-1)) * time.Second
			if wait > 10*time.Second {
				wait = 10 * time.Second
			}
			logger.Info("retrying model call", "attempt", attempt+1, "wait", wait)
			time.Sleep(wait)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.model.Generate(attemptCtx, msgs, opts...)
		cancel()
		if err == nil {
			return out.Content, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return "", errors.Wrap(err, "model invocation")
		}
		logger.Warn("retryable model error", "attempt", attempt+1, "err", err)
	}
	return "", errors.Wrapf(lastErr, "model invocation failed after %d attempts", c.retries+1)
}

// IsRetryable classifies transport-shaped failures worth another
// attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"timeout",
		"connection reset",
		"connection refused",
		"operation timed out",
		"context deadline exceeded",
		"read tcp",
		"write tcp",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
