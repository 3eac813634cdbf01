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

// Package llm wraps the external model-invocation capability. Retry,
// backoff and timeouts live here; the pipeline core calls Invoke once
// and blocks for its whole duration.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
)

// ModelConfig selects and configures one chat-model backend.
type ModelConfig struct {
	Name        string        `json:"name" yaml:"name"`
	APIType     ModelType     `json:"type" yaml:"type"`
	BaseURL     string        `json:"base_url" yaml:"base_url"`
	APIKey      string        `json:"api_key" yaml:"api_key"`
	ModelName   string        `json:"model_name" yaml:"model_name"` // endpoint model id, e.g. "gpt-4"
	Temperature *float32      `json:"temperature" yaml:"temperature"`
	MaxTokens   int           `json:"max_tokens" yaml:"max_tokens"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"` // per-attempt timeout, default 600s
	Retries     int           `json:"retries" yaml:"retries"` // default 3
}

// ModelType identifies a provider family.
type ModelType string

const (
	ModelTypeUnknown   ModelType = ""
	ModelTypeOllama    ModelType = "ollama"
	ModelTypeARK       ModelType = "ark"
	ModelTypeOpenAI    ModelType = "openai"
	ModelTypeClaude    ModelType = "claude"
	ModelTypeDashScope ModelType = "dashscope"
	ModelTypeDeepSeek  ModelType = "deepseek"
)

// NewModelType maps a user-supplied provider name onto a ModelType.
func NewModelType(t string) ModelType {
	switch strings.ToLower(t) {
	case "ollama":
		return ModelTypeOllama
	case "ark", "doubao":
		return ModelTypeARK
	case "openai", "gpt":
		return ModelTypeOpenAI
	case "claude", "anthropic":
		return ModelTypeClaude
	case "dashscope", "qwen", "tongyi":
		return ModelTypeDashScope
	case "deepseek":
		return ModelTypeDeepSeek
	}
	return ModelTypeUnknown
}

// Request is one model invocation: the rendered prompt plus the
// generation parameters chosen by the caller.
type Request struct {
	Prompt      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Invoker is the external model-invocation capability. Implementations
// may be slow and may fail; callers treat Invoke as an opaque blocking
// call.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

// ChatModel is the backend interface a Client generates against.
type ChatModel interface {
	model.BaseChatModel
}
