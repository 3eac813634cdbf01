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

package stages

import (
	"context"

	"github.com/reposcope/reposcope/internal/flow"
	"github.com/reposcope/reposcope/internal/logging"
	"github.com/reposcope/reposcope/llm"
	"github.com/reposcope/reposcope/llm/prompt"
)

// InvokeModel renders a prompt template against the shared context and
// sends it to the model. A model failure is reported through the
// llm_failed signal so later stages still run. Params:
//
//	prompt      string   template with {key} placeholders resolved
//	                     from the shared context
//	model       string   model name override
//	temperature float64
//	max_tokens  int
type InvokeModel struct {
	Invoker llm.Invoker
}

func (s *InvokeModel) Name() string { return "invoke_model" }

type invokeInput struct {
	req llm.Request
}

type invokeOutput struct {
	response string
	err      error
}

func (s *InvokeModel) Prepare(c *flow.Context, p flow.Params) (any, error) {
	rendered := prompt.Render(p.String("prompt", ""), c.Get)
	return invokeInput{req: llm.Request{
		Prompt:      rendered,
		Model:       p.String("model", ""),
		Temperature: float32(p.Float("temperature", 0)),
		MaxTokens:   p.Int("max_tokens", 0),
	}}, nil
}

func (s *InvokeModel) Execute(ctx context.Context, local any, p flow.Params) (any, error) {
	in := local.(invokeInput)
	resp, err := s.Invoker.Invoke(ctx, in.req)
	if err != nil {
		logging.New("invoke").Warn("model invocation failed", "err", err)
		return invokeOutput{err: err}, nil
	}
	return invokeOutput{response: resp}, nil
}

func (s *InvokeModel) Finalize(c *flow.Context, local, out any, p flow.Params) flow.Signal {
	o := out.(invokeOutput)
	if o.err != nil {
		c.Set(KeyLLMError, o.err.Error())
		return SignalLLMFailed
	}
	c.Set(KeyLLMResponse, o.response)
	return SignalLLMComplete
}
