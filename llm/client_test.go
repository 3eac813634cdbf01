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
	"testing"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	calls    int
	failures int
	failWith error
	reply    string
}

func (f *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.failWith
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func TestClientInvoke(t *testing.T) {
	m := &fakeChatModel{reply: "analysis done"}
	c := NewClient(m, ModelConfig{Timeout: time.Second, Retries: 2})

	out, err := c.Invoke(context.Background(), Request{Prompt: "review this"})
	require.NoError(t, err)
	assert.Equal(t, "analysis done", out)
	assert.Equal(t, 1, m.calls)
}

func TestClientInvokeRetriesTransientErrors(t *testing.T) {
	m := &fakeChatModel{
		reply:    "ok",
		failures: 2,
		failWith: errors.New("read tcp 10.0.0.1:443: connection reset by peer"),
	}
	c := NewClient(m, ModelConfig{Timeout: time.Second, Retries: 3})

	out, err := c.Invoke(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, m.calls)
}

func TestClientInvokeStopsOnPermanentError(t *testing.T) {
	m := &fakeChatModel{
		failures: 10,
		failWith: errors.New("invalid api key"),
	}
	c := NewClient(m, ModelConfig{Timeout: time.Second, Retries: 3})

	_, err := c.Invoke(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, 1, m.calls)
}

func TestClientInvokeExhaustsRetries(t *testing.T) {
	m := &fakeChatModel{
		failures: 10,
		failWith: errors.New("operation timed out"),
	}
	c := NewClient(m, ModelConfig{Timeout: time.Second, Retries: 1})

	_, err := c.Invoke(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, m.calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("context deadline exceeded"), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("read tcp 1.2.3.4: broken pipe"), true},
		{errors.New("invalid request: model not found"), false},
		{errors.New("quota exceeded"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryable(tt.err), "err=%v", tt.err)
	}
}

func TestMockInvoker(t *testing.T) {
	out, err := Mock{}.Invoke(context.Background(), Request{Prompt: "analyze repo", Model: "gpt-x"})
	require.NoError(t, err)
	assert.Contains(t, out, "gpt-x")
	assert.Contains(t, out, "analyze repo")
}

func TestMockInvoker_PreviewKeepsRunesIntact(t *testing.T) {
	prompt := strings.Repeat("分析这个代码仓库。", 100)
	out, err := Mock{}.Invoke(context.Background(), Request{Prompt: prompt})
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(out), "preview split a multi-byte rune")
	assert.Contains(t, out, "...")
}
