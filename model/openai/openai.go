// Package openai implements model.Model using the OpenAI Chat Completions
// API (streaming and batch). It adapts stride's role-tagged messages into
// the SDK's message format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/stridekit/stride/core"
	"github.com/stridekit/stride/model"
)

// Options configure the OpenAI model adapter. Fields mirror a subset of
// Chat Completion parameters intentionally kept minimal; extend via
// functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic
// model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client. The API
// key is read from the environment by the SDK.
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// buildMessages converts role-tagged messages into OpenAI chat messages.
// Tool-role messages (replayed observations and errors) are folded into
// user turns: the loop replays them without correlated tool-call ids, which
// the Chat Completions tool role requires.
func buildMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default: // user, tool
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func (m *Model) params(messages []core.Message) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages:            buildMessages(messages),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
}

// GenerateStream implements model.Model.
func (m *Model) GenerateStream(ctx context.Context, messages []core.Message) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		stream := m.client.Chat.Completions.NewStreaming(ctx, m.params(messages))
		for stream.Next() {
			ck := stream.Current()
			for _, choice := range ck.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				select {
				case <-ctx.Done():
					errCh <- &model.ProviderError{Provider: "openai", Err: ctx.Err()}
					return
				case out <- choice.Delta.Content:
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- &model.ProviderError{Provider: "openai", Err: err}
		}
	}()

	return out, errCh
}

// Generate implements model.Model, capturing token usage from the response.
func (m *Model) Generate(ctx context.Context, messages []core.Message) (*model.Result, error) {
	resp, err := m.client.Chat.Completions.New(ctx, m.params(messages))
	if err != nil {
		return nil, &model.ProviderError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &model.ProviderError{Provider: "openai", Err: fmt.Errorf("empty choice list")}
	}

	usage := core.NewTokenUsage(int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens))
	return &model.Result{Text: resp.Choices[0].Message.Content, Usage: &usage}, nil
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai"}
}
