// Package anthropic implements model.Model using the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/stridekit/stride/core"
	"github.com/stridekit/stride/model"
)

// Options configures the Anthropic model adapter (model id, temperature,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model
// interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// params splits the system messages out (the Messages API carries them
// separately) and maps the rest onto user/assistant turns. Tool-role
// messages become user turns for the same reason as the OpenAI adapter:
// replayed observations carry no correlated tool_use ids.
func (m *Model) params(messages []core.Message) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case core.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case core.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default: // user, tool
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    turns,
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}
	if len(system) > 0 {
		params.System = system
	}
	return params
}

// GenerateStream implements model.Model using the Messages streaming API.
func (m *Model) GenerateStream(ctx context.Context, messages []core.Message) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		stream := m.client.Messages.NewStreaming(ctx, m.params(messages))
		for stream.Next() {
			event := stream.Current()
			switch eventVariant := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch deltaVariant := eventVariant.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if deltaVariant.Text == "" {
						continue
					}
					select {
					case <-ctx.Done():
						errCh <- &model.ProviderError{Provider: "anthropic", Err: ctx.Err()}
						return
					case out <- deltaVariant.Text:
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- &model.ProviderError{Provider: "anthropic", Err: err}
		}
	}()

	return out, errCh
}

// Generate implements model.Model, capturing token usage from the response.
func (m *Model) Generate(ctx context.Context, messages []core.Message) (*model.Result, error) {
	resp, err := m.client.Messages.New(ctx, m.params(messages))
	if err != nil {
		return nil, &model.ProviderError{Provider: "anthropic", Err: err}
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	if text == "" && len(resp.Content) == 0 {
		return nil, &model.ProviderError{Provider: "anthropic", Err: fmt.Errorf("empty content")}
	}

	usage := core.NewTokenUsage(int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens))
	return &model.Result{Text: text, Usage: &usage}, nil
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: string(m.opts.Model), Provider: "anthropic"}
}
