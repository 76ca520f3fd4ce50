package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client using the OpenAI chat completions API.
// It also works against OpenAI-compatible endpoints via a custom base URL.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ Client = (*OpenAIClient)(nil)

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*openaiConfig)

type openaiConfig struct {
	baseURL string
	model   string
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) OpenAIOption {
	return func(c *openaiConfig) {
		c.baseURL = baseURL
	}
}

// WithDefaultModel sets the model used when a call doesn't override it.
func WithDefaultModel(model string) OpenAIOption {
	return func(c *openaiConfig) {
		c.model = model
	}
}

// NewOpenAIClient creates a client authenticated with the given API key.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm: api key is required")
	}

	cfg := &openaiConfig{model: openai.GPT4oMini}
	for _, opt := range opts {
		opt(cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.model,
	}, nil
}

// Complete sends the transcript and returns the model's next message.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, opts ...CompleteOption) (Message, error) {
	req := c.buildRequest(messages, opts)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Message{}, fmt.Errorf("llm: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Message{}, errors.New("llm: chat completion returned no choices")
	}

	return fromOpenAIMessage(resp.Choices[0].Message), nil
}

// CompleteStream sends the transcript and returns an incremental response.
func (c *OpenAIClient) CompleteStream(ctx context.Context, messages []Message, opts ...CompleteOption) (*Stream, error) {
	req := c.buildRequest(messages, opts)
	req.Stream = true

	ctx, cancel := context.WithCancel(ctx)
	upstream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("llm: chat completion stream failed: %w", err)
	}

	stream, send, finish := NewStream(cancel)
	go func() {
		defer upstream.Close()
		defer cancel()
		for {
			chunk, err := upstream.Recv()
			if errors.Is(err, io.EOF) {
				finish(nil)
				return
			}
			if err != nil {
				finish(fmt.Errorf("llm: stream receive failed: %w", err))
				return
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				send(delta)
			}
		}
	}()

	return stream, nil
}

func (c *OpenAIClient) buildRequest(messages []Message, opts []CompleteOption) openai.ChatCompletionRequest {
	options := &CompleteOptions{Model: c.model}
	for _, opt := range opts {
		opt(options)
	}

	req := openai.ChatCompletionRequest{
		Model:    options.Model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, toOpenAIMessage(m))
	}
	for _, t := range options.Tools {
		params := t.Parameters
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return req
}

func toOpenAIMessage(m Message) openai.ChatCompletionMessage {
	out := openai.ChatCompletionMessage{
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
		Name:       m.Name,
	}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
			ID:   tc.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return out
}

func fromOpenAIMessage(m openai.ChatCompletionMessage) Message {
	out := Message{
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
		Name:       m.Name,
	}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}
