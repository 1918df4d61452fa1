// Package compat talks to OpenAI-compatible chat completion endpoints
// (DeepSeek, Groq, xAI, self-hosted gateways) through a configurable
// base URL.
package compat

import (
	"context"
	"fmt"

	"github.com/RyanFrench/generative-ai-toolkit/chat"
	"github.com/RyanFrench/generative-ai-toolkit/internal/diag"
	"github.com/RyanFrench/generative-ai-toolkit/internal/httputil"
	"github.com/RyanFrench/generative-ai-toolkit/llmresponse"
	goopenai "github.com/sashabaranov/go-openai"
)

const (
	DeepSeekAPIBase = "https://api.deepseek.com"
	GroqAPIBase     = "https://api.groq.com/openai/v1"
	XAIAPIBase      = "https://api.x.ai/v1"
)

type Config struct {
	APIKey       string
	APIBase      string
	DefaultModel string
	Debug        bool
}

type Provider struct {
	client       *goopenai.Client
	defaultModel string
	debug        bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("compat api key is required")
	}
	if cfg.APIBase == "" {
		return nil, fmt.Errorf("compat api base is required")
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.APIBase
	clientCfg.HTTPClient = httputil.DefaultClient
	return &Provider{
		client:       goopenai.NewClientWithConfig(clientCfg),
		defaultModel: cfg.DefaultModel,
		debug:        cfg.Debug,
	}, nil
}

// Converse runs one chat completion and normalizes the first choice
// into the canonical response shape.
func (p *Provider) Converse(ctx context.Context, req *chat.Request) (*llmresponse.Response, error) {
	debugFn := req.Options.DebugFn
	params, err := buildParams(req, p.defaultModel)
	if err != nil {
		return nil, err
	}
	diag.LogJSON(p.debug, debugFn, "compat.chat.request", params)

	resp, err := p.client.CreateChatCompletion(ctx, params)
	if err != nil {
		diag.LogError(p.debug, debugFn, "compat.chat.response", err)
		return nil, err
	}
	diag.LogJSON(p.debug, debugFn, "compat.chat.response", resp)

	return toResponse(resp), nil
}

func buildParams(req *chat.Request, defaultModel string) (goopenai.ChatCompletionRequest, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	if model == "" {
		return goopenai.ChatCompletionRequest{}, fmt.Errorf("model is required")
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	params := goopenai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if req.Options.Temperature != nil {
		params.Temperature = float32(*req.Options.Temperature)
	}
	if req.Options.TopP != nil {
		params.TopP = float32(*req.Options.TopP)
	}
	if req.Options.MaxTokens != nil {
		params.MaxTokens = *req.Options.MaxTokens
	}
	if len(req.Options.Stop) > 0 {
		params.Stop = append([]string{}, req.Options.Stop...)
	}
	return params, nil
}

func toResponse(resp goopenai.ChatCompletionResponse) *llmresponse.Response {
	out := &llmresponse.Response{
		Usage: &llmresponse.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) == 0 {
		return out
	}
	choice := resp.Choices[0]
	out.StopReason = string(choice.FinishReason)
	out.Output.Message = &llmresponse.Message{
		Role:    chat.RoleAssistant,
		Content: []llmresponse.ContentBlock{llmresponse.TextBlock(choice.Message.Content)},
	}
	return out
}
