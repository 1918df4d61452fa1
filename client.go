package genaikit

import (
	"context"
	"fmt"

	"github.com/RyanFrench/generative-ai-toolkit/chat"
	"github.com/RyanFrench/generative-ai-toolkit/llmresponse"
	"github.com/RyanFrench/generative-ai-toolkit/providers/bedrock"
	"github.com/RyanFrench/generative-ai-toolkit/providers/compat"
	"github.com/RyanFrench/generative-ai-toolkit/providers/openai"
)

type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults()}
}

// Converse runs one request against the configured provider and
// returns the canonical converse-style response.
func (c *Client) Converse(ctx context.Context, opts ...chat.Option) (*llmresponse.Response, error) {
	req, err := chat.BuildRequest(opts...)
	if err != nil {
		return nil, err
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = c.cfg.Provider
	}
	return c.converseOnce(ctx, providerName, req)
}

// ConverseText is Converse followed by text extraction.
func (c *Client) ConverseText(ctx context.Context, opts ...chat.Option) (string, error) {
	resp, err := c.Converse(ctx, opts...)
	if err != nil {
		return "", err
	}
	return llmresponse.GetText(resp)
}

// ConverseJSON is Converse followed by JSON extraction: the first text
// block is unwrapped from optional code fences and parsed.
func (c *Client) ConverseJSON(ctx context.Context, opts ...chat.Option) (any, error) {
	resp, err := c.Converse(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return llmresponse.JSONParse(resp)
}

func (c *Client) converseOnce(ctx context.Context, providerName string, req *chat.Request) (*llmresponse.Response, error) {
	switch providerName {
	case "bedrock":
		p := bedrock.New(bedrock.Config{
			AwsKey:    c.cfg.AwsKey,
			AwsSecret: c.cfg.AwsSecret,
			AwsRegion: c.cfg.AwsRegion,
			ModelID:   c.cfg.AwsBedrockModelID,
			Debug:     c.cfg.Debug,
		})
		return p.Converse(ctx, req)

	case "openai":
		p, err := openai.New(openai.Config{
			APIKey:       c.cfg.OpenAIAPIKey,
			BaseURL:      c.cfg.OpenAIAPIBase,
			DefaultModel: c.cfg.OpenAIModel,
			Debug:        c.cfg.Debug,
		})
		if err != nil {
			return nil, err
		}
		return p.Converse(ctx, req)

	case "compat", "deepseek", "groq", "xai":
		base := c.cfg.CompatAPIBase
		switch providerName {
		case "deepseek":
			base = compat.DeepSeekAPIBase
		case "groq":
			base = compat.GroqAPIBase
		case "xai":
			base = compat.XAIAPIBase
		}
		p, err := compat.New(compat.Config{
			APIKey:       c.cfg.CompatAPIKey,
			APIBase:      base,
			DefaultModel: c.cfg.CompatModel,
			Debug:        c.cfg.Debug,
		})
		if err != nil {
			return nil, err
		}
		return p.Converse(ctx, req)

	default:
		return nil, fmt.Errorf("provider %s not supported", providerName)
	}
}
