package genaikit

// ClientConfigView is a non-sensitive view of runtime client config.
// It is intended for diagnostics and helper tools.
type ClientConfigView struct {
	Provider string
	Model    string
	APIBase  string
	Region   string
}

// GetConfig returns a non-sensitive client configuration snapshot.
// It intentionally excludes secrets such as API keys.
func (c *Client) GetConfig() ClientConfigView {
	out := ClientConfigView{
		Provider: c.cfg.Provider,
	}

	switch c.cfg.Provider {
	case "bedrock":
		out.Model = c.cfg.AwsBedrockModelID
		out.Region = c.cfg.AwsRegion
	case "openai":
		out.Model = c.cfg.OpenAIModel
		out.APIBase = c.cfg.OpenAIAPIBase
	case "compat", "deepseek", "groq", "xai":
		out.Model = c.cfg.CompatModel
		out.APIBase = c.cfg.CompatAPIBase
	}
	return out
}
