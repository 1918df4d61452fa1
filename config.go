package genaikit

// Config provides shared configuration for toolkit clients.
// Fields are optional and used by specific providers.
type Config struct {
	Provider string
	Debug    bool

	// AWS Bedrock
	AwsKey            string
	AwsSecret         string
	AwsRegion         string
	AwsBedrockModelID string

	// OpenAI
	OpenAIAPIKey  string
	OpenAIAPIBase string
	OpenAIModel   string

	// OpenAI-compatible endpoints (deepseek, groq, xai, custom)
	CompatAPIKey  string
	CompatAPIBase string
	CompatModel   string
}

const (
	DefaultProvider      = "bedrock"
	DefaultOpenAIAPIBase = "https://api.openai.com/v1"
)

func (cfg Config) withDefaults() Config {
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.OpenAIAPIBase == "" {
		cfg.OpenAIAPIBase = DefaultOpenAIAPIBase
	}
	return cfg
}
