package genaikit

import (
	"github.com/RyanFrench/generative-ai-toolkit/chat"
	"github.com/RyanFrench/generative-ai-toolkit/llmresponse"
	"github.com/lyricat/goutils/structs"
)

// Chat re-exports
type (
	ChatOption  = chat.Option
	ChatRequest = chat.Request
	ChatOptions = chat.Options
	Message     = chat.Message
	DebugFn     = chat.DebugFn
)

const (
	RoleSystem    = chat.RoleSystem
	RoleUser      = chat.RoleUser
	RoleAssistant = chat.RoleAssistant
)

func WithModel(model string) ChatOption              { return chat.WithModel(model) }
func WithProvider(provider string) ChatOption        { return chat.WithProvider(provider) }
func WithMessages(msgs ...Message) ChatOption        { return chat.WithMessages(msgs...) }
func WithMessage(msg Message) ChatOption             { return chat.WithMessage(msg) }
func WithReplaceMessages(msgs ...Message) ChatOption { return chat.WithReplaceMessages(msgs...) }
func WithTemperature(v float64) ChatOption           { return chat.WithTemperature(v) }
func WithTopP(v float64) ChatOption                  { return chat.WithTopP(v) }
func WithMaxTokens(v int) ChatOption                 { return chat.WithMaxTokens(v) }
func WithStop(stop string) ChatOption                { return chat.WithStop(stop) }
func WithStopWords(stops ...string) ChatOption       { return chat.WithStopWords(stops...) }
func WithDebugFn(fn DebugFn) ChatOption              { return chat.WithDebugFn(fn) }
func WithOpenAIOptions(opts structs.JSONMap) ChatOption {
	return chat.WithOpenAIOptions(opts)
}
func WithBedrockOptions(opts structs.JSONMap) ChatOption {
	return chat.WithBedrockOptions(opts)
}

func System(text string) Message    { return chat.System(text) }
func User(text string) Message      { return chat.User(text) }
func Assistant(text string) Message { return chat.Assistant(text) }

// Response re-exports
type (
	Response     = llmresponse.Response
	ContentBlock = llmresponse.ContentBlock
	TokenUsage   = llmresponse.TokenUsage
	ParseError   = llmresponse.ParseError
)

// ErrNoTextFound mirrors llmresponse.ErrNoTextFound for callers that
// only import the root package.
var ErrNoTextFound = llmresponse.ErrNoTextFound

// GetText returns the first text content block of a response.
func GetText(resp *Response) (string, error) { return llmresponse.GetText(resp) }

// JSONParse extracts the first text block of a response, strips
// optional code-fence wrapping and parses it as JSON.
func JSONParse(resp *Response) (any, error) { return llmresponse.JSONParse(resp) }

// CleanText removes code-fence wrapping and normalizes whitespace in
// model output without parsing it.
func CleanText(text string) string { return llmresponse.CleanText(text) }
