package llmresponse

import (
	"encoding/json"
	"fmt"
)

// Response is the canonical converse-style result shape shared by all
// providers: {"output": {"message": {"content": [...]}}}.
type Response struct {
	Output     Output      `json:"output"`
	StopReason string      `json:"stopReason,omitempty"`
	Usage      *TokenUsage `json:"usage,omitempty"`
}

type Output struct {
	Message *Message `json:"message,omitempty"`
}

type Message struct {
	Role    string         `json:"role,omitempty"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one entry in a message content list. Only the text
// payload is interpreted by this package; other modalities are kept as
// raw JSON so block order survives a round trip through a document.
// Text is a pointer so that a block carrying an empty string is still
// distinguishable from a block of another modality.
type ContentBlock struct {
	Text             *string         `json:"text,omitempty"`
	Image            json.RawMessage `json:"image,omitempty"`
	Document         json.RawMessage `json:"document,omitempty"`
	Video            json.RawMessage `json:"video,omitempty"`
	Audio            json.RawMessage `json:"audio,omitempty"`
	ToolUse          json.RawMessage `json:"toolUse,omitempty"`
	ToolResult       json.RawMessage `json:"toolResult,omitempty"`
	ReasoningContent json.RawMessage `json:"reasoningContent,omitempty"`
}

type TokenUsage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// TextBlock builds a content block holding text.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Text: &text}
}

// TextResponse builds a response holding a single assistant text block.
func TextResponse(text string) *Response {
	return &Response{
		Output: Output{
			Message: &Message{
				Role:    "assistant",
				Content: []ContentBlock{TextBlock(text)},
			},
		},
	}
}

// Decode unmarshals a raw response document.
func Decode(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}
