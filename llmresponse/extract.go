package llmresponse

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoTextFound is returned when a response carries no usable text
// content block, including every structural shortfall on the way there
// (nil response, missing message, empty content list).
var ErrNoTextFound = errors.New("No text found in response")

// ParseError reports that response text could not be parsed as JSON.
// The underlying encoding/json error is available via Unwrap.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "Could not JSON parse response" }

func (e *ParseError) Unwrap() error { return e.Err }

// GetText returns the text of the first content block carrying a text
// field. Blocks with other modalities are skipped, not merged.
func GetText(resp *Response) (string, error) {
	if resp == nil || resp.Output.Message == nil {
		return "", ErrNoTextFound
	}
	for _, block := range resp.Output.Message.Content {
		if block.Text != nil {
			return *block.Text, nil
		}
	}
	return "", ErrNoTextFound
}

// JSONParse extracts the first text block of resp, strips optional
// markdown code-fence wrapping, and parses the result as JSON. The
// returned value is whatever encoding/json produces for an untyped
// document: map[string]any, []any, string, float64, bool or nil.
//
// GetText failures propagate unchanged; parse failures come back as
// *ParseError wrapping the decode error.
func JSONParse(resp *Response) (any, error) {
	text, err := GetText(resp)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal([]byte(CleanText(text)), &value); err != nil {
		return nil, &ParseError{Err: err}
	}
	return value, nil
}

const fenceMarker = "```"

// CleanText prepares model output for JSON parsing: code-fence
// wrapping is removed, newlines become spaces and surrounding
// whitespace is trimmed. Newlines inside quoted values are only valid
// JSON when escaped, so the replacement cannot corrupt a well-formed
// payload.
func CleanText(text string) string {
	text = stripCodeFence(text)
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

// stripCodeFence cuts the region between the first and the last fence
// marker. It anchors on occurrence positions only: text holding several
// separate fenced blocks yields one span covering all of them.
func stripCodeFence(text string) string {
	if strings.Count(text, fenceMarker) < 2 {
		return text
	}
	start := strings.Index(text, fenceMarker) + len(fenceMarker)
	end := strings.LastIndex(text, fenceMarker)
	inner := text[start:end]
	// The opening fence line may carry a language tag ("json",
	// "javascript" or nothing); content starts after the first newline.
	// No newline between the markers means they are not fencing a block
	// at all, e.g. literal backticks inside a quoted JSON value.
	if _, rest, ok := strings.Cut(inner, "\n"); ok {
		return rest
	}
	return text
}
