// Package structured decodes model output into caller-defined types.
// It applies the same fence/whitespace cleanup as llmresponse.JSONParse
// and additionally repairs almost-JSON payloads (trailing commas,
// single quotes, unquoted keys) before giving up.
package structured

import (
	"encoding/json"

	"github.com/RyanFrench/generative-ai-toolkit/llmresponse"
	"github.com/kaptinlin/jsonrepair"
)

// Decode extracts the first text block of resp and unmarshals it into
// T. Extraction failures propagate unchanged; parse failures come back
// as *llmresponse.ParseError wrapping the original decode error.
func Decode[T any](resp *llmresponse.Response) (T, error) {
	var out T
	text, err := llmresponse.GetText(resp)
	if err != nil {
		return out, err
	}
	return DecodeText[T](text)
}

// DecodeText unmarshals cleaned response text into T, retrying once
// with a repaired payload when the text is not valid JSON.
func DecodeText[T any](text string) (T, error) {
	var out T
	cleaned := llmresponse.CleanText(text)
	decodeErr := json.Unmarshal([]byte(cleaned), &out)
	if decodeErr == nil {
		return out, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return out, &llmresponse.ParseError{Err: decodeErr}
	}
	var retry T
	if err := json.Unmarshal([]byte(repaired), &retry); err != nil {
		return out, &llmresponse.ParseError{Err: decodeErr}
	}
	return retry, nil
}
