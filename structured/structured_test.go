package structured

import (
	"errors"
	"testing"

	"github.com/RyanFrench/generative-ai-toolkit/llmresponse"
)

type verdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func TestDecode(t *testing.T) {
	resp := llmresponse.TextResponse("```json\n{\"label\": \"spam\", \"confidence\": 0.92}\n```")
	got, err := Decode[verdict](resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != "spam" || got.Confidence != 0.92 {
		t.Fatalf("unexpected verdict: %#v", got)
	}
}

func TestDecodeRepairsAlmostJSON(t *testing.T) {
	// Trailing comma and single quotes are common model slips.
	got, err := DecodeText[verdict](`{'label': 'ham', 'confidence': 0.4,}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != "ham" || got.Confidence != 0.4 {
		t.Fatalf("unexpected verdict: %#v", got)
	}
}

func TestDecodeTextFailure(t *testing.T) {
	_, err := DecodeText[verdict]("definitely not a json document {{{")
	if err == nil {
		t.Fatalf("expected decode failure")
	}
	var perr *llmresponse.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *llmresponse.ParseError, got %T", err)
	}
	if perr.Err == nil {
		t.Fatalf("expected wrapped decode error")
	}
}

func TestDecodePropagatesNoText(t *testing.T) {
	_, err := Decode[verdict](&llmresponse.Response{})
	if !errors.Is(err, llmresponse.ErrNoTextFound) {
		t.Fatalf("expected ErrNoTextFound, got %v", err)
	}
}

func TestDecodeIntoMap(t *testing.T) {
	got, err := DecodeText[map[string]any](`{"a": [1, 2]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got["a"].([]any)) != 2 {
		t.Fatalf("unexpected value: %#v", got)
	}
}
