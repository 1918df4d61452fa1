package bedrock

import (
	"context"
	"encoding/json"
	"io"
	"reflect"
	"testing"

	"github.com/RyanFrench/generative-ai-toolkit/chat"
	"github.com/RyanFrench/generative-ai-toolkit/llmresponse"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/bedrockruntime"
	"github.com/aws/aws-sdk-go/service/bedrockruntime/bedrockruntimeiface"
	"github.com/lyricat/goutils/structs"
)

type mockBedrockAPI struct {
	bedrockruntimeiface.BedrockRuntimeAPI
	input *bedrockruntime.ConverseInput
	opts  []request.Option
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (m *mockBedrockAPI) ConverseWithContext(_ aws.Context, input *bedrockruntime.ConverseInput, opts ...request.Option) (*bedrockruntime.ConverseOutput, error) {
	m.input = input
	m.opts = opts
	return m.out, m.err
}

func converseOutput(texts ...string) *bedrockruntime.ConverseOutput {
	blocks := make([]*bedrockruntime.ContentBlock, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, &bedrockruntime.ContentBlock{Text: aws.String(t)})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &bedrockruntime.ConverseOutput_{
			Message: &bedrockruntime.Message{
				Role:    aws.String(bedrockruntime.ConversationRoleAssistant),
				Content: blocks,
			},
		},
		StopReason: aws.String("end_turn"),
		Usage: &bedrockruntime.TokenUsage{
			InputTokens:  aws.Int64(12),
			OutputTokens: aws.Int64(7),
			TotalTokens:  aws.Int64(19),
		},
	}
}

func TestConverse(t *testing.T) {
	mock := &mockBedrockAPI{out: converseOutput(`{"ok": true}`)}
	p := &Provider{client: mock, modelID: "anthropic.claude-3-5-sonnet-20240620-v1:0"}

	req, err := chat.BuildRequest(
		chat.WithMessages(chat.System("answer in JSON"), chat.User("status?")),
		chat.WithTemperature(0.1),
		chat.WithMaxTokens(256),
	)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	resp, err := p.Converse(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := aws.StringValue(mock.input.ModelId); got != "anthropic.claude-3-5-sonnet-20240620-v1:0" {
		t.Fatalf("unexpected model id: %q", got)
	}
	if len(mock.input.System) != 1 || aws.StringValue(mock.input.System[0].Text) != "answer in JSON" {
		t.Fatalf("system prompt not forwarded: %#v", mock.input.System)
	}
	if len(mock.input.Messages) != 1 {
		t.Fatalf("expected 1 conversation message, got %d", len(mock.input.Messages))
	}
	if mock.input.InferenceConfig == nil {
		t.Fatalf("inference config missing")
	}
	if got := aws.Float64Value(mock.input.InferenceConfig.Temperature); got != 0.1 {
		t.Fatalf("unexpected temperature: %v", got)
	}
	if got := aws.Int64Value(mock.input.InferenceConfig.MaxTokens); got != 256 {
		t.Fatalf("unexpected max tokens: %v", got)
	}

	text, err := llmresponse.GetText(resp)
	if err != nil {
		t.Fatalf("get text: %v", err)
	}
	if text != `{"ok": true}` {
		t.Fatalf("unexpected text: %q", text)
	}
	if resp.StopReason != "end_turn" {
		t.Fatalf("unexpected stop reason: %q", resp.StopReason)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 19 {
		t.Fatalf("usage not mapped: %#v", resp.Usage)
	}
}

func TestConverseJSONRoundTrip(t *testing.T) {
	mock := &mockBedrockAPI{out: converseOutput("```json\n{\"status\": \"green\"}\n```")}
	p := &Provider{client: mock, modelID: "model"}

	req, err := chat.BuildRequest(chat.WithMessage(chat.User("status?")))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := p.Converse(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, err := llmresponse.JSONParse(resp)
	if err != nil {
		t.Fatalf("json parse: %v", err)
	}
	if !reflect.DeepEqual(value, map[string]any{"status": "green"}) {
		t.Fatalf("unexpected value: %#v", value)
	}
}

func TestConverseExtraRequestFields(t *testing.T) {
	mock := &mockBedrockAPI{out: converseOutput("ok")}
	p := &Provider{client: mock, modelID: "model"}

	opts := structs.NewJSONMap()
	opts.SetValue("top_k", 40)
	req, err := chat.BuildRequest(
		chat.WithMessage(chat.User("hi")),
		chat.WithBedrockOptions(opts),
	)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if _, err := p.Converse(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.opts) != 1 {
		t.Fatalf("expected the extra-fields request option, got %d options", len(mock.opts))
	}

	// No extras configured means no option either.
	plain, err := chat.BuildRequest(chat.WithMessage(chat.User("hi")))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if _, err := p.Converse(context.Background(), plain); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.opts) != 0 {
		t.Fatalf("expected no request options, got %d", len(mock.opts))
	}
}

func TestMergeExtraFields(t *testing.T) {
	body := []byte(`{"modelId":"model","messages":[{"role":"user","content":[{"text":"hi"}]}]}`)
	merged, err := mergeExtraFields(body, aws.JSONValue{"top_k": 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(merged, &payload); err != nil {
		t.Fatalf("merged payload is not valid JSON: %v", err)
	}
	fields, ok := payload["additionalModelRequestFields"].(map[string]any)
	if !ok || fields["top_k"] != float64(40) {
		t.Fatalf("extra fields not merged: %#v", payload)
	}
	if payload["modelId"] != "model" {
		t.Fatalf("original payload lost: %#v", payload)
	}
}

func TestWithExtraRequestFieldsRewritesBody(t *testing.T) {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String("us-east-1"),
		Credentials: credentials.NewStaticCredentials("key", "secret", ""),
	}))
	svc := bedrockruntime.New(sess)
	req, _ := svc.ConverseRequest(&bedrockruntime.ConverseInput{
		ModelId: aws.String("model"),
		Messages: []*bedrockruntime.Message{
			{
				Role:    aws.String(bedrockruntime.ConversationRoleUser),
				Content: []*bedrockruntime.ContentBlock{{Text: aws.String("hi")}},
			},
		},
	})
	withExtraRequestFields(aws.JSONValue{"top_k": 40})(req)

	// Build serializes the payload and runs the appended handler; no
	// network traffic happens until Send.
	if err := req.Build(); err != nil {
		t.Fatalf("build request: %v", err)
	}
	if _, err := req.Body.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("seek body: %v", err)
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	fields, ok := payload["additionalModelRequestFields"].(map[string]any)
	if !ok || fields["top_k"] != float64(40) {
		t.Fatalf("extra fields missing from serialized body: %s", data)
	}
	if _, ok := payload["messages"]; !ok {
		t.Fatalf("serialized payload lost: %s", data)
	}
}

func TestConverseRequiresModel(t *testing.T) {
	p := &Provider{client: &mockBedrockAPI{}}
	req, err := chat.BuildRequest(chat.WithMessage(chat.User("hi")))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if _, err := p.Converse(context.Background(), req); err == nil {
		t.Fatalf("expected error for missing model id")
	}
}

func TestConverseRequiresConversationMessage(t *testing.T) {
	p := &Provider{client: &mockBedrockAPI{}, modelID: "model"}
	req, err := chat.BuildRequest(chat.WithMessage(chat.System("only system")))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if _, err := p.Converse(context.Background(), req); err == nil {
		t.Fatalf("expected error for empty conversation")
	}
}

func TestFromConverseOutputSkipsNonText(t *testing.T) {
	out := &bedrockruntime.ConverseOutput{
		Output: &bedrockruntime.ConverseOutput_{
			Message: &bedrockruntime.Message{
				Role: aws.String(bedrockruntime.ConversationRoleAssistant),
				Content: []*bedrockruntime.ContentBlock{
					{ToolResult: &bedrockruntime.ToolResultBlock{}},
					{Text: aws.String("after the tool block")},
				},
			},
		},
	}
	resp := FromConverseOutput(out)
	text, err := llmresponse.GetText(resp)
	if err != nil {
		t.Fatalf("get text: %v", err)
	}
	if text != "after the tool block" {
		t.Fatalf("unexpected text: %q", text)
	}
}
