package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/RyanFrench/generative-ai-toolkit/chat"
	"github.com/RyanFrench/generative-ai-toolkit/internal/diag"
	"github.com/RyanFrench/generative-ai-toolkit/llmresponse"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/bedrockruntime"
	"github.com/aws/aws-sdk-go/service/bedrockruntime/bedrockruntimeiface"
	"github.com/lyricat/goutils/structs"
)

type Config struct {
	AwsKey    string
	AwsSecret string
	AwsRegion string
	ModelID   string
	Debug     bool
}

type Provider struct {
	client  bedrockruntimeiface.BedrockRuntimeAPI
	modelID string
	debug   bool
}

func New(cfg Config) *Provider {
	region := cfg.AwsRegion
	if region == "" {
		region = "us-east-1"
	}
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(cfg.AwsKey, cfg.AwsSecret, ""),
	}))
	return &Provider{
		client:  bedrockruntime.New(sess),
		modelID: cfg.ModelID,
		debug:   cfg.Debug,
	}
}

// Converse runs one Converse round trip and normalizes the SDK result
// into the canonical response shape.
func (p *Provider) Converse(ctx context.Context, req *chat.Request) (*llmresponse.Response, error) {
	debugFn := req.Options.DebugFn
	model := req.Model
	if model == "" {
		model = p.modelID
	}
	if model == "" {
		return nil, fmt.Errorf("bedrock model id is required")
	}

	system, turns := chat.SplitSystem(req.Messages)
	messages := make([]*bedrockruntime.Message, 0, len(turns))
	for _, m := range turns {
		if m.Content == "" {
			continue
		}
		role := bedrockruntime.ConversationRoleUser
		if m.Role == chat.RoleAssistant {
			role = bedrockruntime.ConversationRoleAssistant
		}
		messages = append(messages, &bedrockruntime.Message{
			Role: aws.String(role),
			Content: []*bedrockruntime.ContentBlock{
				{Text: aws.String(m.Content)},
			},
		})
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("at least one user or assistant message is required")
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(model),
		Messages: messages,
	}
	for _, text := range system {
		input.System = append(input.System, &bedrockruntime.SystemContentBlock{
			Text: aws.String(text),
		})
	}
	input.InferenceConfig = buildInferenceConfig(req.Options)

	var callOpts []request.Option
	if extra := extraRequestFields(req.Options.Bedrock); len(extra) > 0 {
		callOpts = append(callOpts, withExtraRequestFields(extra))
		diag.LogJSON(p.debug, debugFn, "bedrock.converse.extra_fields", extra)
	}
	diag.LogJSON(p.debug, debugFn, "bedrock.converse.request", input)

	out, err := p.client.ConverseWithContext(ctx, input, callOpts...)
	if err != nil {
		diag.LogError(p.debug, debugFn, "bedrock.converse.response", err)
		return nil, err
	}
	diag.LogJSON(p.debug, debugFn, "bedrock.converse.response", out)

	return FromConverseOutput(out), nil
}

func buildInferenceConfig(opts chat.Options) *bedrockruntime.InferenceConfiguration {
	cfg := &bedrockruntime.InferenceConfiguration{}
	set := false
	if opts.Temperature != nil {
		cfg.Temperature = aws.Float64(*opts.Temperature)
		set = true
	}
	if opts.TopP != nil {
		cfg.TopP = aws.Float64(*opts.TopP)
		set = true
	}
	if opts.MaxTokens != nil {
		cfg.MaxTokens = aws.Int64(int64(*opts.MaxTokens))
		set = true
	}
	if len(opts.Stop) > 0 {
		cfg.StopSequences = aws.StringSlice(opts.Stop)
		set = true
	}
	if !set {
		return nil
	}
	return cfg
}

func extraRequestFields(opts structs.JSONMap) aws.JSONValue {
	if len(opts) == 0 {
		return nil
	}
	out := aws.JSONValue{}
	opt := &opts
	if opt.HasKey("top_k") {
		if top := int(opt.GetInt64("top_k")); top > 0 {
			out["top_k"] = top
		}
	}
	return out
}

// withExtraRequestFields merges extra model parameters into the
// serialized Converse payload as the additionalModelRequestFields
// document. The v1 SDK exposes no typed field for it, so the body is
// rewritten after the protocol serializer has run.
func withExtraRequestFields(extra aws.JSONValue) request.Option {
	return func(r *request.Request) {
		r.Handlers.Build.PushBack(func(r *request.Request) {
			if r.Error != nil || r.Body == nil {
				return
			}
			if _, err := r.Body.Seek(0, io.SeekStart); err != nil {
				r.Error = err
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				r.Error = err
				return
			}
			merged, err := mergeExtraFields(body, extra)
			if err != nil {
				r.Error = err
				return
			}
			r.SetBufferBody(merged)
		})
	}
}

func mergeExtraFields(body []byte, extra aws.JSONValue) ([]byte, error) {
	payload := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decode converse payload: %w", err)
		}
	}
	payload["additionalModelRequestFields"] = map[string]any(extra)
	return json.Marshal(payload)
}

// FromConverseOutput converts an SDK result into the canonical response
// shape. Content blocks keep their positions so that text extraction
// sees the ordering the model produced; non-text blocks come through
// with their text unset.
func FromConverseOutput(out *bedrockruntime.ConverseOutput) *llmresponse.Response {
	resp := &llmresponse.Response{
		StopReason: aws.StringValue(out.StopReason),
	}
	if out.Usage != nil {
		resp.Usage = &llmresponse.TokenUsage{
			InputTokens:  int(aws.Int64Value(out.Usage.InputTokens)),
			OutputTokens: int(aws.Int64Value(out.Usage.OutputTokens)),
			TotalTokens:  int(aws.Int64Value(out.Usage.TotalTokens)),
		}
	}
	if out.Output == nil || out.Output.Message == nil {
		return resp
	}
	msg := &llmresponse.Message{
		Role:    aws.StringValue(out.Output.Message.Role),
		Content: make([]llmresponse.ContentBlock, 0, len(out.Output.Message.Content)),
	}
	for _, block := range out.Output.Message.Content {
		converted := llmresponse.ContentBlock{}
		if block.Text != nil {
			converted.Text = aws.String(*block.Text)
		}
		msg.Content = append(msg.Content, converted)
	}
	resp.Output.Message = msg
	return resp
}
