// Command converse runs a single round trip against a configured
// provider and prints the response text, optionally parsed as JSON.
// Provider credentials come from the environment (a .env file is
// loaded when present).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	genaikit "github.com/RyanFrench/generative-ai-toolkit"
	"github.com/joho/godotenv"
)

const defaultTimeoutSecond = 90

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("converse", flag.ContinueOnError)
	provider := fs.String("provider", "", "provider override (bedrock, openai, compat, deepseek, groq, xai)")
	model := fs.String("model", "", "model override")
	prompt := fs.String("prompt", "", "user prompt")
	system := fs.String("system", "", "system prompt")
	asJSON := fs.Bool("json", false, "parse the response text as JSON")
	timeout := fs.Int("timeout", defaultTimeoutSecond, "request timeout in seconds")
	debug := fs.Bool("debug", false, "log request/response payloads")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *prompt == "" {
		return fmt.Errorf("prompt is required")
	}

	// Missing .env files are fine; the environment may already be set.
	_ = godotenv.Load()

	client := genaikit.New(configFromEnv(*debug))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeout)*time.Second)
	defer cancel()

	opts := []genaikit.ChatOption{}
	if *system != "" {
		opts = append(opts, genaikit.WithMessage(genaikit.System(*system)))
	}
	opts = append(opts, genaikit.WithMessage(genaikit.User(*prompt)))
	if *provider != "" {
		opts = append(opts, genaikit.WithProvider(*provider))
	}
	if *model != "" {
		opts = append(opts, genaikit.WithModel(*model))
	}

	if *asJSON {
		value, err := client.ConverseJSON(ctx, opts...)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}

	text, err := client.ConverseText(ctx, opts...)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func configFromEnv(debug bool) genaikit.Config {
	return genaikit.Config{
		Provider:          os.Getenv("GENAI_PROVIDER"),
		Debug:             debug,
		AwsKey:            os.Getenv("AWS_ACCESS_KEY_ID"),
		AwsSecret:         os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AwsRegion:         os.Getenv("AWS_REGION"),
		AwsBedrockModelID: os.Getenv("BEDROCK_MODEL_ID"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIBase:     os.Getenv("OPENAI_API_BASE"),
		OpenAIModel:       os.Getenv("OPENAI_MODEL"),
		CompatAPIKey:      os.Getenv("COMPAT_API_KEY"),
		CompatAPIBase:     os.Getenv("COMPAT_API_BASE"),
		CompatModel:       os.Getenv("COMPAT_MODEL"),
	}
}
