// Command jsonextract reads a converse-style response document and
// prints either its first text block or that text parsed as JSON.
//
//	jsonextract -mode text -input response.json
//	cat response.json | jsonextract -mode json -pretty
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/RyanFrench/generative-ai-toolkit/llmresponse"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("jsonextract", flag.ContinueOnError)
	input := fs.String("input", "", "response document to read (defaults to stdin)")
	mode := fs.String("mode", "json", "output mode: text or json")
	pretty := fs.Bool("pretty", false, "indent JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(*input, stdin)
	if err != nil {
		return err
	}
	resp, err := llmresponse.Decode(data)
	if err != nil {
		return err
	}

	switch *mode {
	case "text":
		text, err := llmresponse.GetText(resp)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, text)
		return nil
	case "json":
		value, err := llmresponse.JSONParse(resp)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		if *pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(value)
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
