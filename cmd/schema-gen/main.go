// Schema Generator
//
// Emits the JSON Schema the LLM extractor embeds in its prompt, so the
// extraction contract can be reviewed and diffed outside the binary.
//
// Usage:
//
//	go run cmd/schema-gen/main.go [output-dir]
//
// Output:
//
//	<output-dir>/extraction.json (default ./schemas/extraction.json)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/refurbtrack/price-tracker/internal/extract"
)

func main() {
	outputDir := "./schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	payload, err := extract.ResultSchemaJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate schema: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join(outputDir, "extraction.json")
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outputPath)
}
