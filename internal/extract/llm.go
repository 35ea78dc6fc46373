package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/refurbtrack/price-tracker/internal/types"
)

const extractionInstructions = `Extract product information from this webpage text. Focus on Dell, HP, and Lenovo laptops and desktops only.

For each product, extract:
1. Brand (Dell, HP, or Lenovo)
2. Model number (e.g., Latitude 5420, EliteBook 840, ThinkPad T14)
3. Product type (Laptop or Desktop)
4. Title/Name as shown on the page
5. Price as a number, omitted entirely when not shown
6. Product URL when present
7. Configuration when shown: processor, RAM, storage, cosmetic grade, form factor, screen resolution, screen size

Omit any field that is not shown on the page. Never invent values and never use placeholders like "N/A".
Respond with JSON matching this schema:
`

// Poster issues the authenticated POST to the model endpoint. Implemented
// by the paced HTTP client.
type Poster interface {
	PostJSON(ctx context.Context, url, bearerToken string, body io.Reader) (*http.Response, error)
}

// LLMConfig points the extractor at an OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// LLMExtractor delegates extraction to a chat-completions endpoint,
// sending the reduced page text together with the record JSON Schema.
type LLMExtractor struct {
	client Poster
	config LLMConfig
	schema []byte
	logger zerolog.Logger
}

// NewLLMExtractor builds an extractor for the configured endpoint.
func NewLLMExtractor(client Poster, config LLMConfig, logger zerolog.Logger) (*LLMExtractor, error) {
	if config.BaseURL == "" || config.Model == "" {
		return nil, fmt.Errorf("llm extractor requires base URL and model")
	}
	schema, err := ResultSchemaJSON()
	if err != nil {
		return nil, err
	}
	return &LLMExtractor{
		client: client,
		config: config,
		schema: schema,
		logger: logger.With().Str("component", "llm-extractor").Logger(),
	}, nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Extract posts the page text to the model and decodes the structured
// result. Records missing a brand or product type are dropped here; the
// model boundary is where malformed data stops.
func (e *LLMExtractor) Extract(ctx context.Context, page Page) ([]types.ProductRecord, error) {
	payload, err := json.Marshal(chatRequest{
		Model: e.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: extractionInstructions + string(e.schema)},
			{Role: "user", Content: page.Text},
		},
		Temperature:    0,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding extraction request: %w", err)
	}

	url := strings.TrimSuffix(e.config.BaseURL, "/") + "/chat/completions"
	resp, err := e.client.PostJSON(ctx, url, e.config.APIKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("calling extraction endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction endpoint returned HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("decoding extraction response: %w", err)
	}
	if chat.Error != nil {
		return nil, fmt.Errorf("extraction endpoint error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("extraction endpoint returned no choices")
	}

	var result ExtractionResult
	content := stripCodeFence(chat.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("decoding extracted products: %w", err)
	}

	records := result.Products[:0:0]
	for _, r := range result.Products {
		if r.Brand == "" || r.ProductType == "" {
			e.logger.Debug().Str("title", r.Title).Msg("dropping incomplete record")
			continue
		}
		r.Competitor = page.Competitor
		if r.ProductType != types.ProductTypeLaptop && r.ProductType != types.ProductTypeDesktop {
			if pt := ClassifyProductType(string(r.ProductType) + " " + r.Title); pt != "" {
				r.ProductType = pt
			} else {
				continue
			}
		}
		records = append(records, r)
	}
	return records, nil
}

// stripCodeFence unwraps ```json fenced blocks some models insist on.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return cutAtRune(s, n) + "..."
}
