package extract

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/refurbtrack/price-tracker/internal/types"
)

// ExtractionResult is the shape the LLM must return: the full list of
// products found on one page. The schema sent with each request is
// reflected from this type, so the wire contract and the Go model can
// never drift apart.
type ExtractionResult struct {
	Products []types.ProductRecord `json:"products" jsonschema:"description=Every Dell / HP / Lenovo laptop or desktop listing found on the page"`
}

// ResultSchema reflects the JSON Schema for ExtractionResult.
func ResultSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	return reflector.Reflect(&ExtractionResult{})
}

// ResultSchemaJSON returns the schema serialized for embedding in a
// model request or writing to disk.
func ResultSchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(ResultSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling extraction schema: %w", err)
	}
	return data, nil
}
