// Package contract holds the OpenAPI description of the authentication API
// and checks outgoing request bodies against it.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed auth.yaml
var document []byte

// ErrUnknownOperation is returned when no operation matches method and path.
var ErrUnknownOperation = errors.New("contract: unknown operation")

// Document returns the raw embedded OpenAPI document.
func Document() []byte {
	out := make([]byte, len(document))
	copy(out, document)
	return out
}

// Validator checks request bodies against the embedded document.
type Validator struct {
	doc *openapi3.T
}

// New loads and validates the embedded document.
func New(ctx context.Context) (*Validator, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("contract: invalid document: %w", err)
	}
	return &Validator{doc: doc}, nil
}

// ValidateRequest checks body (any JSON-encodable value) against the JSON
// request schema of the operation at method and path.
func (v *Validator) ValidateRequest(ctx context.Context, method, path string, body any) error {
	schema, err := v.requestSchema(method, path)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("contract: encode body: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("contract: decode body: %w", err)
	}

	if err := schema.VisitJSON(decoded); err != nil {
		return fmt.Errorf("contract: %s %s: %w", strings.ToUpper(method), path, err)
	}
	return nil
}

// Operations lists the "METHOD path" pairs described by the document, sorted.
func (v *Validator) Operations() []string {
	var out []string
	for _, path := range v.doc.Paths.InMatchingOrder() {
		item := v.doc.Paths.Value(path)
		for method := range item.Operations() {
			out = append(out, method+" "+path)
		}
	}
	sort.Strings(out)
	return out
}

func (v *Validator) requestSchema(method, path string) (*openapi3.Schema, error) {
	item := v.doc.Paths.Find(path)
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, fmt.Errorf("contract: %s %s has no JSON request schema", method, path)
	}
	return media.Schema.Value, nil
}
