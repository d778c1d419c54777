// Package manifest describes the remote operations the luis tool can
// dispatch and validates a requested operation before any network or file
// IO happens.
package manifest

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed authoring.yaml
var authoringDoc []byte

// inputTypeExtension names the human-readable input document type of an
// operation that takes a request body.
const inputTypeExtension = "x-cli-input-type"

// maxSuggestDistance bounds how far a mistyped operation name may be from a
// real one before suggestions stay quiet.
const maxSuggestDistance = 2

// Operation is one dispatchable entry of the manifest.
type Operation struct {
	Name          string   // operation ID, the name users select it by
	Method        string   // HTTP method
	Path          string   // endpoint-relative path with {appId}/{versionId} placeholders
	Summary       string   // one-line description for help output
	RequiresInput bool     // a request body must be supplied via --in
	InputType     string   // what kind of document the body is
	QueryParams   []string // query parameter names the operation accepts
	Deprecated    bool     // the service still answers but warns callers off
}

// Table is a loaded manifest keyed by operation name.
type Table struct {
	ops   map[string]*Operation
	names []string
}

// Load parses the embedded authoring manifest.
func Load() (*Table, error) {
	return Parse(context.Background(), authoringDoc)
}

// Parse loads an OpenAPI document and flattens its path items into a Table.
// Operations without an operation ID are not dispatchable and are skipped.
func Parse(ctx context.Context, data []byte) (*Table, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load operation manifest: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("operation manifest is not valid: %w", err)
	}

	table := &Table{ops: make(map[string]*Operation)}
	for path, pathItem := range doc.Paths.Map() {
		for method, op := range pathItem.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}
			entry := &Operation{
				Name:       op.OperationID,
				Method:     method,
				Path:       path,
				Summary:    op.Summary,
				Deprecated: op.Deprecated,
			}
			if body := op.RequestBody; body != nil && body.Value != nil && body.Value.Required {
				entry.RequiresInput = true
				entry.InputType = inputType(op)
			}
			for _, param := range op.Parameters {
				if param.Value != nil && param.Value.In == openapi3.ParameterInQuery {
					entry.QueryParams = append(entry.QueryParams, param.Value.Name)
				}
			}
			sort.Strings(entry.QueryParams)
			table.ops[entry.Name] = entry
		}
	}

	for name := range table.ops {
		table.names = append(table.names, name)
	}
	sort.Strings(table.names)
	return table, nil
}

func inputType(op *openapi3.Operation) string {
	if v, ok := op.Extensions[inputTypeExtension].(string); ok && v != "" {
		return v
	}
	return "JSON document"
}

// Lookup returns the entry for name, or nil when the manifest has no such
// operation.
func (t *Table) Lookup(name string) *Operation {
	return t.ops[name]
}

// Names returns every operation name in sorted order.
func (t *Table) Names() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Suggest returns the closest operation name within a small edit distance of
// name, or "" when nothing is close enough to be worth offering.
func (t *Table) Suggest(name string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range t.names {
		d := levenshtein.ComputeDistance(strings.ToLower(name), candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// Select looks name up and validates the input contract in one step,
// enriching an unknown-operation failure with a spelling suggestion.
func (t *Table) Select(name string, hasInput bool) (*Operation, error) {
	op := t.ops[name]
	if op == nil {
		msg := fmt.Sprintf("operation %q does not exist", name)
		if suggestion := t.Suggest(name); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		return nil, &ArgumentError{Message: msg}
	}
	if err := Validate(op, hasInput); err != nil {
		return nil, err
	}
	return op, nil
}
