// Package contract owns the per-document-type extraction contracts: field
// sets, required subsets, JSON Schemas and prompt templates. Everything
// type-specific the pipeline needs lives behind the registry so behavior is
// not branched across components.
package contract

import (
	"strings"

	"github.com/KeyCoreSH/extractbrowser/constants"
)

// FieldContract describes what a structured record of a given type must look
// like. Contracts are versioned independently of pipeline code.
type FieldContract struct {
	Type    constants.DocumentType
	Version string

	// Fields is the ordered set of top-level field names the record carries.
	Fields []string

	// Required holds dotted paths into the record (e.g. "transportador.rntrc")
	// whose presence drives the confidence score.
	Required []string

	// Schema is the JSON Schema the model response must satisfy.
	Schema map[string]any

	// Prompt renders the type-specific instruction set for the given text.
	Prompt func(text string) string
}

// Registry resolves DocumentType to its FieldContract.
type Registry struct {
	contracts map[constants.DocumentType]*FieldContract
}

// NewRegistry builds the default registry with all known contracts.
func NewRegistry() *Registry {
	r := &Registry{contracts: make(map[constants.DocumentType]*FieldContract)}
	for _, c := range []*FieldContract{
		anttContract(),
		cnhContract(),
		cnpjContract(),
		vehicleContract(),
		residenceContract(),
		unknownContract(),
	} {
		r.contracts[c.Type] = c
	}
	return r
}

// Lookup returns the contract for the given type. Unrecognized types fall
// back to the generic UNKNOWN contract, which has no required fields.
func (r *Registry) Lookup(t constants.DocumentType) *FieldContract {
	if c, ok := r.contracts[t]; ok {
		return c
	}
	return r.contracts[constants.Unknown]
}

// Conform prunes keys the contract does not name and fills missing fields
// with explicit nulls, so a successful record carries exactly the contract's
// field keys. The input map is not mutated.
func (c *FieldContract) Conform(record map[string]any) map[string]any {
	out := make(map[string]any, len(c.Fields))
	for _, f := range c.Fields {
		if v, ok := record[f]; ok {
			out[f] = v
		} else {
			out[f] = nil
		}
	}
	return out
}

// Present reports whether the dotted path resolves to a non-empty value in
// the record: non-nil, non-blank string, non-empty list or mapping.
func Present(record map[string]any, path string) bool {
	var cur any = record
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		cur, ok = m[seg]
		if !ok {
			return false
		}
	}
	switch v := cur.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		// numbers and booleans count as present
		return true
	}
}
