package contract

import (
	"sort"
	"strings"
	"testing"

	"github.com/KeyCoreSH/extractbrowser/constants"
)

func TestRegistry_LookupKnownTypes(t *testing.T) {
	r := NewRegistry()
	for _, dt := range constants.AllDocumentTypes {
		c := r.Lookup(dt)
		if c.Type != dt {
			t.Errorf("Lookup(%s).Type = %s", dt, c.Type)
		}
		if len(c.Fields) == 0 {
			t.Errorf("%s: contract has no fields", dt)
		}
		if c.Schema == nil {
			t.Errorf("%s: contract has no schema", dt)
		}
		if c.Prompt == nil {
			t.Errorf("%s: contract has no prompt", dt)
		}
		if c.Version == "" {
			t.Errorf("%s: contract has no version", dt)
		}
	}
}

func TestRegistry_UnknownFallback(t *testing.T) {
	r := NewRegistry()
	c := r.Lookup(constants.DocumentType("SOMETHING_ELSE"))
	if c.Type != constants.Unknown {
		t.Errorf("fallback type = %s, want UNKNOWN", c.Type)
	}
	if len(c.Required) != 0 {
		t.Errorf("UNKNOWN contract must have no required fields, got %v", c.Required)
	}
}

func TestRegistry_RequiredPathsResolveToFields(t *testing.T) {
	r := NewRegistry()
	for _, dt := range constants.AllDocumentTypes {
		c := r.Lookup(dt)
		for _, req := range c.Required {
			top := strings.SplitN(req, ".", 2)[0]
			found := false
			for _, f := range c.Fields {
				if f == top {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s: required path %q does not resolve to a contract field", dt, req)
			}
		}
	}
}

func TestFieldContract_Conform(t *testing.T) {
	c := NewRegistry().Lookup(constants.CNH)

	record := map[string]any{
		"nome":       "MARIA DA SILVA",
		"cpf":        "123.456.789-00",
		"confidence": 0.9,          // model self-report, not a contract field
		"inventado":  "extraneous", // unknown key
	}
	got := c.Conform(record)

	if len(got) != len(c.Fields) {
		t.Fatalf("conformed record has %d keys, want %d", len(got), len(c.Fields))
	}
	var keys []string
	for k := range got {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	want := append([]string(nil), c.Fields...)
	sort.Strings(want)
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("conformed keys = %v, want exactly %v", keys, want)
		}
	}

	if got["nome"] != "MARIA DA SILVA" {
		t.Errorf("nome lost in conform")
	}
	if v, ok := got["categoria"]; !ok || v != nil {
		t.Errorf("missing field should be explicit null, got %v ok=%t", v, ok)
	}
	if _, ok := got["inventado"]; ok {
		t.Errorf("unknown key survived conform")
	}
	// input not mutated
	if _, ok := record["categoria"]; ok {
		t.Errorf("Conform mutated its input")
	}
}

func TestPresent(t *testing.T) {
	record := map[string]any{
		"nome": "JOAO",
		"cpf":  "   ",
		"transportador": map[string]any{
			"rntrc": "01234567",
		},
		"veiculos": []any{map[string]any{"placa": "ABC1D23"}},
		"vazio":    []any{},
		"resumo":   map[string]any{},
		"ano":      float64(2020),
		"nada":     nil,
	}

	tests := []struct {
		path string
		want bool
	}{
		{"nome", true},
		{"cpf", false}, // blank string
		{"transportador.rntrc", true},
		{"transportador.razao_social_nome", false},
		{"veiculos", true},
		{"vazio", false},
		{"resumo", false},
		{"ano", true},
		{"nada", false},
		{"ausente", false},
		{"nome.sub", false}, // descending through a scalar
	}
	for _, tt := range tests {
		if got := Present(record, tt.path); got != tt.want {
			t.Errorf("Present(%q) = %t, want %t", tt.path, got, tt.want)
		}
	}
}

func TestPrompts_EmbedTextAndRules(t *testing.T) {
	r := NewRegistry()
	text := "TEXTO-DE-PROVA-9876"
	for _, dt := range append(constants.AllDocumentTypes, constants.Unknown) {
		p := r.Lookup(dt).Prompt(text)
		if !strings.Contains(p, text) {
			t.Errorf("%s prompt does not embed the document text", dt)
		}
		if !strings.Contains(p, "APENAS o objeto JSON") {
			t.Errorf("%s prompt lacks the strict-JSON rules", dt)
		}
		if strings.Contains(p, "%s") || strings.Contains(p, "%!") {
			t.Errorf("%s prompt has formatting artifacts", dt)
		}
	}
}
