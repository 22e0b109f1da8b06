package constants

import "strings"

// DocumentType is the closed set of document types the pipeline can produce.
type DocumentType string

// Stable values (stored in the extraction log and used as registry keys).
const (
	ANTT      DocumentType = "ANTT"      // RNTRC transporter certificate
	CNH       DocumentType = "CNH"       // driver's license
	CNPJ      DocumentType = "CNPJ"      // company registry card
	Vehicle   DocumentType = "VEHICLE"   // CRV/CRLV vehicle registration
	Residence DocumentType = "RESIDENCE" // utility bill / proof of residence
	Unknown   DocumentType = "UNKNOWN"
)

// AllDocumentTypes lists every classifiable type, Unknown excluded.
var AllDocumentTypes = []DocumentType{ANTT, CNH, CNPJ, Vehicle, Residence}

// wireLabels maps internal types to the labels used in the response envelope.
var wireLabels = map[DocumentType]string{
	ANTT:      "CERTIFICADO_ANTT",
	CNH:       "CNH",
	CNPJ:      "CNPJ",
	Vehicle:   "CRLV",
	Residence: "CONTA_ENERGIA",
	Unknown:   "UNKNOWN",
}

// WireLabel returns the envelope label for a document type.
func (t DocumentType) WireLabel() string {
	if l, ok := wireLabels[t]; ok {
		return l
	}
	return string(Unknown)
}

// hint aliases accepted from callers, including the labels the legacy API used.
var hintAliases = map[string]DocumentType{
	"ANTT":             ANTT,
	"CERTIFICADO_ANTT": ANTT,
	"EXTRATO_ANTT":     ANTT,
	"CNH":              CNH,
	"CNPJ":             CNPJ,
	"VEHICLE":          Vehicle,
	"VEICULO":          Vehicle,
	"CRV":              Vehicle,
	"CRLV":             Vehicle,
	"RESIDENCE":        Residence,
	"RESIDENCIA":       Residence,
	"CONTA_ENERGIA":    Residence,
	"FATURA_ENERGIA":   Residence,
}

// ParseHint resolves a caller-supplied type hint to a known DocumentType.
// Returns false for empty, "generic", or unrecognized hints.
func ParseHint(hint string) (DocumentType, bool) {
	h := strings.ToUpper(strings.TrimSpace(hint))
	if h == "" || h == "GENERIC" {
		return Unknown, false
	}
	t, ok := hintAliases[h]
	return t, ok
}
