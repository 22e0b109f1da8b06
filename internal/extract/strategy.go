// Package extract decides whether the native text layer of a document can be
// trusted or must be discarded in favor of image-based recognition.
package extract

import "strings"

// Route is the extraction strategy verdict.
type Route string

const (
	UseNative Route = "USE_NATIVE"
	UseOCR    Route = "USE_OCR"
)

// Reason explains which rule produced the verdict.
type Reason string

const (
	ReasonTrusted     Reason = "native text usable"
	ReasonTooShort    Reason = "native text too short"
	ReasonPlaceholder Reason = "placeholder-signature document"
)

// Verdict is the per-document strategy decision. Mixed-reliability documents
// are handled uniformly: one untrusted signal routes every page through OCR.
type Verdict struct {
	Route  Route
	Reason Reason
}

// placeholderPhrases are stub strings that digitally-signed documents embed
// in place of real content. Matched case-insensitively; "assinado" last as
// the broadest net for signature stamps.
var placeholderPhrases = []string{
	"assinado digitalmente",
	"assinado eletronicamente",
	"documento assinado",
	"assinatura digital",
	"assinado",
}

// Analyzer applies the extraction-strategy decision rule.
type Analyzer struct {
	// MinTrustedChars is the minimum-trust threshold on the trimmed
	// concatenation of all native page texts. Default 50.
	MinTrustedChars int
}

func NewAnalyzer(minTrustedChars int) *Analyzer {
	if minTrustedChars <= 0 {
		minTrustedChars = 50
	}
	return &Analyzer{MinTrustedChars: minTrustedChars}
}

// Analyze inspects the native page texts and returns the strategy verdict.
// Rule order matters: length first, then placeholder scan, then trusted.
func (a *Analyzer) Analyze(pages []string) Verdict {
	full := strings.TrimSpace(strings.Join(pages, "\n"))

	if len(full) < a.MinTrustedChars {
		return Verdict{Route: UseOCR, Reason: ReasonTooShort}
	}

	lower := strings.ToLower(full)
	for _, phrase := range placeholderPhrases {
		if strings.Contains(lower, phrase) {
			return Verdict{Route: UseOCR, Reason: ReasonPlaceholder}
		}
	}

	return Verdict{Route: UseNative, Reason: ReasonTrusted}
}
