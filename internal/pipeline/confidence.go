package pipeline

import (
	"github.com/KeyCoreSH/extractbrowser/internal/contract"
)

// ExtractionMeta carries the extraction-path facts the scorer consumes.
type ExtractionMeta struct {
	// Source is "native" or "ocr".
	Source string
	// DegradedFallback is set when OCR failed and the pipeline fell back
	// to native text it had already judged untrustworthy.
	DegradedFallback bool
}

// Scorer derives a deterministic confidence in [0,1] from the conformed
// record, the field contract and the extraction path.
type Scorer struct {
	FallbackPenalty  float64
	ModelConfFloor   float64
	ModelConfPenalty float64
}

// NewScorer builds a scorer with the given penalty knobs. Zero values
// fall back to the defaults used across the service.
func NewScorer(fallbackPenalty, modelConfFloor, modelConfPenalty float64) *Scorer {
	if fallbackPenalty <= 0 {
		fallbackPenalty = 0.75
	}
	if modelConfFloor <= 0 {
		modelConfFloor = 0.5
	}
	if modelConfPenalty <= 0 {
		modelConfPenalty = 0.9
	}
	return &Scorer{
		FallbackPenalty:  fallbackPenalty,
		ModelConfFloor:   modelConfFloor,
		ModelConfPenalty: modelConfPenalty,
	}
}

// Score computes the confidence for a successfully structured record.
// modelConf is the model's optional self-report, 0 when absent.
func (s *Scorer) Score(record map[string]any, c *contract.FieldContract, meta ExtractionMeta, modelConf float64) float64 {
	base := s.base(record, c)

	if meta.DegradedFallback {
		base *= s.FallbackPenalty
	}
	if modelConf > 0 && modelConf < s.ModelConfFloor {
		base *= s.ModelConfPenalty
	}

	if base < 0 {
		return 0
	}
	if base > 1 {
		return 1
	}
	return base
}

func (s *Scorer) base(record map[string]any, c *contract.FieldContract) float64 {
	if len(c.Required) == 0 {
		// Unclassified documents have no required fields. The score then
		// only says whether the model pulled anything out at all.
		if anyNonEmpty(record) {
			return 0.8
		}
		return 0
	}

	present := 0
	for _, path := range c.Required {
		if contract.Present(record, path) {
			present++
		}
	}
	return float64(present) / float64(len(c.Required))
}

func anyNonEmpty(record map[string]any) bool {
	for key := range record {
		if contract.Present(record, key) {
			return true
		}
	}
	return false
}
