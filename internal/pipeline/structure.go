package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KeyCoreSH/extractbrowser/internal/contract"
	"github.com/KeyCoreSH/extractbrowser/internal/llm"
)

// StructureOutcome reports one structuring run: the conformed record on
// success, plus the model's optional self-reported confidence.
type StructureOutcome struct {
	Success         bool
	Record          map[string]any
	ModelConfidence float64
	Attempts        int
}

// StructureStage turns extracted text into a contract-conformant record
// by prompting the model and validating its output. A malformed or
// schema-violating reply is retried within the attempt budget; the
// extracted text and the prompt never change between attempts.
type StructureStage struct {
	llm      llm.Structurer
	attempts int
	log      *slog.Logger
}

func NewStructureStage(s llm.Structurer, attempts int, logger *slog.Logger) *StructureStage {
	if attempts < 1 {
		attempts = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StructureStage{llm: s, attempts: attempts, log: logger}
}

// Run executes the structuring loop for one document.
func (s *StructureStage) Run(ctx context.Context, text string, c *contract.FieldContract) StructureOutcome {
	req := llm.CompletionRequest{
		System: llm.SystemInstruction,
		User:   c.Prompt(text),
	}

	outcome := StructureOutcome{}
	for attempt := 1; attempt <= s.attempts; attempt++ {
		outcome.Attempts = attempt

		raw, err := s.llm.Complete(ctx, req)
		if err != nil {
			s.log.Error("structure.attempt.llm_error",
				"attempt", attempt, "doc_type", string(c.Type), "error", err)
			continue
		}

		record, modelConf, err := s.parse(raw, c)
		if err != nil {
			s.log.Warn("structure.attempt.invalid_output",
				"attempt", attempt, "doc_type", string(c.Type), "error", err)
			continue
		}

		outcome.Success = true
		outcome.Record = record
		outcome.ModelConfidence = modelConf
		return outcome
	}

	s.log.Error("structure.exhausted",
		"attempts", outcome.Attempts, "doc_type", string(c.Type))
	return outcome
}

// parse cleans, decodes and validates a raw model reply, then conforms
// it to the contract's field set.
func (s *StructureStage) parse(raw string, c *contract.FieldContract) (map[string]any, float64, error) {
	cleaned := llm.CleanJSONResponse(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, 0, err
	}

	if err := llm.ValidateJSONAgainstSchema(c.Schema, []byte(cleaned)); err != nil {
		return nil, 0, err
	}

	// The model may volunteer a top-level confidence. Capture it before
	// Conform strips everything outside the contract's field set.
	modelConf := 0.0
	if v, ok := data["confidence"].(float64); ok {
		modelConf = v
	}

	return c.Conform(data), modelConf, nil
}
