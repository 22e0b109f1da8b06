package pipeline

import (
	"time"

	"github.com/KeyCoreSH/extractbrowser/constants"
)

// StageResult is the structuring sub-envelope: inner success reflects
// structuring viability only, independent of the outer flag.
type StageResult struct {
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data"`
	Confidence float64        `json:"confidence"`
}

// EnvelopeData is the payload half of the response envelope.
type EnvelopeData struct {
	DocumentType     string      `json:"document_type"`
	Structured       StageResult `json:"data"`
	ProcessingTimeMS int64       `json:"processing_time_ms"`
}

// Envelope is the wire shape every processing invocation resolves to,
// failures included.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    EnvelopeData `json:"data"`
}

// Result is the outcome of one pipeline invocation. ReqID, Source and
// Degraded are processing metadata for logging and the extraction log;
// they never reach the envelope.
type Result struct {
	Success      bool
	Message      string
	DocumentType constants.DocumentType
	Structured   StageResult
	ReqID        string
	Source       string
	Degraded     bool
	Elapsed      time.Duration
}

// Envelope assembles the final response shape.
func (r Result) Envelope() Envelope {
	structured := r.Structured
	if structured.Data == nil {
		structured.Data = map[string]any{}
	}
	return Envelope{
		Success: r.Success,
		Message: r.Message,
		Data: EnvelopeData{
			DocumentType:     r.DocumentType.WireLabel(),
			Structured:       structured,
			ProcessingTimeMS: r.Elapsed.Milliseconds(),
		},
	}
}

// failed builds the terminal result for extraction-level failures:
// success=false implies confidence 0 and an empty record.
func failed(reqID, message string, elapsed time.Duration) Result {
	return Result{
		Success:      false,
		Message:      message,
		DocumentType: constants.Unknown,
		Structured:   StageResult{Success: false, Data: map[string]any{}, Confidence: 0},
		ReqID:        reqID,
		Elapsed:      elapsed,
	}
}
