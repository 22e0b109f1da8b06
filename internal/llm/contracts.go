package llm

import "context"

// CompletionRequest is one structuring call to the language-model collaborator.
type CompletionRequest struct {
	// System is the fixed role instruction; User carries the type-specific
	// prompt with the document text already embedded.
	System string
	User   string
}

// Structurer is the interface the pipeline depends on. Implementations must
// be stateless per call: no caching across documents, no shared mutation.
type Structurer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// SystemInstruction is the fixed system message for every structuring call.
const SystemInstruction = "Você é um especialista em extração de dados de documentos brasileiros. " +
	"Analise o texto fornecido e extraia as informações solicitadas em formato JSON válido."
