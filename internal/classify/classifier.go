// Package classify assigns a DocumentType to extracted text by scoring it
// against per-type keyword sets. A caller-supplied hint short-circuits
// inference; UNKNOWN is a valid terminal classification, not an error.
package classify

import (
	"log/slog"
	"strings"

	"github.com/KeyCoreSH/extractbrowser/constants"
)

type keyword struct {
	phrase string
	weight int
}

type keywordSet struct {
	docType  constants.DocumentType
	keywords []keyword
}

// Keyword tables. Distinctive vocabulary carries weight 2 so a single strong
// marker (RNTRC, RENAVAM, kWh) is enough on its own; generic words need a
// second hit. OCR output often loses accents, so both spellings are listed.
var keywordSets = []keywordSet{
	{
		docType: constants.ANTT,
		keywords: []keyword{
			{"rntrc", 2},
			{"agência nacional de transportes", 2},
			{"agencia nacional de transportes", 2},
			{"transportador rodoviário", 1},
			{"transportador rodoviario", 1},
			{"antt", 1},
		},
	},
	{
		docType: constants.Vehicle,
		keywords: []keyword{
			{"crlv", 2},
			{"renavam", 2},
			{"certificado de registro de veículo", 2},
			{"certificado de registro de veiculo", 2},
			{"chassi", 1},
			{"licenciamento", 1},
			{"placa", 1},
		},
	},
	{
		docType: constants.CNH,
		keywords: []keyword{
			{"carteira nacional de habilitação", 2},
			{"carteira nacional de habilitacao", 2},
			{"primeira habilitação", 2},
			{"primeira habilitacao", 2},
			{"habilitação", 1},
			{"habilitacao", 1},
			{"categoria", 1},
			{"detran", 1},
		},
	},
	{
		docType: constants.CNPJ,
		keywords: []keyword{
			{"cadastro nacional da pessoa jurídica", 2},
			{"cadastro nacional da pessoa juridica", 2},
			{"razão social", 1},
			{"razao social", 1},
			{"sociedade", 1},
			{"natureza jurídica", 1},
			{"natureza juridica", 1},
			{"cnpj", 1},
		},
	},
	{
		docType: constants.Residence,
		keywords: []keyword{
			{"kwh", 2},
			{"conta de energia", 2},
			{"fatura", 1},
			{"consumo", 1},
			{"distribuidora", 1},
			{"vencimento", 1},
			{"instalação", 1},
			{"instalacao", 1},
			{"leitura", 1},
		},
	},
}

// Classifier scores text against the keyword tables.
type Classifier struct {
	// MinScore is the minimum winning score; anything below is UNKNOWN.
	MinScore int
	logger   *slog.Logger
}

func NewClassifier(minScore int, logger *slog.Logger) *Classifier {
	if minScore <= 0 {
		minScore = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{MinScore: minScore, logger: logger}
}

// Classify returns the document type for the given text. A hint naming a
// known type is honored without inference.
func (c *Classifier) Classify(text, hint string) constants.DocumentType {
	if t, ok := constants.ParseHint(hint); ok {
		c.logger.Debug("classify.hint_honored", "hint", hint, "type", t)
		return t
	}

	lower := strings.ToLower(text)
	best := constants.Unknown
	bestScore := 0
	bestSetSize := 0

	for _, set := range keywordSets {
		score := 0
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw.phrase) {
				score += kw.weight
			}
		}
		// Ties favor the narrower (more specific) keyword set.
		if score > bestScore || (score == bestScore && score > 0 && len(set.keywords) < bestSetSize) {
			best = set.docType
			bestScore = score
			bestSetSize = len(set.keywords)
		}
	}

	if bestScore < c.MinScore {
		c.logger.Info("classify.unknown", "best_type", best, "score", bestScore, "min_score", c.MinScore)
		return constants.Unknown
	}

	c.logger.Info("classify.ok", "type", best, "score", bestScore)
	return best
}
