package extract

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/model"
)

// Recognizer labels used by named-entity recognizers
const (
	LabelPerson = "PERSON"
	LabelOrg    = "ORG"
	LabelDate   = "DATE"
	LabelMoney  = "MONEY"
	LabelGPE    = "GPE"
	LabelLoc    = "LOC"
)

// Entity is one recognized mention
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Recognizer finds named entities in text. Results must be in source order.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// EntityExtractor maps recognizer output onto parties, dates, amounts and jurisdictions
type EntityExtractor struct {
	recognizer Recognizer // nil = entity extraction disabled
	timeout    time.Duration
}

// NewEntityExtractor creates an entity extractor. A nil recognizer is valid.
func NewEntityExtractor(r Recognizer, timeout time.Duration) *EntityExtractor {
	return &EntityExtractor{recognizer: r, timeout: timeout}
}

// Extract returns the entities found in text. Recognizer failures yield empty entities.
func (e *EntityExtractor) Extract(ctx context.Context, text string) model.Entities {
	entities := model.NewEntities()
	if e.recognizer == nil || strings.TrimSpace(text) == "" {
		return entities
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	found, err := e.recognize(ctx, text)
	if err != nil {
		zap.L().Warn("entity recognition failed, continuing without entities", zap.Error(err))
		return entities
	}

	for _, ent := range found {
		surface := strings.TrimSpace(ent.Text)
		if surface == "" {
			continue
		}
		switch strings.ToUpper(ent.Label) {
		case LabelPerson, LabelOrg:
			entities.Parties = append(entities.Parties, surface)
		case LabelDate:
			entities.Dates = append(entities.Dates, surface)
		case LabelMoney:
			entities.Amounts = append(entities.Amounts, surface)
		case LabelGPE, LabelLoc:
			entities.Jurisdictions = append(entities.Jurisdictions, surface)
		}
	}

	return entities
}

// recognize calls the recognizer, turning a panic into an error
func (e *EntityExtractor) recognize(ctx context.Context, text string) (found []Entity, err error) {
	defer func() {
		if r := recover(); r != nil {
			found, err = nil, eris.Errorf("recognizer panicked: %v", r)
		}
	}()
	return e.recognizer.Recognize(ctx, text)
}

// NewRecognizer builds the recognizer selected by configuration.
// An empty kind returns nil, nil (no recognizer).
func NewRecognizer(cfg model.EntitiesConfig) (Recognizer, error) {
	switch strings.ToLower(cfg.Recognizer) {
	case "":
		return nil, nil
	case "pattern":
		return NewPatternRecognizer(), nil
	case "http":
		if cfg.Endpoint == "" {
			return nil, eris.New("extract: http recognizer requires entities.endpoint")
		}
		return NewHTTPRecognizer(cfg.Endpoint, cfg.Timeout), nil
	default:
		return nil, eris.Errorf("extract: unknown recognizer %q (supported: pattern, http)", cfg.Recognizer)
	}
}
