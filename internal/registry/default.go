package registry

import "github.com/testbridge/toolgate/internal/model"

// allLevels is the full grade-band range.
var allLevels = []model.ContentLevel{model.LevelElementary, model.LevelMiddle, model.LevelHigh}

// NewDefault returns a freshly constructed registry holding the built-in
// tool set. Callers get an isolated instance every time; there is no
// shared singleton.
func NewDefault() *Registry {
	r := New()
	for _, d := range defaultDescriptors() {
		// Ids in the built-in set are unique by construction.
		_ = r.Register(d)
	}
	return r
}

func defaultDescriptors() []*ToolDescriptor {
	return []*ToolDescriptor{
		{
			ID:              "calculator",
			SupportedLevels: []model.ContentLevel{model.LevelMiddle, model.LevelHigh},
			FeatureIDs:      []model.FeatureID{"calculator", "graphingCalculator", "scientificCalculator"},
			Relevant: func(ctx model.ToolContext) bool {
				return ctx.Subject == "math" || ctx.Subject == "science" || ctx.HasTag("calculator-allowed")
			},
		},
		{
			ID:              "textToSpeech",
			SupportedLevels: allLevels,
			FeatureIDs:      []model.FeatureID{"textToSpeech", "screenReader"},
		},
		{
			ID:              "magnifier",
			SupportedLevels: allLevels,
			FeatureIDs:      []model.FeatureID{"magnifier", "zoom"},
		},
		{
			ID:              "colorContrast",
			SupportedLevels: allLevels,
			FeatureIDs:      []model.FeatureID{"colorContrast", "invertColors", "colorOverlay"},
		},
		{
			ID:              "lineReader",
			SupportedLevels: allLevels,
			FeatureIDs:      []model.FeatureID{"lineReader"},
			Relevant: func(ctx model.ToolContext) bool {
				return !ctx.HasTag("no-text")
			},
		},
		{
			ID:              "highlighter",
			SupportedLevels: allLevels,
			FeatureIDs:      []model.FeatureID{"highlighter"},
		},
		{
			ID:              "masking",
			SupportedLevels: allLevels,
			FeatureIDs:      []model.FeatureID{"masking", "answerMasking"},
		},
		{
			ID:              "dictionary",
			SupportedLevels: []model.ContentLevel{model.LevelMiddle, model.LevelHigh},
			FeatureIDs:      []model.FeatureID{"dictionary", "thesaurus", "glossary", "bilingualDictionary"},
			Relevant: func(ctx model.ToolContext) bool {
				// Dictionaries are withheld on vocabulary-assessing content.
				return !ctx.HasTag("vocabulary")
			},
		},
		{
			ID:              "periodicTable",
			SupportedLevels: []model.ContentLevel{model.LevelMiddle, model.LevelHigh},
			FeatureIDs:      []model.FeatureID{"periodicTable"},
			Relevant: func(ctx model.ToolContext) bool {
				return ctx.Subject == "science"
			},
		},
		{
			ID:              "formulaSheet",
			SupportedLevels: []model.ContentLevel{model.LevelHigh},
			FeatureIDs:      []model.FeatureID{"formulaSheet"},
			Relevant: func(ctx model.ToolContext) bool {
				return ctx.Subject == "math" || ctx.Subject == "science"
			},
		},
		{
			ID:              "scratchpad",
			SupportedLevels: allLevels,
			FeatureIDs:      []model.FeatureID{"scratchpad"},
		},
		{
			ID:              "measurement",
			SupportedLevels: []model.ContentLevel{model.LevelElementary, model.LevelMiddle},
			FeatureIDs:      []model.FeatureID{"ruler", "protractor"},
			Relevant: func(ctx model.ToolContext) bool {
				return ctx.Subject == "math"
			},
		},
		{
			ID:              "translation",
			SupportedLevels: allLevels,
			FeatureIDs:      []model.FeatureID{"translation"},
		},
	}
}
