package catalog

import "github.com/testbridge/toolgate/internal/model"

// DefaultVersion identifies the built-in standardized table.
const DefaultVersion = "2024.1"

// defaultFeatures lists the standardized feature ids by category.
var defaultFeatures = map[Category][]model.FeatureID{
	Visual: {
		"magnifier",
		"zoom",
		"colorContrast",
		"invertColors",
		"largePrint",
		"screenReader",
	},
	Auditory: {
		"textToSpeech",
		"audioDescriptions",
		"volumeControl",
		"closedCaptions",
	},
	Motor: {
		"keyboardNavigation",
		"switchAccess",
		"extendedTime",
		"stickyKeys",
	},
	Cognitive: {
		"masking",
		"answerMasking",
		"colorOverlay",
		"simplifiedInterface",
	},
	Reading: {
		"lineReader",
		"highlighter",
		"dictionary",
		"thesaurus",
		"glossary",
	},
	Navigation: {
		"itemFlagging",
		"reviewScreen",
		"progressIndicator",
	},
	Linguistic: {
		"translation",
		"bilingualDictionary",
		"signLanguage",
	},
	Assessment: {
		"calculator",
		"graphingCalculator",
		"scientificCalculator",
		"periodicTable",
		"formulaSheet",
		"protractor",
		"ruler",
		"scratchpad",
	},
}

// defaultCategories flattens defaultFeatures into an id→category table.
func defaultCategories() map[model.FeatureID]Category {
	m := make(map[model.FeatureID]Category)
	for cat, ids := range defaultFeatures {
		for _, id := range ids {
			m[id] = cat
		}
	}
	return m
}
