package scenario

import "github.com/testbridge/toolgate/internal/model"

// Documents are the layered inputs a case resolves against. Omitted
// documents are empty (no supports, no vetoes, no overrides).
type Documents struct {
	Profile  model.PersonalNeedsProfile  `yaml:"profile"`
	District model.DistrictPolicy        `yaml:"district"`
	Session  model.SessionAdministration `yaml:"session"`
	Item     model.ItemRules             `yaml:"item"`
}

// Expectation asserts the outcome for one feature id: the decision, and
// optionally the precedence rule that must have fired.
type Expectation struct {
	Feature model.FeatureID `yaml:"feature"`
	Expect  string          `yaml:"expect"`
	Rule    int             `yaml:"rule,omitempty"`
}

// Case is one test case within a scenario: a document stack and the
// per-feature expectations against it.
type Case struct {
	Name   string        `yaml:"name,omitempty"`
	Docs   Documents     `yaml:"docs"`
	Expect []Expectation `yaml:"expect"`
}

// Scenario is a named collection of resolution test cases.
type Scenario struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// CheckResult is the outcome of one expectation.
type CheckResult struct {
	Index        int    `json:"index"`
	Case         string `json:"case,omitempty"`
	Passed       bool   `json:"passed"`
	Feature      string `json:"feature"`
	Expected     string `json:"expected"`
	Actual       string `json:"actual"`
	ExpectedRule int    `json:"expected_rule,omitempty"`
	ActualRule   int    `json:"actual_rule"`
	Explanation  string `json:"explanation"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string        `json:"file"`
	Name   string        `json:"name"`
	Total  int           `json:"total"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Checks []CheckResult `json:"checks"`
}
