// Package scenario runs YAML-defined resolution assertions. Scenario files
// let districts and test vendors gate deployments on policy correctness
// without writing Go.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/testbridge/toolgate/internal/model"
	"github.com/testbridge/toolgate/internal/registry"
	"github.com/testbridge/toolgate/internal/resolve"
)

// Run evaluates every expectation in a scenario. Each case gets a fresh
// assessment built from its document stack; cases are independent.
func Run(s *Scenario, reg *registry.Registry) *RunResult {
	engine := resolve.New(reg)

	result := &RunResult{Name: s.Name}

	for ci, c := range s.Cases {
		session := c.Docs.Session
		if session.Mode == "" {
			session.Mode = model.ModeTest
		}

		a := &model.Assessment{
			ID:                   fmt.Sprintf("scenario-%d", ci+1),
			PersonalNeedsProfile: c.Docs.Profile,
			DistrictPolicy:       c.Docs.District,
			Session:              session,
			Items:                map[string]model.ItemRules{"item": c.Docs.Item},
		}

		res, err := engine.Resolve(a, "item")

		for _, exp := range c.Expect {
			result.Total++
			cr := CheckResult{
				Index:        result.Total,
				Case:         c.Name,
				Feature:      string(exp.Feature),
				Expected:     strings.ToLower(exp.Expect),
				ExpectedRule: exp.Rule,
			}

			if err != nil {
				cr.Actual = "error"
				cr.Explanation = err.Error()
			} else if entry, ok := res.Provenance.Features[exp.Feature]; ok {
				cr.Actual = string(entry.Decision)
				cr.ActualRule = int(entry.Rule)
				cr.Explanation = entry.Explanation
			} else {
				// Feature never observed in any document: default denial.
				cr.Actual = string(model.Block)
				cr.ActualRule = int(model.RuleDefaultBlock)
				cr.Explanation = "feature not present in any document"
			}

			cr.Passed = cr.Actual == cr.Expected &&
				(exp.Rule == 0 || exp.Rule == cr.ActualRule)

			if cr.Passed {
				result.Passed++
			} else {
				result.Failed++
			}
			result.Checks = append(result.Checks, cr)
		}
	}

	return result
}

// LoadAndRun loads a scenario YAML file and runs it against a registry
// built from the optional district policy path plus the default tool set.
func LoadAndRun(path string, reg *registry.Registry) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if reg == nil {
		reg = registry.NewDefault()
	}

	result := Run(&s, reg)
	result.File = path

	return result, nil
}
