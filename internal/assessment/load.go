// Package assessment loads and validates the layered intent documents
// (personal needs profile, district policy, session administration,
// per-item rules) from disk. The engine itself only ever sees validated
// in-memory documents.
package assessment

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/testbridge/toolgate/internal/model"
)

// Load reads a full assessment document from a YAML or JSON file and
// validates it fail-fast. JSON is detected by the .json extension.
func Load(path string) (*model.Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assessment: %w", err)
	}

	var a model.Assessment
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to parse assessment: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to parse assessment: %w", err)
		}
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadProfile reads a standalone personal needs profile, used by the
// simulate path to substitute a synthetic profile.
func LoadProfile(path string) (*model.PersonalNeedsProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p model.PersonalNeedsProfile
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse profile: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse profile: %w", err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadDistrictPolicy reads a district policy file. Missing file returns an
// empty policy (no vetoes, no mandates). Invalid YAML returns an error.
func LoadDistrictPolicy(path string) (*model.DistrictPolicy, error) {
	p, _, err := LoadDistrictPolicyWithHash(path)
	return p, err
}

// LoadDistrictPolicyWithHash reads a district policy and returns the
// SHA-256 of the raw bytes on disk, recorded in audit entries so a
// decision can be traced to the exact policy version that produced it.
// When no file exists the hash is the SHA-256 of empty input.
func LoadDistrictPolicyWithHash(path string) (*model.DistrictPolicy, string, error) {
	if path == "" {
		h := sha256.Sum256(nil)
		return &model.DistrictPolicy{}, "sha256:" + hex.EncodeToString(h[:]), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256(nil)
			return &model.DistrictPolicy{}, "sha256:" + hex.EncodeToString(h[:]), nil
		}
		return nil, "", fmt.Errorf("failed to read district policy: %w", err)
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	var p model.DistrictPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, "", fmt.Errorf("failed to parse district policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, "", err
	}

	return &p, hash, nil
}

// DefaultDistrictPolicyYAML returns a commented district policy template
// for init-policy.
func DefaultDistrictPolicyYAML() string {
	return `# toolgate district policy
# Generated by: toolgate init-policy
#
# Precedence (cannot be changed):
#   1. district blocked_tools  -> block, terminal
#   2. session tool overrides  -> proctor decision wins
#   3. item restricted_tools   -> block
#   4. item required_tools     -> allow
#   5. district required_tools -> allow
#   6. student profile supports -> allow
#   7. default                 -> block

# Features the district forbids outright. Nothing below rule 1 can
# re-enable a feature listed here.
blocked_tools: []
#  - graphingCalculator

# Features the district mandates for every student. Item restrictions and
# session overrides still outrank this list.
required_tools: []
#  - textToSpeech
`
}
