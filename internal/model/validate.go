package model

import "fmt"

// ValidationError describes a malformed input document. Validation runs at
// assessment load time; the precedence chain assumes well-typed documents
// and never branches on shape.
type ValidationError struct {
	Document string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s: %s", e.Document, e.Field, e.Reason)
}

// Validate checks the profile for structural problems.
func (p *PersonalNeedsProfile) Validate() error {
	if err := checkIDs("personalNeedsProfile", "supports", p.Supports); err != nil {
		return err
	}
	if err := checkIDs("personalNeedsProfile", "prohibitedSupports", p.ProhibitedSupports); err != nil {
		return err
	}
	return checkIDs("personalNeedsProfile", "activateAtInit", p.ActivateAtInit)
}

// Validate checks the district policy for structural problems.
func (d *DistrictPolicy) Validate() error {
	if err := checkIDs("districtPolicy", "blockedTools", d.BlockedTools); err != nil {
		return err
	}
	return checkIDs("districtPolicy", "requiredTools", d.RequiredTools)
}

// Validate checks the session administration document.
func (s *SessionAdministration) Validate() error {
	switch s.Mode {
	case ModePractice, ModeTest, ModeBenchmark:
	case "":
		return &ValidationError{Document: "session", Field: "mode", Reason: "missing"}
	default:
		return &ValidationError{
			Document: "session",
			Field:    "mode",
			Reason:   fmt.Sprintf("unknown mode %q", s.Mode),
		}
	}
	for id := range s.ToolOverrides {
		if id == "" {
			return &ValidationError{Document: "session", Field: "toolOverrides", Reason: "empty feature id"}
		}
	}
	return nil
}

// Validate checks the item rules document.
func (r ItemRules) Validate() error {
	if err := checkIDs("itemRules", "requiredTools", r.RequiredTools); err != nil {
		return err
	}
	return checkIDs("itemRules", "restrictedTools", r.RestrictedTools)
}

// Validate checks every layered document in the assessment.
func (a *Assessment) Validate() error {
	if a.ID == "" {
		return &ValidationError{Document: "assessment", Field: "id", Reason: "missing"}
	}
	if err := a.PersonalNeedsProfile.Validate(); err != nil {
		return err
	}
	if err := a.DistrictPolicy.Validate(); err != nil {
		return err
	}
	if err := a.Session.Validate(); err != nil {
		return err
	}
	for ref, rules := range a.Items {
		if ref == "" {
			return &ValidationError{Document: "assessment", Field: "items", Reason: "empty item reference"}
		}
		if err := rules.Validate(); err != nil {
			return fmt.Errorf("item %q: %w", ref, err)
		}
	}
	return nil
}

func checkIDs(doc, field string, ids []FeatureID) error {
	for _, id := range ids {
		if id == "" {
			return &ValidationError{Document: doc, Field: field, Reason: "empty feature id"}
		}
	}
	return nil
}
