package registry

import (
	"fmt"

	"github.com/testbridge/toolgate/internal/model"
)

// DuplicateToolError is raised when registering a tool id that already
// exists. Fatal to the registration step; the registry is unchanged.
type DuplicateToolError struct {
	ID model.ToolID
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.ID)
}

// UnknownToolReferenceError reports a feature that resolved to allow but
// maps to a tool id absent from the registry. Partial registries are
// expected during incremental rollout, so resolution treats these as
// allow-with-no-effect and surfaces them through the engine's hook rather
// than failing.
type UnknownToolReferenceError struct {
	FeatureID model.FeatureID
	ToolID    model.ToolID
}

func (e *UnknownToolReferenceError) Error() string {
	return fmt.Sprintf("feature %q maps to unregistered tool %q", e.FeatureID, e.ToolID)
}
