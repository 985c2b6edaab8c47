package toolgate

import "github.com/testbridge/toolgate/internal/registry"

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	policyPath   string
	catalogPath  string
	auditLogPath string
	registry     *registry.Registry
	unknownTool  func(featureID, toolID string)
}

// WithDistrictPolicy sets the path to a district policy YAML file. When
// set, the loaded policy replaces the district layer of every assessment
// the client resolves.
func WithDistrictPolicy(path string) Option {
	return func(c *clientConfig) { c.policyPath = path }
}

// WithCatalog sets the path to a feature catalog extension file.
func WithCatalog(path string) Option {
	return func(c *clientConfig) { c.catalogPath = path }
}

// WithAuditLog enables the hash-chained resolution log at the given path.
func WithAuditLog(path string) Option {
	return func(c *clientConfig) { c.auditLogPath = path }
}

// WithRegistry replaces the default tool registry. The registry must be
// fully populated before the client's first resolution call.
func WithRegistry(r *registry.Registry) Option {
	return func(c *clientConfig) { c.registry = r }
}

// WithUnknownToolHook installs a callback for features that map to
// unregistered tool ids.
func WithUnknownToolHook(hook func(featureID, toolID string)) Option {
	return func(c *clientConfig) { c.unknownTool = hook }
}
