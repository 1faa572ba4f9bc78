// Package schema has configs, models and shared constants for all parts of preflight.
package schema

// SourceBundle is the bounded snapshot of an application source tree that the
// detection pipeline operates on. Files maps relative paths to text content.
// Manifest and RequirementsText are optional; either or both may be absent.
type SourceBundle struct {
	Files            map[string]string // Relative path -> file text content
	Manifest         *Manifest         // Parsed package.json equivalent, nil if absent
	RequirementsText string            // Raw requirements.txt content, empty if absent
	SkippedFiles     []string          // Paths skipped due to size/binary/exclusion policy
}

// Manifest is the parsed form of a Node-style package manifest.
type Manifest struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

// DependencyCount returns the combined count of regular and dev dependencies.
func (m *Manifest) DependencyCount() int {
	if m == nil {
		return 0
	}
	return len(m.Dependencies) + len(m.DevDependencies)
}

// HasDependency reports whether name appears in the regular dependencies.
// Dev dependencies are deliberately excluded; a test tool should never count
// as a production integration.
func (m *Manifest) HasDependency(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Dependencies[name]
	return ok
}
