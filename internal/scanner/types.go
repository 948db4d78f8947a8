// Package scanner provides repository analysis for analytics instrumentation:
// languages, frameworks, analytics SDKs declared in dependency manifests, and
// the source files worth auditing.
package scanner

// LanguageInfo contains information about a detected programming language.
type LanguageInfo struct {
	Name       string   `json:"name"`
	FileCount  int      `json:"file_count"`
	Percentage float64  `json:"percentage"`
	Extensions []string `json:"extensions"`
}

// SDKDetection records one analytics SDK found in a dependency manifest.
type SDKDetection struct {
	Name     string   `json:"name"`
	Variant  string   `json:"variant"`
	Origin   string   `json:"origin"`
	Manifest string   `json:"manifest"`
	Packages []string `json:"packages"`
	EnvKeys  []string `json:"env_keys,omitempty"`
}

// ProjectStructure contains information about the repository layout.
type ProjectStructure struct {
	SourceDirs  []string `json:"source_dirs"`
	TestDirs    []string `json:"test_dirs"`
	ConfigFiles []string `json:"config_files"`
	EntryPoints []string `json:"entry_points"`
	HasCI       bool     `json:"has_ci"`
	CISystem    string   `json:"ci_system,omitempty"`
}

// ProjectInfo contains all detected information about a repository.
type ProjectInfo struct {
	Name           string           `json:"name"`
	Languages      []LanguageInfo   `json:"languages"`
	Framework      string           `json:"framework,omitempty"`
	PackageManager string           `json:"package_manager,omitempty"`
	SDKs           []SDKDetection   `json:"sdks"`
	EnvKeys        []string         `json:"env_keys,omitempty"`
	Structure      ProjectStructure `json:"structure"`
	SourceFiles    []string         `json:"source_files"`
	FileCount      int              `json:"file_count"`
	Truncated      bool             `json:"truncated,omitempty"`
}

// DetectedSDKNames returns the distinct SDK names found, sorted.
func (p *ProjectInfo) DetectedSDKNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range p.SDKs {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	return names
}

// HasSDK reports whether the named SDK was detected in any manifest.
func (p *ProjectInfo) HasSDK(name string) bool {
	for _, d := range p.SDKs {
		if d.Name == name {
			return true
		}
	}
	return false
}
