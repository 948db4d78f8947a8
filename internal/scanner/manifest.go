package scanner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// manifests holds parsed dependency declarations from the manifest files
// tracksmith understands.
type manifests struct {
	npm            map[string]bool
	pip            map[string]bool
	pyprojectRaw   string
	gem            map[string]bool
	gomodRaw       string
	cargoRaw       string
	mavenRaw       string
	gradleRaw      string
	packageManager string
}

var gemPattern = regexp.MustCompile(`(?m)^\s*gem\s+['"]([^'"]+)['"]`)

// readManifests parses whichever dependency manifests exist at the root.
func readManifests(rootDir string) manifests {
	m := manifests{
		npm: make(map[string]bool),
		pip: make(map[string]bool),
		gem: make(map[string]bool),
	}

	if data, err := os.ReadFile(filepath.Join(rootDir, "package.json")); err == nil {
		var pkg struct {
			Dependencies    map[string]string `json:"dependencies"`
			DevDependencies map[string]string `json:"devDependencies"`
		}
		if json.Unmarshal(data, &pkg) == nil {
			for dep := range pkg.Dependencies {
				m.npm[dep] = true
			}
			for dep := range pkg.DevDependencies {
				m.npm[dep] = true
			}
		}
		m.packageManager = detectPackageManager(rootDir)
	}

	if data, err := os.ReadFile(filepath.Join(rootDir, "requirements.txt")); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if name := requirementName(line); name != "" {
				m.pip[name] = true
			}
		}
	}
	if data, err := os.ReadFile(filepath.Join(rootDir, "pyproject.toml")); err == nil {
		m.pyprojectRaw = strings.ToLower(string(data))
	}

	if data, err := os.ReadFile(filepath.Join(rootDir, "Gemfile")); err == nil {
		for _, match := range gemPattern.FindAllStringSubmatch(string(data), -1) {
			m.gem[match[1]] = true
		}
	}

	if data, err := os.ReadFile(filepath.Join(rootDir, "go.mod")); err == nil {
		m.gomodRaw = string(data)
	}

	if data, err := os.ReadFile(filepath.Join(rootDir, "Cargo.toml")); err == nil {
		m.cargoRaw = string(data)
	}
	if data, err := os.ReadFile(filepath.Join(rootDir, "pom.xml")); err == nil {
		m.mavenRaw = string(data)
	}
	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		if data, err := os.ReadFile(filepath.Join(rootDir, name)); err == nil {
			m.gradleRaw = string(data)
			break
		}
	}

	if m.packageManager == "" {
		m.packageManager = fallbackPackageManager(rootDir, m)
	}

	return m
}

func detectPackageManager(rootDir string) string {
	if fileExists(filepath.Join(rootDir, "pnpm-lock.yaml")) {
		return "pnpm"
	}
	if fileExists(filepath.Join(rootDir, "yarn.lock")) {
		return "yarn"
	}
	if fileExists(filepath.Join(rootDir, "bun.lockb")) {
		return "bun"
	}
	return "npm"
}

func fallbackPackageManager(rootDir string, m manifests) string {
	switch {
	case m.gomodRaw != "":
		return "gomod"
	case m.cargoRaw != "":
		return "cargo"
	case m.gradleRaw != "":
		return "gradle"
	case m.mavenRaw != "":
		return "maven"
	case len(m.pip) > 0 || m.pyprojectRaw != "":
		if fileExists(filepath.Join(rootDir, "poetry.lock")) {
			return "poetry"
		}
		return "pip"
	case len(m.gem) > 0:
		return "bundler"
	}
	return ""
}

// requirementName extracts the bare package name from a requirements.txt line.
func requirementName(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return ""
	}
	for i, r := range line {
		if r == '-' || r == '_' || r == '.' {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			continue
		}
		line = line[:i]
		break
	}
	return strings.ToLower(strings.TrimSpace(line))
}

// hasPackage reports whether the given manifest kind declares the dependency.
func (m manifests) hasPackage(manifest, pkg string) bool {
	switch manifest {
	case sdks.ManifestNPM:
		return m.npm[pkg]
	case sdks.ManifestPip:
		if m.pip[strings.ToLower(pkg)] {
			return true
		}
		return m.pyprojectRaw != "" && strings.Contains(m.pyprojectRaw, strings.ToLower(pkg))
	case sdks.ManifestGem:
		return m.gem[pkg]
	case sdks.ManifestGoMod:
		return m.gomodRaw != "" && strings.Contains(m.gomodRaw, pkg)
	}
	return false
}

// detectSDKs matches the SDK catalog's detection rules against the parsed
// manifests. Results are sorted by SDK name then manifest kind.
func detectSDKs(m manifests, envKeys map[string]string) []SDKDetection {
	var out []SDKDetection
	for _, sdk := range sdks.Catalog() {
		var sdkEnv []string
		for _, key := range sdk.EnvKeys {
			if _, ok := envKeys[key]; ok {
				sdkEnv = append(sdkEnv, key)
			}
		}
		sort.Strings(sdkEnv)

		for _, rule := range sdk.Detect {
			var matched []string
			for _, pkg := range rule.Packages {
				if m.hasPackage(rule.Manifest, pkg) {
					matched = append(matched, pkg)
				}
			}
			if len(matched) == 0 {
				continue
			}
			sort.Strings(matched)
			out = append(out, SDKDetection{
				Name:     string(sdk.Name),
				Variant:  string(rule.Variant),
				Origin:   rule.Origin,
				Manifest: rule.Manifest,
				Packages: matched,
				EnvKeys:  sdkEnv,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Manifest != out[j].Manifest {
			return out[i].Manifest < out[j].Manifest
		}
		return out[i].Variant < out[j].Variant
	})
	return out
}
