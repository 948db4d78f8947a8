package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanner_ScanReactSegmentProject(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "package.json", `{
	"name": "my-app",
	"dependencies": {
		"react": "^18.0.0",
		"@segment/analytics-next": "^1.70.0"
	}
}`)
	writeFile(t, tmpDir, ".env.example", "SEGMENT_WRITE_KEY=sk_test_1234\nDATABASE_URL=postgres://localhost\n")
	writeFile(t, tmpDir, "src/index.tsx", "export {}")
	writeFile(t, tmpDir, "src/App.tsx", "export {}")

	info, err := New(tmpDir).Scan()
	if err != nil {
		t.Fatal(err)
	}

	if info.PrimaryLanguage() != "TypeScript" {
		t.Errorf("primary language = %q, want TypeScript", info.PrimaryLanguage())
	}
	if info.Framework != "react" {
		t.Errorf("framework = %q, want react", info.Framework)
	}
	if info.PackageManager != "npm" {
		t.Errorf("package manager = %q, want npm", info.PackageManager)
	}

	if len(info.SDKs) != 1 {
		t.Fatalf("expected 1 SDK detection, got %d: %+v", len(info.SDKs), info.SDKs)
	}
	d := info.SDKs[0]
	if d.Name != "segment" || d.Variant != "browser" || d.Origin != "frontend" {
		t.Errorf("detection = %+v, want segment/browser/frontend", d)
	}
	if len(d.Packages) != 1 || d.Packages[0] != "@segment/analytics-next" {
		t.Errorf("packages = %v", d.Packages)
	}
	if len(d.EnvKeys) != 1 || d.EnvKeys[0] != "SEGMENT_WRITE_KEY" {
		t.Errorf("env keys = %v, want [SEGMENT_WRITE_KEY]", d.EnvKeys)
	}

	if len(info.EnvKeys) != 1 || info.EnvKeys[0] != "SEGMENT_WRITE_KEY" {
		t.Errorf("project env keys = %v", info.EnvKeys)
	}

	if !sort.StringsAreSorted(info.SourceFiles) {
		t.Errorf("source files not sorted: %v", info.SourceFiles)
	}
	found := false
	for _, f := range info.SourceFiles {
		if f == "src/App.tsx" {
			found = true
		}
	}
	if !found {
		t.Errorf("src/App.tsx missing from source files: %v", info.SourceFiles)
	}

	if !info.FrontendFramework() {
		t.Error("react should count as a frontend framework")
	}
}

func TestScanner_ScanNodeBackend(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "package.json", `{
	"dependencies": {
		"express": "^4.18.0",
		"posthog-node": "^4.0.0"
	}
}`)
	writeFile(t, tmpDir, "index.js", "module.exports = {}")

	info, err := New(tmpDir).Scan()
	if err != nil {
		t.Fatal(err)
	}

	if info.Framework != "express" {
		t.Errorf("framework = %q, want express", info.Framework)
	}
	if len(info.SDKs) != 1 {
		t.Fatalf("expected 1 SDK detection, got %+v", info.SDKs)
	}
	d := info.SDKs[0]
	if d.Name != "posthog" || d.Variant != "node" || d.Origin != "backend" {
		t.Errorf("detection = %+v, want posthog/node/backend", d)
	}
	if info.FrontendFramework() {
		t.Error("express should not count as a frontend framework")
	}
}

func TestScanner_ScanPythonProject(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "requirements.txt", "django>=4.2\nmixpanel==4.10.0\n# comment\n")
	writeFile(t, tmpDir, "app.py", "print('hi')")

	info, err := New(tmpDir).Scan()
	if err != nil {
		t.Fatal(err)
	}

	if info.PrimaryLanguage() != "Python" {
		t.Errorf("primary language = %q, want Python", info.PrimaryLanguage())
	}
	if info.Framework != "django" {
		t.Errorf("framework = %q, want django", info.Framework)
	}
	if info.PackageManager != "pip" {
		t.Errorf("package manager = %q, want pip", info.PackageManager)
	}
	if len(info.SDKs) != 1 || info.SDKs[0].Name != "mixpanel" || info.SDKs[0].Manifest != "pip" {
		t.Errorf("sdks = %+v, want mixpanel via pip", info.SDKs)
	}
}

func TestScanner_ManifestFrameworks(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		wantFw string
		wantPM string
	}{
		{
			name: "rust axum service",
			files: map[string]string{
				"Cargo.toml":  "[package]\nname = \"svc\"\n\n[dependencies]\naxum = \"0.7\"\n",
				"src/main.rs": "fn main() {}",
			},
			wantFw: "axum",
			wantPM: "cargo",
		},
		{
			name: "spring boot maven service",
			files: map[string]string{
				"pom.xml":       "<project><dependencies><dependency><artifactId>spring-boot-starter-web</artifactId></dependency></dependencies></project>",
				"src/Main.java": "class Main {}",
			},
			wantFw: "spring-boot",
			wantPM: "maven",
		},
		{
			name: "kotlin gradle service",
			files: map[string]string{
				"build.gradle.kts": "plugins { id(\"io.micronaut.application\") }",
				"src/App.kt":       "fun main() {}",
			},
			wantFw: "micronaut",
			wantPM: "gradle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, tmpDir, name, content)
			}

			info, err := New(tmpDir).Scan()
			if err != nil {
				t.Fatal(err)
			}
			if info.Framework != tt.wantFw {
				t.Errorf("framework = %q, want %q", info.Framework, tt.wantFw)
			}
			if info.PackageManager != tt.wantPM {
				t.Errorf("package manager = %q, want %q", info.PackageManager, tt.wantPM)
			}
		})
	}
}

func TestScanner_MultipleSDKsSorted(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "package.json", `{
	"dependencies": {
		"posthog-js": "^1.0.0",
		"@segment/analytics-next": "^1.70.0"
	}
}`)
	writeFile(t, tmpDir, "src/index.ts", "export {}")

	info, err := New(tmpDir).Scan()
	if err != nil {
		t.Fatal(err)
	}

	names := info.DetectedSDKNames()
	if len(names) != 2 || names[0] != "posthog" || names[1] != "segment" {
		t.Errorf("detected names = %v, want [posthog segment]", names)
	}
	if !info.HasSDK("segment") || info.HasSDK("amplitude") {
		t.Error("HasSDK gave wrong answers")
	}
}

func TestScanner_MaxFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.ts", "b.ts", "c.ts", "d.ts", "e.ts"} {
		writeFile(t, tmpDir, name, "export {}")
	}

	info, err := NewWithOptions(tmpDir, Options{MaxFiles: 3}).Scan()
	if err != nil {
		t.Fatal(err)
	}

	if info.FileCount != 3 {
		t.Errorf("file count = %d, want 3", info.FileCount)
	}
	if !info.Truncated {
		t.Error("expected truncated scan")
	}
}

func TestScanner_ExcludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "src/app.ts", "export {}")
	writeFile(t, tmpDir, "src/app.spec.ts", "export {}")

	info, err := NewWithOptions(tmpDir, Options{Exclude: []string{"*.spec.ts"}}).Scan()
	if err != nil {
		t.Fatal(err)
	}

	if len(info.SourceFiles) != 1 || info.SourceFiles[0] != "src/app.ts" {
		t.Errorf("source files = %v, want [src/app.ts]", info.SourceFiles)
	}
}

func TestScanner_SkipsTelemetryDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "src/app.ts", "export {}")
	writeFile(t, tmpDir, ".telemetry/current-state.yaml", "version: 1")
	writeFile(t, tmpDir, "node_modules/pkg/index.js", "module.exports = {}")

	info, err := New(tmpDir).Scan()
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range info.SourceFiles {
		if f != "src/app.ts" {
			t.Errorf("unexpected source file %q", f)
		}
	}
	if info.FileCount != 1 {
		t.Errorf("file count = %d, want 1", info.FileCount)
	}
}

func TestDetectLanguages(t *testing.T) {
	tests := []struct {
		name      string
		extCounts map[string]int
		wantFirst string
	}{
		{
			name:      "TypeScript project",
			extCounts: map[string]int{".ts": 30, ".tsx": 20, ".css": 10},
			wantFirst: "TypeScript",
		},
		{
			name:      "Python project",
			extCounts: map[string]int{".py": 100, ".txt": 5},
			wantFirst: "Python",
		},
		{
			name:      "Mixed JS/TS",
			extCounts: map[string]int{".js": 10, ".ts": 20},
			wantFirst: "TypeScript",
		},
		{
			name:      "Go project",
			extCounts: map[string]int{".go": 50, ".md": 5},
			wantFirst: "Go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			langs := detectLanguages(tt.extCounts)
			if len(langs) == 0 {
				t.Fatal("expected at least one language")
			}
			if langs[0].Name != tt.wantFirst {
				t.Errorf("expected first language %s, got %s", tt.wantFirst, langs[0].Name)
			}
		})
	}
}

func TestRequirementName(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"mixpanel==4.10.0", "mixpanel"},
		{"Django>=4.2", "django"},
		{"posthog", "posthog"},
		{"segment-analytics-python~=2.3", "segment-analytics-python"},
		{"# a comment", ""},
		{"-r other.txt", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := requirementName(tt.line); got != tt.want {
			t.Errorf("requirementName(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestDetectCI(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(dir string)
		wantHasCI  bool
		wantSystem string
	}{
		{
			name: "GitHub Actions",
			setup: func(dir string) {
				os.MkdirAll(filepath.Join(dir, ".github", "workflows"), 0755)
			},
			wantHasCI:  true,
			wantSystem: "github-actions",
		},
		{
			name: "GitLab CI",
			setup: func(dir string) {
				os.WriteFile(filepath.Join(dir, ".gitlab-ci.yml"), []byte(""), 0644)
			},
			wantHasCI:  true,
			wantSystem: "gitlab-ci",
		},
		{
			name:       "No CI",
			setup:      func(dir string) {},
			wantHasCI:  false,
			wantSystem: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tt.setup(tmpDir)

			hasCI, system := detectCI(tmpDir)
			if hasCI != tt.wantHasCI {
				t.Errorf("hasCI = %v, want %v", hasCI, tt.wantHasCI)
			}
			if system != tt.wantSystem {
				t.Errorf("system = %s, want %s", system, tt.wantSystem)
			}
		})
	}
}

func TestPrimaryLanguage(t *testing.T) {
	info := &ProjectInfo{
		Languages: []LanguageInfo{
			{Name: "TypeScript", FileCount: 50},
			{Name: "Python", FileCount: 5},
		},
	}

	if got := info.PrimaryLanguage(); got != "TypeScript" {
		t.Errorf("PrimaryLanguage() = %s, want TypeScript", got)
	}

	emptyInfo := &ProjectInfo{}
	if got := emptyInfo.PrimaryLanguage(); got != "" {
		t.Errorf("PrimaryLanguage() for empty = %s, want empty", got)
	}
}
