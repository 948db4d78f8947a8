package scanner

import (
	"os"
	"path/filepath"
	"strings"
)

// Common source directory names
var sourceDirNames = map[string]bool{
	"src":        true,
	"lib":        true,
	"pkg":        true,
	"internal":   true,
	"app":        true,
	"cmd":        true,
	"core":       true,
	"components": true,
	"pages":      true,
	"server":     true,
	"api":        true,
}

// Common test directory names
var testDirNames = map[string]bool{
	"test":        true,
	"tests":       true,
	"spec":        true,
	"specs":       true,
	"__tests__":   true,
	"testdata":    true,
	"e2e":         true,
	"integration": true,
}

// Config file patterns
var configPatterns = []string{
	".tracksmith.yaml",
	".tracksmith.yml",
	".env",
	".env.example",
	"*.config.js",
	"*.config.ts",
	"tsconfig.json",
	"jest.config.*",
	"vitest.config.*",
	".eslintrc*",
	".prettierrc*",
	"docker-compose.yml",
	"docker-compose.yaml",
	"Dockerfile",
}

// detectStructure analyzes the repository directory layout.
func detectStructure(rootDir string) ProjectStructure {
	structure := ProjectStructure{}

	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return structure
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		if sourceDirNames[name] {
			structure.SourceDirs = append(structure.SourceDirs, name)
		}
		if testDirNames[name] {
			structure.TestDirs = append(structure.TestDirs, name)
		}
	}

	structure.ConfigFiles = detectConfigFiles(rootDir)
	structure.EntryPoints = detectEntryPoints(rootDir)
	structure.HasCI, structure.CISystem = detectCI(rootDir)

	return structure
}

func detectConfigFiles(rootDir string) []string {
	var configs []string

	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return configs
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		for _, pattern := range configPatterns {
			if matched, _ := filepath.Match(pattern, name); matched {
				configs = append(configs, name)
				break
			}
		}
	}

	return configs
}

// detectEntryPoints finds the files where SDK initialization typically lives.
func detectEntryPoints(rootDir string) []string {
	var entryPoints []string

	candidates := []string{
		"main.go",
		"main.py",
		"app.py",
		"index.js",
		"index.ts",
		"src/index.js",
		"src/index.ts",
		"src/main.js",
		"src/main.ts",
		"src/main.tsx",
		"src/App.tsx",
		"app/layout.tsx",
		"pages/_app.tsx",
	}
	for _, c := range candidates {
		if fileExists(filepath.Join(rootDir, filepath.FromSlash(c))) {
			entryPoints = append(entryPoints, c)
		}
	}

	// Go entry points under cmd/
	cmdDir := filepath.Join(rootDir, "cmd")
	if entries, err := os.ReadDir(cmdDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				mainFile := filepath.Join(cmdDir, entry.Name(), "main.go")
				if fileExists(mainFile) {
					entryPoints = append(entryPoints, "cmd/"+entry.Name()+"/main.go")
				}
			}
		}
	}

	return entryPoints
}

func detectCI(rootDir string) (hasCI bool, ciSystem string) {
	if dirExists(filepath.Join(rootDir, ".github", "workflows")) {
		return true, "github-actions"
	}
	if fileExists(filepath.Join(rootDir, ".gitlab-ci.yml")) {
		return true, "gitlab-ci"
	}
	if fileExists(filepath.Join(rootDir, ".circleci", "config.yml")) {
		return true, "circleci"
	}
	if fileExists(filepath.Join(rootDir, ".travis.yml")) {
		return true, "travis-ci"
	}
	if fileExists(filepath.Join(rootDir, "Jenkinsfile")) {
		return true, "jenkins"
	}

	return false, ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
