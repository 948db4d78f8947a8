package scanner

import (
	"os"
	"path/filepath"
	"sort"
)

const defaultMaxFiles = 10000

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
	".telemetry":   true,
	".claude":      true,
}

// Scanner analyzes a repository directory to detect its characteristics.
type Scanner struct {
	rootDir  string
	maxFiles int
	include  []string
	exclude  []string
}

// Options adjusts traversal behavior.
type Options struct {
	MaxFiles int
	Include  []string // glob allowlist for source files; empty means everything
	Exclude  []string // extra skip globs on top of built-in directory skips
}

// New creates a new Scanner for the given root directory.
func New(rootDir string) *Scanner {
	return NewWithOptions(rootDir, Options{})
}

// NewWithOptions creates a Scanner with traversal limits from configuration.
func NewWithOptions(rootDir string, opts Options) *Scanner {
	s := &Scanner{
		rootDir:  rootDir,
		maxFiles: opts.MaxFiles,
		include:  opts.Include,
		exclude:  opts.Exclude,
	}
	if s.maxFiles <= 0 {
		s.maxFiles = defaultMaxFiles
	}
	return s
}

// Scan analyzes the repository and returns detected information.
func (s *Scanner) Scan() (*ProjectInfo, error) {
	info := &ProjectInfo{
		Name: filepath.Base(s.rootDir),
	}

	extCounts := make(map[string]int)

	err := filepath.Walk(s.rootDir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip inaccessible files
		}

		if fi.IsDir() {
			if skipDirs[fi.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.rootDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if s.excluded(rel) {
			return nil
		}

		if info.FileCount >= s.maxFiles {
			info.Truncated = true
			return filepath.SkipAll
		}
		info.FileCount++

		ext := filepath.Ext(path)
		if ext != "" {
			extCounts[ext]++
		}
		if isSourceExt(ext) && s.included(rel) {
			info.SourceFiles = append(info.SourceFiles, rel)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(info.SourceFiles)

	info.Languages = detectLanguages(extCounts)

	m := readManifests(s.rootDir)
	info.PackageManager = m.packageManager
	info.Framework = detectFramework(m, info.Languages)

	envKeys := readEnvKeys(s.rootDir)
	info.SDKs = detectSDKs(m, envKeys)
	info.EnvKeys = analyticsEnvKeys(envKeys)

	info.Structure = detectStructure(s.rootDir)

	return info, nil
}

// excluded matches configured exclude globs against the relative path and
// its base name.
func (s *Scanner) excluded(rel string) bool {
	base := filepath.Base(rel)
	for _, glob := range s.exclude {
		if ok, _ := filepath.Match(glob, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(glob, base); ok {
			return true
		}
	}
	return false
}

// included matches configured include globs; an empty allowlist admits all.
func (s *Scanner) included(rel string) bool {
	if len(s.include) == 0 {
		return true
	}
	base := filepath.Base(rel)
	for _, glob := range s.include {
		if ok, _ := filepath.Match(glob, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(glob, base); ok {
			return true
		}
	}
	return false
}
