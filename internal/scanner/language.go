package scanner

import (
	"path/filepath"
	"sort"
)

// languageMapping maps file extensions to language names.
var languageMapping = map[string]string{
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".mjs":    "JavaScript",
	".cjs":    "JavaScript",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".vue":    "Vue",
	".svelte": "Svelte",
	".py":     "Python",
	".rb":     "Ruby",
	".go":     "Go",
	".rs":     "Rust",
	".java":   "Java",
	".kt":     "Kotlin",
	".cs":     "C#",
	".php":    "PHP",
	".swift":  "Swift",
}

// detectLanguages analyzes extension counts to determine primary languages.
func detectLanguages(extCounts map[string]int) []LanguageInfo {
	// Aggregate by language
	langCounts := make(map[string]int)
	langExtensions := make(map[string][]string)

	for ext, count := range extCounts {
		lang, ok := languageMapping[ext]
		if !ok {
			continue
		}
		langCounts[lang] += count
		langExtensions[lang] = append(langExtensions[lang], ext)
	}

	total := 0
	for _, count := range langCounts {
		total += count
	}

	if total == 0 {
		return nil
	}

	var languages []LanguageInfo
	for lang, count := range langCounts {
		exts := langExtensions[lang]
		sort.Strings(exts)
		languages = append(languages, LanguageInfo{
			Name:       lang,
			FileCount:  count,
			Percentage: float64(count) / float64(total) * 100,
			Extensions: exts,
		})
	}

	// Sort by file count descending, name ascending for ties
	sort.Slice(languages, func(i, j int) bool {
		if languages[i].FileCount != languages[j].FileCount {
			return languages[i].FileCount > languages[j].FileCount
		}
		return languages[i].Name < languages[j].Name
	})

	// Return top languages (those with >5% or top 5)
	var result []LanguageInfo
	for i, lang := range languages {
		if i >= 5 && lang.Percentage < 5 {
			break
		}
		result = append(result, lang)
	}

	return result
}

// PrimaryLanguage returns the most prevalent language name, or empty string if none.
func (p *ProjectInfo) PrimaryLanguage() string {
	if len(p.Languages) == 0 {
		return ""
	}
	return p.Languages[0].Name
}

// isSourceExt reports whether files with this extension are candidates for
// analytics call extraction.
func isSourceExt(ext string) bool {
	_, ok := languageMapping[ext]
	return ok
}

// LanguageForFile returns the language implied by the file's extension, or
// empty string for unrecognized extensions.
func LanguageForFile(path string) string {
	return languageMapping[filepath.Ext(path)]
}

// SkipDir reports whether a directory name is never descended into.
func SkipDir(name string) bool {
	return skipDirs[name]
}
