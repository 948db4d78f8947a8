package scanner

import (
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// envFileNames are the dotenv files checked for analytics write keys.
var envFileNames = []string{
	".env",
	".env.local",
	".env.example",
	".env.development",
	".env.production",
}

// readEnvKeys returns the env var names declared in dotenv files, mapped to
// the first file each was seen in. Values are discarded immediately; write
// keys are secrets and never leave this function.
func readEnvKeys(rootDir string) map[string]string {
	keys := make(map[string]string)
	for _, name := range envFileNames {
		vars, err := godotenv.Read(filepath.Join(rootDir, name))
		if err != nil {
			continue
		}
		for k := range vars {
			if _, seen := keys[k]; !seen {
				keys[k] = name
			}
		}
	}
	return keys
}

// analyticsEnvKeys filters found env keys down to the ones the SDK catalog
// knows about, sorted.
func analyticsEnvKeys(found map[string]string) []string {
	var out []string
	for _, sdk := range sdks.Catalog() {
		for _, key := range sdk.EnvKeys {
			if _, ok := found[key]; ok {
				out = append(out, key)
			}
		}
	}
	sort.Strings(out)
	return out
}
