package scanner

import (
	"strings"

	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// frameworkRule pairs a framework name with the packages that indicate it.
type frameworkRule struct {
	name     string
	packages []string
}

// jsFrameworks defines frameworks in priority order (first match wins).
// Meta-frameworks come before the libraries they wrap.
var jsFrameworks = []frameworkRule{
	{name: "next.js", packages: []string{"next"}},
	{name: "nuxt", packages: []string{"nuxt"}},
	{name: "sveltekit", packages: []string{"@sveltejs/kit"}},
	{name: "remix", packages: []string{"@remix-run/react"}},
	{name: "angular", packages: []string{"@angular/core"}},
	{name: "react", packages: []string{"react"}},
	{name: "vue", packages: []string{"vue"}},
	{name: "svelte", packages: []string{"svelte"}},
	{name: "nestjs", packages: []string{"@nestjs/core"}},
	{name: "express", packages: []string{"express"}},
	{name: "fastify", packages: []string{"fastify"}},
}

var goFrameworks = []frameworkRule{
	{name: "gin", packages: []string{"github.com/gin-gonic/gin"}},
	{name: "echo", packages: []string{"github.com/labstack/echo"}},
	{name: "fiber", packages: []string{"github.com/gofiber/fiber"}},
	{name: "chi", packages: []string{"github.com/go-chi/chi"}},
	{name: "gorilla", packages: []string{"github.com/gorilla/mux"}},
	{name: "cobra", packages: []string{"github.com/spf13/cobra"}},
}

var rustFrameworks = []frameworkRule{
	{name: "actix", packages: []string{"actix-web"}},
	{name: "axum", packages: []string{"axum"}},
	{name: "rocket", packages: []string{"rocket"}},
	{name: "warp", packages: []string{"warp"}},
}

// frontendFrameworks are frameworks whose application code ships to the browser.
var frontendFrameworks = map[string]bool{
	"next.js":   true,
	"nuxt":      true,
	"sveltekit": true,
	"remix":     true,
	"angular":   true,
	"react":     true,
	"vue":       true,
	"svelte":    true,
}

// detectFramework identifies the application framework from parsed manifests.
func detectFramework(m manifests, languages []LanguageInfo) string {
	if len(languages) == 0 {
		return ""
	}

	switch languages[0].Name {
	case "JavaScript", "TypeScript", "Vue", "Svelte":
		return detectJSFramework(m)
	case "Python":
		return detectPythonFramework(m)
	case "Ruby":
		return detectRubyFramework(m)
	case "Go":
		return detectGoFramework(m)
	case "Rust":
		return detectRustFramework(m)
	case "Java", "Kotlin":
		return detectJVMFramework(m)
	}

	return ""
}

func detectJSFramework(m manifests) string {
	for _, fw := range jsFrameworks {
		for _, pkg := range fw.packages {
			if m.npm[pkg] {
				return fw.name
			}
		}
	}
	return ""
}

func detectPythonFramework(m manifests) string {
	for _, fw := range []string{"django", "fastapi", "flask"} {
		if m.hasPackage(sdks.ManifestPip, fw) {
			return fw
		}
	}
	return ""
}

func detectRubyFramework(m manifests) string {
	if m.gem["rails"] {
		return "rails"
	}
	if m.gem["sinatra"] {
		return "sinatra"
	}
	return ""
}

func detectGoFramework(m manifests) string {
	if m.gomodRaw == "" {
		return ""
	}
	for _, fw := range goFrameworks {
		for _, pkg := range fw.packages {
			if strings.Contains(m.gomodRaw, pkg) {
				return fw.name
			}
		}
	}
	return ""
}

func detectRustFramework(m manifests) string {
	if m.cargoRaw == "" {
		return ""
	}
	for _, fw := range rustFrameworks {
		for _, pkg := range fw.packages {
			if strings.Contains(m.cargoRaw, pkg) {
				return fw.name
			}
		}
	}
	return ""
}

// detectJVMFramework sniffs maven and gradle build files. Spring Boot shows
// up as spring-boot artifact ids in poms and as the org.springframework.boot
// plugin id in gradle scripts.
func detectJVMFramework(m manifests) string {
	raw := m.mavenRaw + m.gradleRaw
	switch {
	case strings.Contains(raw, "spring-boot"), strings.Contains(raw, "org.springframework.boot"):
		return "spring-boot"
	case strings.Contains(raw, "org.springframework"):
		return "spring"
	case strings.Contains(raw, "micronaut"):
		return "micronaut"
	case strings.Contains(raw, "quarkus"):
		return "quarkus"
	}
	return ""
}

// FrontendFramework reports whether the detected framework ships browser code.
func (p *ProjectInfo) FrontendFramework() bool {
	return frontendFrameworks[p.Framework]
}
