package productmd

import (
	"strings"
	"testing"

	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

func fixtureInfo() *scanner.ProjectInfo {
	return &scanner.ProjectInfo{
		Name:           "shipmate",
		Framework:      "next.js",
		PackageManager: "pnpm",
		Languages: []scanner.LanguageInfo{
			{Name: "TypeScript", FileCount: 80, Percentage: 80},
			{Name: "JavaScript", FileCount: 20, Percentage: 20},
		},
		SDKs: []scanner.SDKDetection{
			{Name: "segment", Variant: "browser", Origin: "frontend", Manifest: "npm"},
		},
		EnvKeys: []string{"NEXT_PUBLIC_SEGMENT_WRITE_KEY"},
		Structure: scanner.ProjectStructure{
			SourceDirs:  []string{"src", "server"},
			EntryPoints: []string{"src/index.tsx"},
		},
	}
}

func TestGenerator_Product(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatal(err)
	}

	content, err := gen.Product(fixtureInfo())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		telemetry.GeneratedStartMarker,
		telemetry.GeneratedEndMarker,
		"# shipmate Product Model",
		"**Framework:** next.js",
		"TypeScript (80%)",
		"**Package manager:** pnpm",
		"- segment (browser, via npm)",
		"- `src/`",
		"- `src/index.tsx`",
	}
	for _, s := range want {
		if !strings.Contains(content, s) {
			t.Errorf("product.md missing %q\n%s", s, content)
		}
	}
}

func TestGenerator_BusinessCase(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatal(err)
	}

	content, err := gen.BusinessCase(fixtureInfo())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, "Already instrumented with: segment.") {
		t.Errorf("missing sdk line:\n%s", content)
	}
	if !strings.Contains(content, "NEXT_PUBLIC_SEGMENT_WRITE_KEY") {
		t.Errorf("missing env key line:\n%s", content)
	}
}

func TestGenerator_WriteProductPreservesCustom(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatal(err)
	}
	store := telemetry.NewStore(t.TempDir(), "")

	info := fixtureInfo()
	if err := gen.WriteProduct(store, info); err != nil {
		t.Fatal(err)
	}
	content, err := store.ReadText(telemetry.ProductFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, "## Personas") {
		t.Error("default sections missing from fresh file")
	}

	edited := strings.Replace(content, "<!-- Who uses the product? One line per persona. -->",
		"Support leads at mid-size SaaS companies.", 1)
	if err := store.WriteText(telemetry.ProductFile, edited); err != nil {
		t.Fatal(err)
	}

	info.Framework = "remix"
	if err := gen.WriteProduct(store, info); err != nil {
		t.Fatal(err)
	}
	content, err = store.ReadText(telemetry.ProductFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, "**Framework:** remix") {
		t.Error("generated block not refreshed")
	}
	if !strings.Contains(content, "Support leads at mid-size SaaS companies.") {
		t.Error("custom persona text lost on rescan")
	}
}

func TestGenerator_Greenfield(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatal(err)
	}

	content := gen.Greenfield("new-product")
	if !strings.Contains(content, "new-product") {
		t.Error("missing project name")
	}
	if !strings.Contains(content, telemetry.GeneratedStartMarker) || !strings.Contains(content, telemetry.GeneratedEndMarker) {
		t.Error("missing markers")
	}
	if !strings.Contains(content, "tracksmith scan --write") {
		t.Error("missing rescan instruction")
	}
}

func TestGenerator_WriteBusinessCase(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatal(err)
	}
	store := telemetry.NewStore(t.TempDir(), "")

	if err := gen.WriteBusinessCase(store, fixtureInfo()); err != nil {
		t.Fatal(err)
	}
	content, err := store.ReadText(telemetry.BusinessCaseFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, "## Goals") {
		t.Error("default sections missing")
	}
	if !strings.Contains(content, "# shipmate Analytics Business Case") {
		t.Error("generated heading missing")
	}
}
