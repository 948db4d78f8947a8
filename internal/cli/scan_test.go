package cli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/tracksmith-io/tracksmith/internal/scanner"
)

func captureOutput(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrintProjectInfo(t *testing.T) {
	info := &scanner.ProjectInfo{
		Name: "shoply",
		Languages: []scanner.LanguageInfo{
			{Name: "TypeScript", FileCount: 42},
			{Name: "JavaScript", FileCount: 3},
		},
		Framework:      "next.js",
		PackageManager: "pnpm",
		SDKs: []scanner.SDKDetection{
			{Name: "segment", Variant: "browser", Manifest: "package.json"},
		},
		EnvKeys:   []string{"NEXT_PUBLIC_SEGMENT_WRITE_KEY"},
		FileCount: 45,
	}

	got := captureOutput(func() { printProjectInfo(info) })

	for _, want := range []string{
		"Project: shoply",
		"TypeScript (42 files)",
		"Framework: next.js",
		"Package manager: pnpm",
		"segment",
		"package.json",
		"NEXT_PUBLIC_SEGMENT_WRITE_KEY",
		"Source files: 45",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "truncated") {
		t.Errorf("unexpected truncation note:\n%s", got)
	}
}

func TestPrintProjectInfo_NoSDKs(t *testing.T) {
	info := &scanner.ProjectInfo{Name: "bare", FileCount: 1, Truncated: true}

	got := captureOutput(func() { printProjectInfo(info) })

	if !strings.Contains(got, "Analytics SDKs: none detected") {
		t.Errorf("output missing no-SDK line:\n%s", got)
	}
	if !strings.Contains(got, "truncated") {
		t.Errorf("output missing truncation note:\n%s", got)
	}
}
