package cli

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFileConfigMarshal(t *testing.T) {
	cfg := fileConfig{}
	cfg.Project.Name = "shoply"
	cfg.Telemetry.Dir = ".telemetry"
	cfg.SDK.Name = "segment"
	cfg.SDK.Variant = "browser"
	cfg.Journal.Enabled = true

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	for _, want := range []string{
		"project:",
		"name: shoply",
		"dir: .telemetry",
		"name: segment",
		"variant: browser",
		"require_descriptions: false",
		"enabled: true",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("marshaled config missing %q:\n%s", want, got)
		}
	}
}

func TestFileConfigMarshal_OmitsEmptySDK(t *testing.T) {
	cfg := fileConfig{}
	cfg.Project.Name = "bare"
	cfg.Telemetry.Dir = ".telemetry"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(data), "variant") {
		t.Errorf("empty sdk fields serialized:\n%s", data)
	}
}
