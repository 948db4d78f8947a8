// Package productmd generates the product.md and business-case.md artifacts
// from scanned project facts. The detected facts live between generated
// markers and are refreshed on rescan; everything written outside the
// markers belongs to the user and is preserved.
package productmd

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/tracksmith-io/tracksmith/internal/scanner"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

// Generator renders product.md and business-case.md content.
type Generator struct {
	product  *template.Template
	business *template.Template
}

// NewGenerator parses the artifact templates.
func NewGenerator() (*Generator, error) {
	product, err := template.New("product").Parse(productTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse product template: %w", err)
	}
	business, err := template.New("business-case").Parse(businessCaseTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse business-case template: %w", err)
	}
	return &Generator{product: product, business: business}, nil
}

// Product renders the generated section of product.md, markers included.
func (g *Generator) Product(info *scanner.ProjectInfo) (string, error) {
	return execute(g.product, info)
}

// BusinessCase renders the generated section of business-case.md.
func (g *Generator) BusinessCase(info *scanner.ProjectInfo) (string, error) {
	return execute(g.business, info)
}

// Greenfield renders product.md for a repository with no code yet.
func (g *Generator) Greenfield(projectName string) string {
	return fmt.Sprintf(`%s
# %s Product Model

No code to scan yet. Run %stracksmith scan --write%s after the first commit
to fill in the detected stack.
%s
`, telemetry.GeneratedStartMarker, projectName, "`", "`", telemetry.GeneratedEndMarker)
}

// WriteProduct writes product.md into the store, refreshing only the
// generated block of an existing file.
func (g *Generator) WriteProduct(store *telemetry.Store, info *scanner.ProjectInfo) error {
	content, err := g.Product(info)
	if err != nil {
		return err
	}
	return store.WriteMarked(telemetry.ProductFile, content, defaultProductSections)
}

// WriteBusinessCase writes business-case.md into the store, refreshing only
// the generated block of an existing file.
func (g *Generator) WriteBusinessCase(store *telemetry.Store, info *scanner.ProjectInfo) error {
	content, err := g.BusinessCase(info)
	if err != nil {
		return err
	}
	return store.WriteMarked(telemetry.BusinessCaseFile, content, defaultBusinessSections)
}

// WriteGreenfield writes the greenfield product.md variant.
func (g *Generator) WriteGreenfield(store *telemetry.Store, projectName string) error {
	return store.WriteMarked(telemetry.ProductFile, g.Greenfield(projectName), defaultProductSections)
}

func execute(tmpl *template.Template, info *scanner.ProjectInfo) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, info); err != nil {
		return "", fmt.Errorf("execute %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
