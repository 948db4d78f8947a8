package productmd

const productTemplate = `<!-- tracksmith:generated:start -->
# {{.Name}} Product Model

## Detected Stack
{{if .Framework}}
**Framework:** {{.Framework}}
{{end}}
{{- if .Languages}}
**Languages:** {{range $i, $lang := .Languages}}{{if $i}}, {{end}}{{$lang.Name}} ({{printf "%.0f" $lang.Percentage}}%){{end}}
{{end}}
{{- if .PackageManager}}
**Package manager:** {{.PackageManager}}
{{end}}

{{- if .SDKs}}

## Analytics SDKs

{{range .SDKs}}- {{.Name}} ({{.Variant}}, via {{.Manifest}})
{{end}}
{{- end}}

{{- if .Structure.SourceDirs}}

## Source Layout

{{range .Structure.SourceDirs}}- ` + "`{{.}}/`" + `
{{end}}
{{- end}}

{{- if .Structure.EntryPoints}}

### Entry Points
{{range .Structure.EntryPoints}}- ` + "`{{.}}`" + `
{{end}}
{{- end}}
<!-- tracksmith:generated:end -->
`

const defaultProductSections = `

## Personas

<!-- Who uses the product? One line per persona. -->

## Key Actions

<!-- The actions that show the product is delivering value. These become tracked events. -->

## Lifecycle

<!-- How an account moves from signup to activated to retained. -->
`

const businessCaseTemplate = `<!-- tracksmith:generated:start -->
# {{.Name}} Analytics Business Case

Why this product tracks behavior, and what decisions the data should drive.
{{- if .SDKs}}

Already instrumented with: {{range $i, $d := .SDKs}}{{if $i}}, {{end}}{{$d.Name}}{{end}}.
{{- end}}
{{- if .EnvKeys}}

Analytics environment keys found: {{range $i, $k := .EnvKeys}}{{if $i}}, {{end}}{{$k}}{{end}}.
{{- end}}
<!-- tracksmith:generated:end -->
`

const defaultBusinessSections = `

## Goals

<!-- What decisions should behavioral data drive for this product? -->

## Questions to Answer

<!-- e.g. Where do trials stall? Which features correlate with retention? -->

## Risks of Not Tracking

<!-- What stays invisible without instrumentation? -->
`
