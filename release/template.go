package release

import (
	"strings"
	"text/template"
)

// Template contains the fields available to url and path templates.
type Template struct {
	// Version is the release version without the leading v.
	Version string
}

// Resolve executes the provided format string as a template with the Template's fields.
func (t Template) Resolve(format string) (string, error) {
	tmpl, err := template.New("release").Option("missingkey=error").Parse(format)
	if err != nil {
		return "", err
	}

	var bld strings.Builder
	if err := tmpl.Execute(&bld, t); err != nil {
		return "", err
	}

	return bld.String(), nil
}
