// Package templates provides embedded template files for scaffolding
// components.
package templates

import (
	"embed"
	"fmt"
	"go/token"
	"io/fs"
	"strings"
	"text/template"

	"github.com/go-drift/funlit/pkg/names"
)

//go:embed component/*
var FS embed.FS

// ComponentTemplate is the path of the component source template.
const ComponentTemplate = "component/component.go.tmpl"

// TemplateData contains the data for template substitution.
type TemplateData struct {
	Tag        string // e.g., "my-counter"
	TypeName   string // e.g., "MyCounter"
	Package    string // e.g., "components"
	ImportPath string // e.g., "example.com/app/components"
	FileName   string // e.g., "my_counter.go"
}

// NewTemplateData derives identifiers for tag. The tag must be a valid
// custom element name whose PascalCase form is a Go identifier.
func NewTemplateData(tag, pkg, importPath string) (*TemplateData, error) {
	if err := names.ValidateTagName(tag); err != nil {
		return nil, err
	}
	typeName := names.Pascalize(tag)
	if !token.IsIdentifier(typeName) {
		return nil, fmt.Errorf("tag name %q does not map to a Go identifier (%q)", tag, typeName)
	}
	return &TemplateData{
		Tag:        tag,
		TypeName:   typeName,
		Package:    pkg,
		ImportPath: importPath,
		FileName:   strings.ReplaceAll(tag, "-", "_") + ".go",
	}, nil
}

// ProcessTemplate processes a template string with the given data.
func ProcessTemplate(content string, data *TemplateData) (string, error) {
	tmpl, err := template.New("").Parse(content)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RenderComponent renders the component template for data.
func RenderComponent(data *TemplateData) (string, error) {
	content, err := ReadFile(ComponentTemplate)
	if err != nil {
		return "", err
	}
	return ProcessTemplate(string(content), data)
}

// ListFiles returns all files in the embedded filesystem under the given path.
func ListFiles(path string) ([]string, error) {
	var files []string

	err := fs.WalkDir(FS, path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})

	return files, err
}

// ReadFile reads a file from the embedded filesystem.
func ReadFile(path string) ([]byte, error) {
	return FS.ReadFile(path)
}
