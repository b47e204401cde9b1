// Package templates provides embedded template files for widget scaffolding.
package templates

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
)

//go:embed widget
var FS embed.FS

// TemplateInput holds the caller-provided values for template rendering.
type TemplateInput struct {
	AppName          string
	WidgetTarget     string
	BundleID         string
	DeploymentTarget string
}

// TemplateData contains the data for template substitution.
type TemplateData struct {
	AppName          string // e.g., "Dequeue"
	WidgetTarget     string // e.g., "DequeueWidgets"
	WidgetKind       string // timeline kind string, e.g., "DequeueWidgets"
	DisplayName      string // e.g., "Dequeue Widgets"
	BundleID         string // e.g., "com.ardonos.Dequeue.widgets"
	DeploymentTarget string // e.g., "17.0"
}

// NewTemplateData creates template data from the given input, deriving the
// timeline kind and a human-readable display name automatically.
func NewTemplateData(in TemplateInput) *TemplateData {
	return &TemplateData{
		AppName:          in.AppName,
		WidgetTarget:     in.WidgetTarget,
		WidgetKind:       in.WidgetTarget,
		DisplayName:      displayName(in.WidgetTarget),
		BundleID:         in.BundleID,
		DeploymentTarget: in.DeploymentTarget,
	}
}

// displayName splits a camel-case target name into words, e.g.
// "DequeueWidgets" becomes "Dequeue Widgets".
func displayName(target string) string {
	if target == "" {
		return "Widgets"
	}
	var b strings.Builder
	runes := []rune(target)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
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

// GetWidgetFiles returns the list of widget template files.
func GetWidgetFiles() ([]string, error) {
	return ListFiles("widget")
}

// FileName returns just the filename from a path.
func FileName(path string) string {
	return filepath.Base(path)
}
