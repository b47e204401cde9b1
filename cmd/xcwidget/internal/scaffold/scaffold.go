// Package scaffold writes the starter source files for a widget
// extension target: a WidgetBundle entry point, a timeline widget, and
// the extension Info.plist.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ardonos/xcwidget/cmd/xcwidget/internal/templates"
)

// Settings selects the names substituted into the widget templates.
type Settings struct {
	AppName          string
	WidgetTarget     string
	BundleID         string
	DeploymentTarget string

	// Force moves an existing widget directory aside instead of failing.
	Force bool
}

// Result reports what WriteWidget created.
type Result struct {
	Dir    string   // widget directory, relative to root
	Files  []string // files written, relative to root
	Backup string   // non-empty when an existing directory was moved aside
}

// WriteWidget renders the widget templates into <root>/<WidgetTarget>/.
// An existing directory is an error unless Force is set, in which case it
// is renamed to a timestamped backup first.
func WriteWidget(root string, s Settings) (*Result, error) {
	if s.WidgetTarget == "" {
		return nil, fmt.Errorf("widget target name is required")
	}

	widgetDir := filepath.Join(root, s.WidgetTarget)
	res := &Result{Dir: s.WidgetTarget}

	if _, err := os.Stat(widgetDir); err == nil {
		if !s.Force {
			return nil, fmt.Errorf("%s already exists. Use --force to overwrite (creates backup)", widgetDir)
		}
		backupDir, err := createBackup(widgetDir)
		if err != nil {
			return nil, fmt.Errorf("failed to backup %s: %w", widgetDir, err)
		}
		res.Backup = backupDir
	}

	if err := os.MkdirAll(widgetDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", widgetDir, err)
	}

	data := templates.NewTemplateData(templates.TemplateInput{
		AppName:          s.AppName,
		WidgetTarget:     s.WidgetTarget,
		BundleID:         s.BundleID,
		DeploymentTarget: s.DeploymentTarget,
	})

	files := []struct {
		template string
		dest     string
	}{
		{"widget/Bundle.swift.tmpl", s.WidgetTarget + "Bundle.swift"},
		{"widget/Widget.swift.tmpl", s.WidgetTarget + ".swift"},
		{"widget/Info.plist.tmpl", "Info.plist"},
	}

	for _, f := range files {
		if err := writeTemplateFile(f.template, filepath.Join(widgetDir, f.dest), data); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, filepath.Join(s.WidgetTarget, f.dest))
	}

	return res, nil
}

// SwiftFiles returns the Swift sources WriteWidget produces for a widget
// target, as slash paths relative to the project root. The configuration
// defaults fall back to the same names before the widget directory exists
// on disk.
func SwiftFiles(widgetTarget string) []string {
	return []string{
		widgetTarget + "/" + widgetTarget + "Bundle.swift",
		widgetTarget + "/" + widgetTarget + ".swift",
	}
}

func writeTemplateFile(templatePath, destPath string, data *templates.TemplateData) error {
	content, err := templates.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	processed, err := templates.ProcessTemplate(string(content), data)
	if err != nil {
		return fmt.Errorf("failed to process template %s: %w", templatePath, err)
	}

	if err := os.WriteFile(destPath, []byte(processed), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	return nil
}

func createBackup(dir string) (string, error) {
	now := time.Now()
	base := dir + ".backup." + now.Format("20060102-150405")

	// Try the unsuffixed name first, then add a counter on collision
	if _, err := os.Stat(base); os.IsNotExist(err) {
		if err := os.Rename(dir, base); err != nil {
			return "", err
		}
		return base, nil
	}
	for i := 2; i <= 999; i++ {
		backupDir := fmt.Sprintf("%s-%03d", base, i)
		if _, err := os.Stat(backupDir); os.IsNotExist(err) {
			if err := os.Rename(dir, backupDir); err != nil {
				return "", err
			}
			return backupDir, nil
		}
	}

	return "", fmt.Errorf("too many backups exist for %s", dir)
}
