package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adnsv/go-utils/filesystem"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// minDeploymentTarget is the first iOS release with WidgetKit.
const minDeploymentTarget = "14.0"

// Config represents the optional xcwidget.yaml configuration.
type Config struct {
	Project string       `yaml:"project,omitempty"`
	App     AppConfig    `yaml:"app"`
	Widget  WidgetConfig `yaml:"widget"`
	Shared  SharedConfig `yaml:"shared"`
}

// AppConfig identifies the host application target.
type AppConfig struct {
	Target string `yaml:"target,omitempty"`
}

// WidgetConfig describes the widget extension target.
type WidgetConfig struct {
	Target           string   `yaml:"target,omitempty"`
	BundleID         string   `yaml:"bundle_id,omitempty"`
	DeploymentTarget string   `yaml:"deployment_target,omitempty"`
	Sources          []string `yaml:"sources,omitempty"`
}

// SharedConfig lists sources compiled into both targets.
type SharedConfig struct {
	Sources []string `yaml:"sources,omitempty"`
}

// Resolved contains resolved configuration values. Source paths are
// relative to SourceRoot, the directory holding the .xcodeproj bundle,
// which is what the descriptor's own group tree is anchored at.
type Resolved struct {
	Root             string
	SourceRoot       string
	ProjectPath      string
	AppTarget        string
	WidgetTarget     string
	WidgetBundleID   string
	DeploymentTarget string
	WidgetSources    []string
	SharedSources    []string
}

// LoadOptional reads xcwidget.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "xcwidget.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read xcwidget.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse xcwidget.yaml: %w", err)
	}

	return &cfg, nil
}

// Resolve loads xcwidget.yaml (if present) and resolves defaults. Defaults
// that depend on the descriptor's build settings are filled separately by
// ApplyProjectDefaults once the project is loaded.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return resolve(dir, cfg)
}

// ResolveFile resolves against an explicit configuration file, which must
// exist. Relative paths inside it are taken from the file's directory.
func ResolveFile(path string) (*Resolved, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return resolve(dir, &cfg)
}

// ResolveProject resolves against an explicitly named project, skipping
// workspace discovery. xcwidget.yaml, if any, is read from the directory
// holding the .xcodeproj bundle.
func ResolveProject(path string) (*Resolved, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	p, err := normalizeProjectPath(abs)
	if err != nil {
		return nil, err
	}

	root := filepath.Dir(filepath.Dir(p))
	cfg, err := LoadOptional(root)
	if err != nil {
		return nil, err
	}
	cfg.Project = p
	return resolve(root, cfg)
}

func resolve(dir string, cfg *Config) (*Resolved, error) {
	projectPath, err := resolveProjectPath(dir, strings.TrimSpace(cfg.Project))
	if err != nil {
		return nil, err
	}
	sourceRoot := filepath.Dir(filepath.Dir(projectPath))

	appTarget := strings.TrimSpace(cfg.App.Target)
	if appTarget == "" {
		appTarget = projectName(projectPath)
	}

	widgetTarget := strings.TrimSpace(cfg.Widget.Target)
	if widgetTarget == "" {
		widgetTarget = appTarget + "Widgets"
	}

	bundleID := strings.TrimSpace(cfg.Widget.BundleID)
	if bundleID != "" {
		if err := validateBundleID(bundleID); err != nil {
			return nil, err
		}
	}

	deploymentTarget := strings.TrimSpace(cfg.Widget.DeploymentTarget)
	if deploymentTarget != "" {
		if !semver.IsValid("v" + deploymentTarget) {
			return nil, fmt.Errorf("widget.deployment_target %q is not a valid version", deploymentTarget)
		}
		if semver.Compare("v"+deploymentTarget, "v"+minDeploymentTarget) < 0 {
			return nil, fmt.Errorf("widget.deployment_target %q is below the WidgetKit minimum %s", deploymentTarget, minDeploymentTarget)
		}
	}

	widgetSources := cfg.Widget.Sources
	if len(widgetSources) == 0 {
		widgetSources = defaultWidgetSources(sourceRoot, widgetTarget)
	}

	sharedSources := cfg.Shared.Sources
	if len(sharedSources) == 0 {
		sharedSources = defaultSharedSources(sourceRoot)
	}

	return &Resolved{
		Root:             dir,
		SourceRoot:       sourceRoot,
		ProjectPath:      projectPath,
		AppTarget:        appTarget,
		WidgetTarget:     widgetTarget,
		WidgetBundleID:   bundleID,
		DeploymentTarget: deploymentTarget,
		WidgetSources:    widgetSources,
		SharedSources:    sharedSources,
	}, nil
}

// ApplyProjectDefaults fills the bundle identifier and deployment target
// from the host application's build settings when xcwidget.yaml left them
// empty. The deployment target is floored at 14.0.
func (r *Resolved) ApplyProjectDefaults(appBundleID, appDeploymentTarget string) {
	if r.WidgetBundleID == "" {
		if appBundleID != "" {
			r.WidgetBundleID = appBundleID + ".widgets"
		} else {
			r.WidgetBundleID = "com.example." + sanitizeSegment(r.WidgetTarget)
		}
	}
	if r.DeploymentTarget == "" {
		r.DeploymentTarget = floorDeploymentTarget(appDeploymentTarget)
	}
}

// OverrideProject replaces the resolved descriptor path, accepting either
// an .xcodeproj bundle or the project.pbxproj inside one. Relative paths
// are taken from the working directory.
func (r *Resolved) OverrideProject(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	p, err := normalizeProjectPath(abs)
	if err != nil {
		return err
	}
	r.ProjectPath = p
	r.SourceRoot = filepath.Dir(filepath.Dir(p))
	return nil
}

// FindProjectRoot walks up from the current directory to find xcwidget.yaml
// or an .xcodeproj bundle.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if filesystem.FileExists(filepath.Join(dir, "xcwidget.yaml")) {
			return dir, nil
		}
		if names, _ := xcodeprojEntries(dir); len(names) > 0 {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in an Xcode project (no xcwidget.yaml or .xcodeproj found)")
		}
		dir = parent
	}
}

func resolveProjectPath(root, configured string) (string, error) {
	if configured != "" {
		p := configured
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		return normalizeProjectPath(p)
	}

	names, err := xcodeprojEntries(root)
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("no .xcodeproj found in %s (set project in xcwidget.yaml)", root)
	case 1:
		return normalizeProjectPath(filepath.Join(root, names[0]))
	default:
		return "", fmt.Errorf("multiple .xcodeproj bundles in %s: %s (set project in xcwidget.yaml)", root, strings.Join(names, ", "))
	}
}

// normalizeProjectPath accepts either an .xcodeproj bundle or the
// project.pbxproj inside one and returns the descriptor path.
func normalizeProjectPath(p string) (string, error) {
	if strings.HasSuffix(p, ".xcodeproj") {
		p = filepath.Join(p, "project.pbxproj")
	}
	if err := filesystem.ValidateFileExists(p); err != nil {
		return "", fmt.Errorf("project descriptor not found: %w", err)
	}
	return p, nil
}

func xcodeprojEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), ".xcodeproj") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// projectName derives the host target's default name from the descriptor
// path, e.g. ".../Dequeue.xcodeproj/project.pbxproj" yields "Dequeue".
func projectName(projectPath string) string {
	dir := filepath.Base(filepath.Dir(projectPath))
	return strings.TrimSuffix(dir, ".xcodeproj")
}

// defaultWidgetSources lists the Swift files under the widget target's
// directory, falling back to the conventional scaffold layout when the
// directory does not exist yet.
func defaultWidgetSources(root, widgetTarget string) []string {
	if sources := swiftSources(root, widgetTarget); len(sources) > 0 {
		return sources
	}
	return []string{
		widgetTarget + "/" + widgetTarget + "Bundle.swift",
		widgetTarget + "/" + widgetTarget + ".swift",
	}
}

// defaultSharedSources lists the Swift files under Shared/, or nothing when
// the project has no Shared directory.
func defaultSharedSources(root string) []string {
	return swiftSources(root, "Shared")
}

func swiftSources(root, sub string) []string {
	entries, err := os.ReadDir(filepath.Join(root, sub))
	if err != nil {
		return nil
	}
	var sources []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".swift") {
			sources = append(sources, sub+"/"+e.Name())
		}
	}
	sort.Strings(sources)
	return sources
}

func floorDeploymentTarget(v string) string {
	if v == "" || !semver.IsValid("v"+v) {
		return minDeploymentTarget
	}
	if semver.Compare("v"+v, "v"+minDeploymentTarget) < 0 {
		return minDeploymentTarget
	}
	return v
}

func sanitizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)

	var out []rune
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= '0' && r <= '9':
			out = append(out, r)
		}
	}

	if len(out) == 0 {
		out = []rune("widgets")
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'a'}, out...)
	}

	return string(out)
}

func validateBundleID(bundleID string) error {
	if !strings.Contains(bundleID, ".") {
		return fmt.Errorf("widget.bundle_id must contain at least one '.' (got %q)", bundleID)
	}
	for _, segment := range strings.Split(bundleID, ".") {
		if segment == "" {
			return fmt.Errorf("widget.bundle_id contains an empty segment (%q)", bundleID)
		}
		for _, r := range segment {
			if !(r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				return fmt.Errorf("widget.bundle_id contains invalid character %q in %q", r, bundleID)
			}
		}
	}
	return nil
}
