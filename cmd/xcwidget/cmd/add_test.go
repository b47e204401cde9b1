package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardonos/xcwidget/pkg/pbxproj"
)

// writeFixtureProject lays out a project in a temp directory: the
// descriptor fixture plus the widget and shared sources on disk.
func writeFixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	data, err := os.ReadFile(filepath.Join("testdata", "project.pbxproj"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	descriptor := filepath.Join(root, "Dequeue.xcodeproj", "project.pbxproj")
	if err := os.MkdirAll(filepath.Dir(descriptor), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(descriptor, data, 0o644); err != nil {
		t.Fatal(err)
	}

	writeSource(t, root, "Shared/WidgetModels.swift")
	writeSource(t, root, "DequeueWidgets/DequeueWidgetsBundle.swift")
	writeSource(t, root, "DequeueWidgets/DequeueWidgets.swift")
	return root
}

func writeSource(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("// "+filepath.Base(rel)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func descriptorBytes(t *testing.T, root string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "Dequeue.xcodeproj", "project.pbxproj"))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func loadProject(t *testing.T, root string) *pbxproj.Project {
	t.Helper()
	proj, err := pbxproj.Load(filepath.Join(root, "Dequeue.xcodeproj", "project.pbxproj"))
	if err != nil {
		t.Fatalf("loading project: %v", err)
	}
	return proj
}

func TestParseAddArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    addOptions
		wantErr bool
	}{
		{name: "no args", args: nil, want: addOptions{}},
		{name: "create target", args: []string{"--create-target"}, want: addOptions{createTarget: true}},
		{name: "dry run", args: []string{"--dry-run"}, want: addOptions{dryRun: true}},
		{
			name: "project with value",
			args: []string{"--project", "ios/App.xcodeproj"},
			want: addOptions{project: "ios/App.xcodeproj"},
		},
		{
			name: "project equals form",
			args: []string{"--project=ios/App.xcodeproj", "--dry-run"},
			want: addOptions{project: "ios/App.xcodeproj", dryRun: true},
		},
		{name: "project missing value", args: []string{"--project"}, wantErr: true},
		{name: "unknown argument", args: []string{"--bogus"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAddArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAddArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseAddArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestRunAddRegistersSharedSources(t *testing.T) {
	root := writeFixtureProject(t)
	t.Chdir(root)

	if err := runAdd(nil); err != nil {
		t.Fatalf("runAdd failed: %v", err)
	}

	proj := loadProject(t, root)
	app := proj.Target("Dequeue")
	if app == nil {
		t.Fatal("app target missing after add")
	}
	if !app.HasSourceFile("Shared/WidgetModels.swift") {
		t.Error("shared source not registered with the app target")
	}
	if proj.Target("DequeueWidgets") != nil {
		t.Error("widget target created without --create-target")
	}

	// Second run must not touch the descriptor.
	before := descriptorBytes(t, root)
	if err := runAdd(nil); err != nil {
		t.Fatalf("second runAdd failed: %v", err)
	}
	after := descriptorBytes(t, root)
	if string(before) != string(after) {
		t.Error("descriptor changed on a second run")
	}
}

func TestRunAddCreateTarget(t *testing.T) {
	root := writeFixtureProject(t)
	t.Chdir(root)

	if err := runAdd([]string{"--create-target"}); err != nil {
		t.Fatalf("runAdd --create-target failed: %v", err)
	}

	proj := loadProject(t, root)
	widget := proj.Target("DequeueWidgets")
	if widget == nil {
		t.Fatal("widget target not created")
	}
	if got := widget.ProductType(); got != "com.apple.product-type.app-extension" {
		t.Errorf("widget product type = %q", got)
	}
	if !widget.HasSourceFile("DequeueWidgets/DequeueWidgets.swift") {
		t.Error("widget source not registered with the widget target")
	}
	if !widget.HasSourceFile("Shared/WidgetModels.swift") {
		t.Error("shared source not registered with the widget target")
	}
	if app := proj.Target("Dequeue"); !app.HasSourceFile("Shared/WidgetModels.swift") {
		t.Error("shared source not registered with the app target")
	}
	if got := widget.BuildSetting("PRODUCT_BUNDLE_IDENTIFIER"); got != "com.ardonos.Dequeue.widgets" {
		t.Errorf("widget bundle id = %q, want com.ardonos.Dequeue.widgets", got)
	}
	if got := widget.BuildSetting("IPHONEOS_DEPLOYMENT_TARGET"); got != "17.0" {
		t.Errorf("widget deployment target = %q, want 17.0", got)
	}

	// The existing target short-circuits any further run.
	before := descriptorBytes(t, root)
	if err := runAdd([]string{"--create-target"}); err != nil {
		t.Fatalf("second runAdd failed: %v", err)
	}
	if string(before) != string(descriptorBytes(t, root)) {
		t.Error("descriptor changed on a second run")
	}
}

func TestRunAddProjectFlag(t *testing.T) {
	root := writeFixtureProject(t)

	// Run from an unrelated directory: the flag must carry the project on
	// its own, without workspace discovery.
	t.Chdir(t.TempDir())
	project := filepath.Join(root, "Dequeue.xcodeproj")
	if err := runAdd([]string{"--project", project}); err != nil {
		t.Fatalf("runAdd --project failed: %v", err)
	}

	app := loadProject(t, root).Target("Dequeue")
	if !app.HasSourceFile("Shared/WidgetModels.swift") {
		t.Error("shared source not registered via --project")
	}
}

func TestRunAddDryRun(t *testing.T) {
	root := writeFixtureProject(t)
	t.Chdir(root)

	before := descriptorBytes(t, root)
	if err := runAdd([]string{"--create-target", "--dry-run"}); err != nil {
		t.Fatalf("runAdd --dry-run failed: %v", err)
	}
	if string(before) != string(descriptorBytes(t, root)) {
		t.Error("dry run wrote the descriptor")
	}
}

func TestRunAddSkipsMissingShared(t *testing.T) {
	root := writeFixtureProject(t)
	if err := os.Remove(filepath.Join(root, "Shared", "WidgetModels.swift")); err != nil {
		t.Fatal(err)
	}
	writeSource(t, root, "Shared/Formatting.swift")

	// WidgetModels.swift is configured but gone from disk; the run must
	// skip it and still register the rest.
	cfgYAML := "shared:\n  sources:\n    - Shared/WidgetModels.swift\n    - Shared/Formatting.swift\n"
	if err := os.WriteFile(filepath.Join(root, "xcwidget.yaml"), []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)

	if err := runAdd(nil); err != nil {
		t.Fatalf("runAdd failed: %v", err)
	}

	app := loadProject(t, root).Target("Dequeue")
	if app.HasSourceFile("Shared/WidgetModels.swift") {
		t.Error("missing file was registered")
	}
	if !app.HasSourceFile("Shared/Formatting.swift") {
		t.Error("existing shared source not registered")
	}
}

func TestRunAddAppTargetNotFound(t *testing.T) {
	root := writeFixtureProject(t)
	if err := os.WriteFile(filepath.Join(root, "xcwidget.yaml"), []byte("app:\n  target: Missing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)

	err := runAdd(nil)
	if err == nil {
		t.Fatal("expected error for unknown app target")
	}
	if !strings.Contains(err.Error(), `app target "Missing" not found`) {
		t.Errorf("error = %q", err)
	}
}
