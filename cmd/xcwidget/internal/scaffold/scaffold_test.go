package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testSettings() Settings {
	return Settings{
		AppName:          "Dequeue",
		WidgetTarget:     "DequeueWidgets",
		BundleID:         "com.ardonos.Dequeue.widgets",
		DeploymentTarget: "17.0",
	}
}

func TestWriteWidget(t *testing.T) {
	root := t.TempDir()

	res, err := WriteWidget(root, testSettings())
	if err != nil {
		t.Fatalf("WriteWidget failed: %v", err)
	}

	if res.Dir != "DequeueWidgets" {
		t.Errorf("Dir = %q, want DequeueWidgets", res.Dir)
	}
	if res.Backup != "" {
		t.Errorf("Backup = %q, want empty", res.Backup)
	}

	wantFiles := []string{
		filepath.Join("DequeueWidgets", "DequeueWidgetsBundle.swift"),
		filepath.Join("DequeueWidgets", "DequeueWidgets.swift"),
		filepath.Join("DequeueWidgets", "Info.plist"),
	}
	if len(res.Files) != len(wantFiles) {
		t.Fatalf("Files = %v, want %v", res.Files, wantFiles)
	}
	for i, want := range wantFiles {
		if res.Files[i] != want {
			t.Errorf("Files[%d] = %q, want %q", i, res.Files[i], want)
		}
	}

	bundle, err := os.ReadFile(filepath.Join(root, "DequeueWidgets", "DequeueWidgetsBundle.swift"))
	if err != nil {
		t.Fatalf("reading bundle source: %v", err)
	}
	if !strings.Contains(string(bundle), "struct DequeueWidgetsBundle: WidgetBundle") {
		t.Error("bundle source missing WidgetBundle declaration")
	}
	if strings.Contains(string(bundle), "{{") {
		t.Error("bundle source still contains template markers")
	}

	widget, err := os.ReadFile(filepath.Join(root, "DequeueWidgets", "DequeueWidgets.swift"))
	if err != nil {
		t.Fatalf("reading widget source: %v", err)
	}
	if !strings.Contains(string(widget), `let kind: String = "DequeueWidgets"`) {
		t.Error("widget source missing timeline kind")
	}

	plist, err := os.ReadFile(filepath.Join(root, "DequeueWidgets", "Info.plist"))
	if err != nil {
		t.Fatalf("reading Info.plist: %v", err)
	}
	if !strings.Contains(string(plist), "com.apple.widgetkit-extension") {
		t.Error("Info.plist missing widgetkit extension point")
	}
}

func TestWriteWidgetExistingDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "DequeueWidgets"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := WriteWidget(root, testSettings())
	if err == nil {
		t.Fatal("expected error for existing widget directory")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %q, want mention of already exists", err)
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error = %q, want mention of --force", err)
	}
}

func TestWriteWidgetForceBackup(t *testing.T) {
	root := t.TempDir()
	widgetDir := filepath.Join(root, "DequeueWidgets")
	if err := os.MkdirAll(widgetDir, 0o755); err != nil {
		t.Fatal(err)
	}
	sentinel := filepath.Join(widgetDir, "Keep.swift")
	if err := os.WriteFile(sentinel, []byte("// keep\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := testSettings()
	s.Force = true
	res, err := WriteWidget(root, s)
	if err != nil {
		t.Fatalf("WriteWidget failed: %v", err)
	}

	if res.Backup == "" {
		t.Fatal("expected a backup directory")
	}
	if _, err := os.Stat(filepath.Join(res.Backup, "Keep.swift")); err != nil {
		t.Errorf("sentinel not preserved in backup: %v", err)
	}
	if _, err := os.Stat(sentinel); !os.IsNotExist(err) {
		t.Error("sentinel survived in the rewritten directory")
	}
	if _, err := os.Stat(filepath.Join(widgetDir, "DequeueWidgets.swift")); err != nil {
		t.Errorf("widget source missing after force rewrite: %v", err)
	}
}

func TestWriteWidgetMissingTarget(t *testing.T) {
	_, err := WriteWidget(t.TempDir(), Settings{AppName: "Dequeue"})
	if err == nil {
		t.Fatal("expected error for empty widget target")
	}
}

func TestSwiftFiles(t *testing.T) {
	got := SwiftFiles("DequeueWidgets")
	want := []string{
		"DequeueWidgets/DequeueWidgetsBundle.swift",
		"DequeueWidgets/DequeueWidgets.swift",
	}
	if len(got) != len(want) {
		t.Fatalf("SwiftFiles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SwiftFiles[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
