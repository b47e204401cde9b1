package templates

import (
	"strings"
	"testing"
)

func renderWidgetTemplate(t *testing.T, path string) string {
	t.Helper()
	content, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", path, err)
	}
	data := NewTemplateData(TemplateInput{
		AppName:          "Dequeue",
		WidgetTarget:     "DequeueWidgets",
		BundleID:         "com.ardonos.Dequeue.widgets",
		DeploymentTarget: "17.0",
	})
	out, err := ProcessTemplate(string(content), data)
	if err != nil {
		t.Fatalf("ProcessTemplate(%s) failed: %v", path, err)
	}
	if strings.Contains(out, "{{") {
		t.Fatalf("rendered %s still contains template markers", path)
	}
	return out
}

func TestBundleTemplate_MainPrecedesBundleStruct(t *testing.T) {
	src := renderWidgetTemplate(t, "widget/Bundle.swift.tmpl")

	mainIdx := strings.Index(src, "@main")
	if mainIdx == -1 {
		t.Fatal("expected @main in widget/Bundle.swift.tmpl")
	}
	structIdx := strings.Index(src, "struct DequeueWidgetsBundle: WidgetBundle")
	if structIdx == -1 {
		t.Fatal("expected struct DequeueWidgetsBundle: WidgetBundle in widget/Bundle.swift.tmpl")
	}
	if structIdx < mainIdx {
		t.Fatalf("bundle struct appears before @main (struct=%d, main=%d)", structIdx, mainIdx)
	}
}

func TestWidgetTemplate_KindMatchesTargetName(t *testing.T) {
	src := renderWidgetTemplate(t, "widget/Widget.swift.tmpl")

	if !strings.Contains(src, "struct DequeueWidgets: Widget") {
		t.Fatal("expected struct DequeueWidgets: Widget in widget/Widget.swift.tmpl")
	}
	if !strings.Contains(src, `let kind: String = "DequeueWidgets"`) {
		t.Fatal("expected timeline kind DequeueWidgets in widget/Widget.swift.tmpl")
	}
	if !strings.Contains(src, `.configurationDisplayName("Dequeue Widgets")`) {
		t.Fatal("expected display name Dequeue Widgets in widget/Widget.swift.tmpl")
	}
}

func TestInfoPlistTemplate_DeclaresWidgetExtensionPoint(t *testing.T) {
	content, err := ReadFile("widget/Info.plist.tmpl")
	if err != nil {
		t.Fatalf("ReadFile(widget/Info.plist.tmpl) failed: %v", err)
	}
	if !strings.Contains(string(content), "com.apple.widgetkit-extension") {
		t.Fatal("expected com.apple.widgetkit-extension in widget/Info.plist.tmpl")
	}
}

func TestGetWidgetFiles(t *testing.T) {
	files, err := GetWidgetFiles()
	if err != nil {
		t.Fatalf("GetWidgetFiles failed: %v", err)
	}
	want := map[string]bool{
		"widget/Bundle.swift.tmpl": false,
		"widget/Widget.swift.tmpl": false,
		"widget/Info.plist.tmpl":   false,
	}
	for _, f := range files {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("GetWidgetFiles missing %s", f)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DequeueWidgets", "Dequeue Widgets"},
		{"Widgets", "Widgets"},
		{"UpNextWidget", "Up Next Widget"},
		{"", "Widgets"},
	}
	for _, tt := range tests {
		if got := displayName(tt.in); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
