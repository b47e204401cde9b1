package pbxproj

import (
	"strings"
	"testing"
)

func TestAddSourceFile(t *testing.T) {
	p := loadFixture(t)

	added, err := p.AddSourceFile("Dequeue", "Shared/WidgetModels.swift")
	if err != nil {
		t.Fatalf("AddSourceFile failed: %v", err)
	}
	if !added {
		t.Fatal("AddSourceFile reported added=false for a new file")
	}

	target := p.Target("Dequeue")
	if !target.HasSourceFile("Shared/WidgetModels.swift") {
		t.Error("HasSourceFile = false after AddSourceFile")
	}
	if id := p.findFileRef("Shared/WidgetModels.swift"); id == "" {
		t.Error("no file reference resolvable at Shared/WidgetModels.swift")
	}
}

func TestAddSourceFileIdempotent(t *testing.T) {
	p := loadFixture(t)

	if _, err := p.AddSourceFile("Dequeue", "Shared/WidgetModels.swift"); err != nil {
		t.Fatalf("first AddSourceFile failed: %v", err)
	}
	first := p.Bytes()

	added, err := p.AddSourceFile("Dequeue", "Shared/WidgetModels.swift")
	if err != nil {
		t.Fatalf("second AddSourceFile failed: %v", err)
	}
	if added {
		t.Error("second AddSourceFile reported added=true")
	}
	second := p.Bytes()
	if string(first) != string(second) {
		t.Error("repeated AddSourceFile changed the serialized descriptor")
	}
}

func TestAddSourceFileExistingReference(t *testing.T) {
	p := loadFixture(t)

	// ContentView.swift is already referenced and compiled by the fixture.
	added, err := p.AddSourceFile("Dequeue", "Dequeue/ContentView.swift")
	if err != nil {
		t.Fatalf("AddSourceFile failed: %v", err)
	}
	if added {
		t.Error("AddSourceFile reported added=true for an already compiled file")
	}

	var refs int
	for _, obj := range p.Objects {
		if obj.ISA == "PBXFileReference" && obj.Str("path") == "ContentView.swift" {
			refs++
		}
	}
	if refs != 1 {
		t.Errorf("descriptor has %d references to ContentView.swift, want 1", refs)
	}
}

func TestAddSourceFileReusesGroups(t *testing.T) {
	p := loadFixture(t)

	if _, err := p.AddSourceFile("Dequeue", "Shared/WidgetModels.swift"); err != nil {
		t.Fatalf("AddSourceFile failed: %v", err)
	}
	if _, err := p.AddSourceFile("Dequeue", "Shared/StackState.swift"); err != nil {
		t.Fatalf("AddSourceFile failed: %v", err)
	}

	var sharedGroups int
	for _, obj := range p.Objects {
		if obj.ISA == "PBXGroup" && obj.Str("path") == "Shared" {
			sharedGroups++
		}
	}
	if sharedGroups != 1 {
		t.Errorf("descriptor has %d Shared groups, want 1", sharedGroups)
	}
}

func TestAddSourceFileNestedGroups(t *testing.T) {
	p := loadFixture(t)

	if _, err := p.AddSourceFile("Dequeue", "Shared/Models/StackEntry.swift"); err != nil {
		t.Fatalf("AddSourceFile failed: %v", err)
	}
	if p.findFileRef("Shared/Models/StackEntry.swift") == "" {
		t.Fatal("nested file reference not resolvable by path")
	}

	out := string(p.Bytes())
	for _, want := range []string{
		"/* Shared */",
		"/* Models */",
		"StackEntry.swift in Sources",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized descriptor missing %q", want)
		}
	}
}

func TestAddSourceFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		relPath string
		kind    ErrorKind
	}{
		{
			name:    "missing target",
			target:  "Nonexistent",
			relPath: "Shared/WidgetModels.swift",
			kind:    KindNoTarget,
		},
		{
			name:    "absolute path",
			target:  "Dequeue",
			relPath: "/tmp/WidgetModels.swift",
			kind:    KindUsage,
		},
		{
			name:    "parent escape",
			target:  "Dequeue",
			relPath: "../Other/File.swift",
			kind:    KindUsage,
		},
		{
			name:    "empty path",
			target:  "Dequeue",
			relPath: "",
			kind:    KindUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := loadFixture(t)
			_, err := p.AddSourceFile(tt.target, tt.relPath)
			if err == nil {
				t.Fatal("AddSourceFile succeeded, want error")
			}
			if !IsKind(err, tt.kind) {
				t.Errorf("error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestSourceFiles(t *testing.T) {
	p := loadFixture(t)

	got := p.Target("Dequeue").SourceFiles()
	want := []string{"Dequeue/DequeueApp.swift", "Dequeue/ContentView.swift"}
	if len(got) != len(want) {
		t.Fatalf("SourceFiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SourceFiles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFileTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"WidgetModels.swift", "sourcecode.swift"},
		{"Bridge.m", "sourcecode.c.objc"},
		{"Bridge.h", "sourcecode.c.h"},
		{"Main.storyboard", "file.storyboard"},
		{"Assets.xcassets", "folder.assetcatalog"},
		{"Info.plist", "text.plist.xml"},
		{"App.entitlements", "text.plist.entitlements"},
		{"README.md", "net.daringfireball.markdown"},
		{"data.bin", "text"},
	}
	for _, tt := range tests {
		if got := fileTypeFor(tt.name); got != tt.want {
			t.Errorf("fileTypeFor(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
