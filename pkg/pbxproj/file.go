package pbxproj

import (
	"fmt"
	"path"
	"strings"
)

// fileTypes maps file extensions to Xcode lastKnownFileType identifiers.
var fileTypes = map[string]string{
	".swift":        "sourcecode.swift",
	".m":            "sourcecode.c.objc",
	".mm":           "sourcecode.cpp.objcpp",
	".c":            "sourcecode.c.c",
	".cpp":          "sourcecode.cpp.cpp",
	".h":            "sourcecode.c.h",
	".metal":        "sourcecode.metal",
	".storyboard":   "file.storyboard",
	".xib":          "file.xib",
	".xcassets":     "folder.assetcatalog",
	".plist":        "text.plist.xml",
	".entitlements": "text.plist.entitlements",
	".strings":      "text.plist.strings",
	".xcconfig":     "text.xcconfig",
	".json":         "text.json",
	".md":           "net.daringfireball.markdown",
	".framework":    "wrapper.framework",
	".a":            "archive.ar",
}

func fileTypeFor(name string) string {
	if t, ok := fileTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return "text"
}

// sourceTreePaths maps each group-relative file reference identifier to its
// slash path under the project's source root. References anchored elsewhere
// (BUILT_PRODUCTS_DIR, SDKROOT, absolute) are omitted.
func (p *Project) sourceTreePaths() map[string]string {
	paths := map[string]string{}
	root := p.Root()
	if root == nil {
		return paths
	}
	seen := map[string]bool{}
	var walk func(id, prefix string)
	walk = func(id, prefix string) {
		if seen[id] {
			return
		}
		seen[id] = true
		obj := p.Objects[id]
		if obj == nil {
			return
		}
		switch obj.ISA {
		case "PBXGroup", "PBXVariantGroup":
			seg := groupSegment(obj)
			next := joinSegment(prefix, seg)
			if obj.Str("sourceTree") == "SOURCE_ROOT" {
				next = seg
			}
			for _, child := range obj.Strings("children") {
				walk(child, next)
			}
		case "PBXFileReference":
			rel := obj.Str("path")
			if rel == "" {
				rel = obj.Str("name")
			}
			switch obj.Str("sourceTree") {
			case "<group>":
				paths[id] = joinSegment(prefix, rel)
			case "SOURCE_ROOT":
				paths[id] = rel
			}
		}
	}
	walk(root.Str("mainGroup"), "")
	return paths
}

func groupSegment(o *Object) string {
	if p := o.Str("path"); p != "" {
		return p
	}
	return o.Str("name")
}

func joinSegment(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	if seg == "" {
		return prefix
	}
	return prefix + "/" + seg
}

func (p *Project) findFileRef(relPath string) string {
	for id, fp := range p.sourceTreePaths() {
		if fp == relPath {
			return id
		}
	}
	return ""
}

// AddSourceFile registers the file at relPath (slash-separated, relative to
// the project's source root) with the named target's compile sources phase.
// The file reference and its enclosing group hierarchy are created on first
// use and reused afterwards, so repeated calls converge on the same object
// graph. It returns added=false when the file is already registered with
// the target.
func (p *Project) AddSourceFile(targetName, relPath string) (bool, error) {
	const op = "pbxproj.AddSourceFile"
	relPath = path.Clean(relPath)
	if relPath == "" || relPath == "." || relPath == ".." || strings.HasPrefix(relPath, "../") || strings.HasPrefix(relPath, "/") {
		return false, &Error{Op: op, Kind: KindUsage, Err: fmt.Errorf("source path %q is not relative to the project root", relPath)}
	}
	t := p.Target(targetName)
	if t == nil {
		return false, &Error{Op: op, Kind: KindNoTarget, Path: p.path, Err: fmt.Errorf("target %q not found", targetName)}
	}

	fileRefID := p.findFileRef(relPath)
	if fileRefID == "" {
		dir, base := path.Split(relPath)
		group := p.ensureGroup(strings.TrimSuffix(dir, "/"))
		fileRefID = p.nextID()
		ref := newObject("PBXFileReference")
		ref.Fields["lastKnownFileType"] = fileTypeFor(base)
		ref.Fields["path"] = base
		ref.Fields["sourceTree"] = "<group>"
		p.Objects[fileRefID] = ref
		group.AppendID("children", fileRefID)
	}

	phase := t.sourcesPhase()
	for _, bfID := range phase.Strings("files") {
		bf := p.Objects[bfID]
		if bf != nil && bf.ISA == "PBXBuildFile" && bf.Str("fileRef") == fileRefID {
			return false, nil
		}
	}

	bfID := p.nextID()
	bf := newObject("PBXBuildFile")
	bf.Fields["fileRef"] = fileRefID
	p.Objects[bfID] = bf
	phase.AppendID("files", bfID)
	return true, nil
}

// ensureGroup returns the group at the given source-root-relative directory,
// creating intermediate groups as needed. An empty dir returns the main
// group.
func (p *Project) ensureGroup(dir string) *Object {
	root := p.Root()
	group := p.Objects[root.Str("mainGroup")]
	if group == nil {
		id := p.nextID()
		group = newObject("PBXGroup")
		group.Fields["children"] = []any{}
		group.Fields["sourceTree"] = "<group>"
		p.Objects[id] = group
		root.Fields["mainGroup"] = id
	}
	if dir == "" || dir == "." {
		return group
	}
	for _, seg := range strings.Split(dir, "/") {
		group = p.childGroup(group, seg)
	}
	return group
}

// childGroup finds the child group matching a path segment, creating it when
// absent.
func (p *Project) childGroup(parent *Object, seg string) *Object {
	for _, id := range parent.Strings("children") {
		obj := p.Objects[id]
		if obj == nil || (obj.ISA != "PBXGroup" && obj.ISA != "PBXVariantGroup") {
			continue
		}
		if obj.Str("path") == seg || (obj.Str("path") == "" && obj.Str("name") == seg) {
			return obj
		}
	}
	id := p.nextID()
	g := newObject("PBXGroup")
	g.Fields["children"] = []any{}
	g.Fields["path"] = seg
	g.Fields["sourceTree"] = "<group>"
	p.Objects[id] = g
	parent.AppendID("children", id)
	return g
}

// SourceFiles returns the source-root-relative paths of the files in the
// target's compile sources phase, in phase order.
func (t *Target) SourceFiles() []string {
	paths := t.proj.sourceTreePaths()
	var out []string
	for _, phase := range t.BuildPhases() {
		if phase.obj.ISA != "PBXSourcesBuildPhase" {
			continue
		}
		for _, bfID := range phase.FileIDs() {
			bf := t.proj.Objects[bfID]
			if bf == nil {
				continue
			}
			if fp := paths[bf.Str("fileRef")]; fp != "" {
				out = append(out, fp)
			}
		}
	}
	return out
}

// HasSourceFile reports whether relPath is registered with the target's
// compile sources phase.
func (t *Target) HasSourceFile(relPath string) bool {
	relPath = path.Clean(relPath)
	for _, fp := range t.SourceFiles() {
		if fp == relPath {
			return true
		}
	}
	return false
}
