package pbxproj

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adnsv/go-utils/filesystem"
	"howett.net/plist"
)

// Project is an in-memory Xcode project descriptor.
type Project struct {
	// ArchiveVersion and ObjectVersion mirror the descriptor header fields.
	ArchiveVersion string
	ObjectVersion  string
	// Classes mirrors the descriptor's classes dictionary, conventionally empty.
	Classes map[string]any
	// RootID identifies the PBXProject object.
	RootID string
	// Objects is the flat object table keyed by identifier.
	Objects map[string]*Object

	path string
	name string
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: "pbxproj.Load", Kind: KindIO, Path: path, Err: err}
	}
	p, err := Parse(data)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	p.path = path
	p.name = projectNameFromPath(path)
	return p, nil
}

// projectNameFromPath derives the project display name from the descriptor
// path, e.g. "App.xcodeproj/project.pbxproj" yields "App". The name shows up
// in serialized annotations on configuration lists.
func projectNameFromPath(p string) string {
	dir := filepath.Base(filepath.Dir(p))
	if strings.HasSuffix(dir, ".xcodeproj") {
		return strings.TrimSuffix(dir, ".xcodeproj")
	}
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse decodes a descriptor from memory.
func Parse(data []byte) (*Project, error) {
	var raw map[string]any
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Op: "pbxproj.Parse", Kind: KindParse, Err: err}
	}

	objects, ok := raw["objects"].(map[string]any)
	if !ok {
		return nil, schemaErr("descriptor has no objects table")
	}

	p := &Project{
		ArchiveVersion: stringValue(raw["archiveVersion"]),
		ObjectVersion:  stringValue(raw["objectVersion"]),
		Classes:        map[string]any{},
		RootID:         stringValue(raw["rootObject"]),
		Objects:        make(map[string]*Object, len(objects)),
	}
	if classes, ok := raw["classes"].(map[string]any); ok {
		p.Classes = classes
	}

	for id, v := range objects {
		dict, ok := v.(map[string]any)
		if !ok {
			return nil, schemaErr("object %s is not a dictionary", id)
		}
		isa := stringValue(dict["isa"])
		if isa == "" {
			return nil, schemaErr("object %s has no isa", id)
		}
		delete(dict, "isa")
		p.Objects[id] = &Object{ISA: isa, Fields: dict}
	}

	if p.RootID == "" {
		return nil, schemaErr("descriptor has no rootObject")
	}
	root := p.Objects[p.RootID]
	if root == nil {
		return nil, schemaErr("rootObject %s is not in the objects table", p.RootID)
	}
	if root.ISA != "PBXProject" {
		return nil, schemaErr("rootObject %s is a %s, want PBXProject", p.RootID, root.ISA)
	}
	return p, nil
}

func schemaErr(format string, args ...any) *Error {
	return &Error{Op: "pbxproj.Parse", Kind: KindSchema, Err: fmt.Errorf(format, args...)}
}

// Root returns the PBXProject object.
func (p *Project) Root() *Object {
	return p.Objects[p.RootID]
}

// Object returns the object with the given identifier, or nil.
func (p *Project) Object(id string) *Object {
	return p.Objects[id]
}

// Path returns the descriptor's on-disk path, or "" for descriptors parsed
// from memory.
func (p *Project) Path() string {
	return p.path
}

// Name returns the project's display name. Load derives it from the
// .xcodeproj directory; descriptors parsed from memory have none until
// SetName is called.
func (p *Project) Name() string {
	return p.name
}

// SetName sets the project's display name.
func (p *Project) SetName(name string) {
	p.name = name
}

func (p *Project) displayName() string {
	if p.name != "" {
		return p.name
	}
	return "Project"
}

// Save writes the descriptor back to the path it was loaded from. The file
// is rewritten only when the serialized bytes differ from its current
// contents, so unchanged descriptors keep their modification time.
func (p *Project) Save() error {
	if p.path == "" {
		return &Error{Op: "pbxproj.Save", Kind: KindUsage, Err: fmt.Errorf("descriptor was not loaded from a file")}
	}
	return p.SaveAs(p.path)
}

// SaveAs writes the descriptor to path, rewriting only on change.
func (p *Project) SaveAs(path string) error {
	if err := filesystem.WriteFileIfChanged(path, p.Bytes()); err != nil {
		return &Error{Op: "pbxproj.Save", Kind: KindIO, Path: path, Err: err}
	}
	return nil
}
