package pbxproj

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

// singleLineISAs lists the object classes Xcode serializes on one line.
var singleLineISAs = map[string]bool{
	"PBXBuildFile":     true,
	"PBXFileReference": true,
}

var buildPhaseISAs = map[string]bool{
	"PBXSourcesBuildPhase":     true,
	"PBXFrameworksBuildPhase":  true,
	"PBXResourcesBuildPhase":   true,
	"PBXHeadersBuildPhase":     true,
	"PBXCopyFilesBuildPhase":   true,
	"PBXShellScriptBuildPhase": true,
}

// unquotedToken matches strings Xcode writes without surrounding quotes.
var unquotedToken = regexp.MustCompile(`^[A-Za-z0-9_$./]+$`)

// Bytes serializes the descriptor in the layout Xcode itself writes: tab
// indentation, objects grouped into per-class sections, identifiers annotated
// with display-name comments, and deterministic ordering throughout.
// Identical object graphs always produce identical bytes, so an edit's diff
// is limited to the objects it touched.
func (p *Project) Bytes() []byte {
	w := &writer{proj: p}
	return w.bytes()
}

type writer struct {
	proj     *Project
	buf      bytes.Buffer
	comments map[string]string
}

func (w *writer) bytes() []byte {
	w.resolveComments()
	w.buf.WriteString("// !$*UTF8*$!\n")
	w.buf.WriteString("{\n")
	w.writeEntry(1, "archiveVersion", w.proj.ArchiveVersion)
	w.writeEntry(1, "classes", w.proj.Classes)
	w.writeEntry(1, "objectVersion", w.proj.ObjectVersion)
	w.writeObjects()
	w.writeEntry(1, "rootObject", w.proj.RootID)
	w.buf.WriteString("}\n")
	return w.buf.Bytes()
}

func (w *writer) writeObjects() {
	w.buf.WriteString("\tobjects = {\n")

	byISA := map[string][]string{}
	for id, obj := range w.proj.Objects {
		byISA[obj.ISA] = append(byISA[obj.ISA], id)
	}
	isas := make([]string, 0, len(byISA))
	for isa := range byISA {
		isas = append(isas, isa)
	}
	sort.Strings(isas)

	for _, isa := range isas {
		ids := byISA[isa]
		sort.Strings(ids)
		w.buf.WriteString("\n")
		fmt.Fprintf(&w.buf, "/* Begin %s section */\n", isa)
		for _, id := range ids {
			w.writeObject(id)
		}
		fmt.Fprintf(&w.buf, "/* End %s section */\n", isa)
	}

	w.buf.WriteString("\t};\n")
}

func (w *writer) writeObject(id string) {
	obj := w.proj.Objects[id]
	ref := id
	if c := w.comments[id]; c != "" {
		ref += " /* " + c + " */"
	}

	if singleLineISAs[obj.ISA] {
		fmt.Fprintf(&w.buf, "\t\t%s = {isa = %s; ", ref, obj.ISA)
		for _, k := range sortedKeys(obj.Fields) {
			w.buf.WriteString(w.inlineEntry(k, obj.Fields[k]))
		}
		w.buf.WriteString("};\n")
		return
	}

	fmt.Fprintf(&w.buf, "\t\t%s = {\n", ref)
	fmt.Fprintf(&w.buf, "\t\t\tisa = %s;\n", obj.ISA)
	for _, k := range sortedKeys(obj.Fields) {
		w.writeEntry(3, k, obj.Fields[k])
	}
	w.buf.WriteString("\t\t};\n")
}

func (w *writer) writeEntry(indent int, key string, v any) {
	tabs := strings.Repeat("\t", indent)
	switch t := v.(type) {
	case map[string]any:
		fmt.Fprintf(&w.buf, "%s%s = {\n", tabs, quoteToken(key))
		for _, k := range sortedKeys(t) {
			w.writeEntry(indent+1, k, t[k])
		}
		fmt.Fprintf(&w.buf, "%s};\n", tabs)
	case []any:
		fmt.Fprintf(&w.buf, "%s%s = (\n", tabs, quoteToken(key))
		for _, item := range t {
			fmt.Fprintf(&w.buf, "%s\t%s,\n", tabs, w.value(key, item))
		}
		fmt.Fprintf(&w.buf, "%s);\n", tabs)
	default:
		fmt.Fprintf(&w.buf, "%s%s = %s;\n", tabs, quoteToken(key), w.value(key, v))
	}
}

func (w *writer) inlineEntry(key string, v any) string {
	switch t := v.(type) {
	case map[string]any:
		var b strings.Builder
		b.WriteString(quoteToken(key))
		b.WriteString(" = {")
		for _, k := range sortedKeys(t) {
			b.WriteString(w.inlineEntry(k, t[k]))
		}
		b.WriteString("}; ")
		return b.String()
	case []any:
		var b strings.Builder
		b.WriteString(quoteToken(key))
		b.WriteString(" = (")
		for _, item := range t {
			b.WriteString(w.value(key, item))
			b.WriteString(", ")
		}
		b.WriteString("); ")
		return b.String()
	default:
		return quoteToken(key) + " = " + w.value(key, v) + "; "
	}
}

// value formats a scalar, annotating identifier references with their display
// comment. Xcode leaves remoteGlobalIDString values unannotated.
func (w *writer) value(key string, v any) string {
	s := stringValue(v)
	out := quoteToken(s)
	if key == "remoteGlobalIDString" {
		return out
	}
	if c := w.comments[s]; c != "" {
		out += " /* " + c + " */"
	}
	return out
}

func quoteToken(s string) string {
	if s != "" && unquotedToken.MatchString(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resolveComments computes the display comment for every object identifier.
// Build file comments combine the referenced file's display name with the
// containing phase, so they resolve after the first pass over all other
// classes.
func (w *writer) resolveComments() {
	w.comments = map[string]string{}
	p := w.proj

	for id, obj := range p.Objects {
		switch obj.ISA {
		case "PBXFileReference", "PBXGroup", "PBXVariantGroup":
			w.comments[id] = refDisplayName(obj)
		case "PBXNativeTarget", "PBXAggregateTarget", "PBXLegacyTarget":
			w.comments[id] = obj.Str("name")
		case "PBXProject":
			w.comments[id] = "Project object"
		case "PBXContainerItemProxy", "PBXTargetDependency":
			w.comments[id] = obj.ISA
		case "XCBuildConfiguration":
			w.comments[id] = obj.Str("name")
		default:
			if buildPhaseISAs[obj.ISA] {
				w.comments[id] = phaseDisplayName(obj)
			}
		}
	}

	for id, obj := range p.Objects {
		if obj.ISA == "XCConfigurationList" {
			w.comments[id] = w.configListComment(id)
		}
	}

	for _, obj := range p.Objects {
		if !buildPhaseISAs[obj.ISA] {
			continue
		}
		phaseName := phaseDisplayName(obj)
		for _, bfID := range obj.Strings("files") {
			bf := p.Objects[bfID]
			if bf == nil || bf.ISA != "PBXBuildFile" {
				continue
			}
			fileName := w.comments[bf.Str("fileRef")]
			if fileName == "" {
				fileName = "(null)"
			}
			w.comments[bfID] = fileName + " in " + phaseName
		}
	}
}

func refDisplayName(o *Object) string {
	if name := o.Str("name"); name != "" {
		return name
	}
	if p := o.Str("path"); p != "" {
		return path.Base(p)
	}
	return ""
}

func (w *writer) configListComment(listID string) string {
	for _, obj := range w.proj.Objects {
		if obj.Str("buildConfigurationList") != listID {
			continue
		}
		switch obj.ISA {
		case "PBXProject":
			return fmt.Sprintf("Build configuration list for PBXProject %q", w.proj.displayName())
		case "PBXNativeTarget", "PBXAggregateTarget", "PBXLegacyTarget":
			return fmt.Sprintf("Build configuration list for %s %q", obj.ISA, obj.Str("name"))
		}
	}
	return ""
}
