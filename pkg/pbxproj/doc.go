// Package pbxproj reads, edits, and writes Xcode project descriptors
// (project.pbxproj files).
//
// A descriptor is an OpenStep-format property list holding a flat table of
// objects keyed by 24-character hexadecimal identifiers. Parsing is delegated
// to howett.net/plist; this package layers a typed view over the decoded
// object graph and serializes it back in the exact layout Xcode itself
// produces, so that edits show up as minimal diffs under version control.
//
// # Loading and Saving
//
// Load reads a descriptor from disk and Parse decodes one from memory:
//
//	proj, err := pbxproj.Load("App.xcodeproj/project.pbxproj")
//	if err != nil {
//	    return err
//	}
//	// ... edit ...
//	if err := proj.Save(); err != nil {
//	    return err
//	}
//
// Save rewrites the file only when the serialized form actually changed, so
// repeated runs of an editing tool leave both the file's bytes and its
// modification time untouched.
//
// # Editing
//
// The high-level mutators mirror the edits an iOS developer would perform in
// Xcode's target editor:
//
//	added, err := proj.AddSourceFile("App", "Shared/Models.swift")
//
// AddSourceFile registers a source file with a target's compile phase,
// creating the intermediate group hierarchy and file reference on first use
// and reporting added=false when the file is already registered. All
// mutators are idempotent: applying the same edit twice yields the same
// object graph as applying it once.
//
// AddWidgetExtensionTarget builds a complete widget extension target: the
// native target with its compile, link, and resource phases, Debug and
// Release build configurations, the .appex product reference, and the embed
// phase plus target dependency on the host application target.
//
// # Identity
//
// New objects receive random identifiers in Xcode's format. Existing
// identifiers are never rewritten, which keeps unrelated lines of the
// descriptor stable across edits.
package pbxproj
