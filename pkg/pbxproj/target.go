package pbxproj

import "fmt"

// Target is a build target registered with the project.
type Target struct {
	// ID is the target's object identifier.
	ID string
	// Name is the target's display name.
	Name string

	obj  *Object
	proj *Project
}

var targetISAs = map[string]bool{
	"PBXNativeTarget":    true,
	"PBXAggregateTarget": true,
	"PBXLegacyTarget":    true,
}

// Targets returns the project's targets in declaration order.
func (p *Project) Targets() []*Target {
	root := p.Root()
	if root == nil {
		return nil
	}
	var targets []*Target
	for _, id := range root.Strings("targets") {
		obj := p.Objects[id]
		if obj == nil || !targetISAs[obj.ISA] {
			continue
		}
		targets = append(targets, &Target{ID: id, Name: obj.Str("name"), obj: obj, proj: p})
	}
	return targets
}

// Target returns the named target, or nil when no such target exists.
func (p *Project) Target(name string) *Target {
	for _, t := range p.Targets() {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// ProductType returns the target's product type identifier, e.g.
// "com.apple.product-type.application".
func (t *Target) ProductType() string {
	return t.obj.Str("productType")
}

// Object returns the target's underlying descriptor object.
func (t *Target) Object() *Object {
	return t.obj
}

// configurations returns the target's build configurations in list order.
func (t *Target) configurations() []*Object {
	list := t.proj.Objects[t.obj.Str("buildConfigurationList")]
	if list == nil {
		return nil
	}
	var out []*Object
	for _, id := range list.Strings("buildConfigurations") {
		if cfg := t.proj.Objects[id]; cfg != nil {
			out = append(out, cfg)
		}
	}
	return out
}

// BuildSetting returns the value of a scalar build setting at the target
// level, preferring the Release configuration, or "" when the setting is
// not set on the target.
func (t *Target) BuildSetting(name string) string {
	configs := t.configurations()
	for _, cfg := range configs {
		if cfg.Str("name") != "Release" {
			continue
		}
		if v := stringValue(cfg.Dict("buildSettings")[name]); v != "" {
			return v
		}
	}
	for _, cfg := range configs {
		if v := stringValue(cfg.Dict("buildSettings")[name]); v != "" {
			return v
		}
	}
	return ""
}

// BuildPhase is one build phase of a target.
type BuildPhase struct {
	// ID is the phase's object identifier.
	ID string
	// Name is the phase's display name: Sources, Frameworks, Resources, or
	// the custom name of a copy-files or script phase.
	Name string

	obj *Object
}

// ISA returns the phase's class name.
func (b *BuildPhase) ISA() string {
	return b.obj.ISA
}

// FileIDs returns the identifiers of the phase's build file entries.
func (b *BuildPhase) FileIDs() []string {
	return b.obj.Strings("files")
}

// BuildPhases returns the target's build phases in declaration order.
func (t *Target) BuildPhases() []*BuildPhase {
	var phases []*BuildPhase
	for _, id := range t.obj.Strings("buildPhases") {
		obj := t.proj.Objects[id]
		if obj == nil {
			continue
		}
		phases = append(phases, &BuildPhase{ID: id, Name: phaseDisplayName(obj), obj: obj})
	}
	return phases
}

func phaseDisplayName(o *Object) string {
	switch o.ISA {
	case "PBXSourcesBuildPhase":
		return "Sources"
	case "PBXFrameworksBuildPhase":
		return "Frameworks"
	case "PBXResourcesBuildPhase":
		return "Resources"
	case "PBXHeadersBuildPhase":
		return "Headers"
	case "PBXShellScriptBuildPhase":
		if name := o.Str("name"); name != "" {
			return name
		}
		return "ShellScript"
	case "PBXCopyFilesBuildPhase":
		if name := o.Str("name"); name != "" {
			return name
		}
		return "CopyFiles"
	}
	return o.ISA
}

// sourcesPhase returns the target's compile sources phase, creating an empty
// one when the target has none.
func (t *Target) sourcesPhase() *Object {
	for _, id := range t.obj.Strings("buildPhases") {
		obj := t.proj.Objects[id]
		if obj != nil && obj.ISA == "PBXSourcesBuildPhase" {
			return obj
		}
	}
	id, obj := t.proj.addBuildPhase("PBXSourcesBuildPhase")
	t.obj.AppendID("buildPhases", id)
	return obj
}

func (p *Project) addBuildPhase(isa string) (string, *Object) {
	obj := newObject(isa)
	obj.Fields["buildActionMask"] = "2147483647"
	obj.Fields["files"] = []any{}
	obj.Fields["runOnlyForDeploymentPostprocessing"] = "0"
	id := p.nextID()
	p.Objects[id] = obj
	return id, obj
}

// WidgetTargetOptions configures AddWidgetExtensionTarget.
type WidgetTargetOptions struct {
	// Name is the new target's name, e.g. "AppWidgets".
	Name string
	// BundleID is the extension's bundle identifier, e.g.
	// "com.example.app.widgets".
	BundleID string
	// DeploymentTarget is the iOS deployment target. WidgetKit requires
	// 14.0 or later; empty defaults to "14.0".
	DeploymentTarget string
	// AppTarget names the host application target the extension embeds into.
	AppTarget string
}

// AddWidgetExtensionTarget creates a WidgetKit extension target and wires it
// into the host application: the native target with compile, link, and
// resource phases, Debug and Release configurations, the .appex product
// reference, the embed-extensions copy phase on the host target, and the
// target dependency that orders the two builds.
func (p *Project) AddWidgetExtensionTarget(opts WidgetTargetOptions) (*Target, error) {
	const op = "pbxproj.AddWidgetExtensionTarget"
	if opts.Name == "" {
		return nil, &Error{Op: op, Kind: KindUsage, Err: fmt.Errorf("widget target name is empty")}
	}
	if opts.BundleID == "" {
		return nil, &Error{Op: op, Kind: KindUsage, Err: fmt.Errorf("bundle identifier is empty")}
	}
	if opts.DeploymentTarget == "" {
		opts.DeploymentTarget = "14.0"
	}
	if p.Target(opts.Name) != nil {
		return nil, &Error{Op: op, Kind: KindTargetExists, Path: p.path, Err: fmt.Errorf("target %q already exists", opts.Name)}
	}
	app := p.Target(opts.AppTarget)
	if app == nil {
		return nil, &Error{Op: op, Kind: KindNoTarget, Path: p.path, Err: fmt.Errorf("application target %q not found", opts.AppTarget)}
	}

	// Product reference, listed in the project's Products group.
	productID := p.nextID()
	product := newObject("PBXFileReference")
	product.Fields["explicitFileType"] = "wrapper.app-extension"
	product.Fields["includeInIndex"] = "0"
	product.Fields["path"] = opts.Name + ".appex"
	product.Fields["sourceTree"] = "BUILT_PRODUCTS_DIR"
	p.Objects[productID] = product
	p.productsGroup().AppendID("children", productID)

	srcID, _ := p.addBuildPhase("PBXSourcesBuildPhase")
	fwID, _ := p.addBuildPhase("PBXFrameworksBuildPhase")
	resID, _ := p.addBuildPhase("PBXResourcesBuildPhase")

	listID := p.addConfigurationList(opts)

	targetID := p.nextID()
	target := newObject("PBXNativeTarget")
	target.Fields["buildConfigurationList"] = listID
	target.Fields["buildPhases"] = []any{srcID, fwID, resID}
	target.Fields["buildRules"] = []any{}
	target.Fields["dependencies"] = []any{}
	target.Fields["name"] = opts.Name
	target.Fields["productName"] = opts.Name
	target.Fields["productReference"] = productID
	target.Fields["productType"] = "com.apple.product-type.app-extension"
	p.Objects[targetID] = target
	p.Root().AppendID("targets", targetID)

	// The host app depends on the extension so the .appex is built before
	// the embed phase runs.
	proxyID := p.nextID()
	proxy := newObject("PBXContainerItemProxy")
	proxy.Fields["containerPortal"] = p.RootID
	proxy.Fields["proxyType"] = "1"
	proxy.Fields["remoteGlobalIDString"] = targetID
	proxy.Fields["remoteInfo"] = opts.Name
	p.Objects[proxyID] = proxy

	depID := p.nextID()
	dep := newObject("PBXTargetDependency")
	dep.Fields["target"] = targetID
	dep.Fields["targetProxy"] = proxyID
	p.Objects[depID] = dep
	app.obj.AppendID("dependencies", depID)

	embedFileID := p.nextID()
	embedFile := newObject("PBXBuildFile")
	embedFile.Fields["fileRef"] = productID
	embedFile.Fields["settings"] = map[string]any{"ATTRIBUTES": []any{"RemoveHeadersOnCopy"}}
	p.Objects[embedFileID] = embedFile
	p.embedExtensionsPhase(app).AppendID("files", embedFileID)

	return &Target{ID: targetID, Name: opts.Name, obj: target, proj: p}, nil
}

// productsGroup returns the group that holds product references, creating it
// when the project has none.
func (p *Project) productsGroup() *Object {
	root := p.Root()
	if id := root.Str("productRefGroup"); id != "" {
		if g := p.Objects[id]; g != nil {
			return g
		}
	}
	id := p.nextID()
	g := newObject("PBXGroup")
	g.Fields["children"] = []any{}
	g.Fields["name"] = "Products"
	g.Fields["sourceTree"] = "<group>"
	p.Objects[id] = g
	root.Fields["productRefGroup"] = id
	if mg := p.Objects[root.Str("mainGroup")]; mg != nil {
		mg.AppendID("children", id)
	}
	return g
}

func (p *Project) addConfigurationList(opts WidgetTargetOptions) string {
	debugID := p.addBuildConfiguration("Debug", opts, map[string]any{
		"DEBUG_INFORMATION_FORMAT":            "dwarf",
		"SWIFT_ACTIVE_COMPILATION_CONDITIONS": "DEBUG",
		"SWIFT_OPTIMIZATION_LEVEL":            "-Onone",
	})
	releaseID := p.addBuildConfiguration("Release", opts, map[string]any{
		"DEBUG_INFORMATION_FORMAT": "dwarf-with-dsym",
		"VALIDATE_PRODUCT":         "YES",
	})

	id := p.nextID()
	list := newObject("XCConfigurationList")
	list.Fields["buildConfigurations"] = []any{debugID, releaseID}
	list.Fields["defaultConfigurationIsVisible"] = "0"
	list.Fields["defaultConfigurationName"] = "Release"
	p.Objects[id] = list
	return id
}

func (p *Project) addBuildConfiguration(name string, opts WidgetTargetOptions, extra map[string]any) string {
	settings := map[string]any{
		"CODE_SIGN_STYLE":                        "Automatic",
		"CURRENT_PROJECT_VERSION":                "1",
		"GENERATE_INFOPLIST_FILE":                "YES",
		"INFOPLIST_FILE":                         opts.Name + "/Info.plist",
		"INFOPLIST_KEY_CFBundleDisplayName":      opts.Name,
		"INFOPLIST_KEY_NSHumanReadableCopyright": "",
		"IPHONEOS_DEPLOYMENT_TARGET":             opts.DeploymentTarget,
		"LD_RUNPATH_SEARCH_PATHS": []any{
			"$(inherited)",
			"@executable_path/Frameworks",
			"@executable_path/../../Frameworks",
		},
		"MARKETING_VERSION":         "1.0",
		"PRODUCT_BUNDLE_IDENTIFIER": opts.BundleID,
		"PRODUCT_NAME":              "$(TARGET_NAME)",
		"SKIP_INSTALL":              "YES",
		"SWIFT_EMIT_LOC_STRINGS":    "YES",
		"SWIFT_VERSION":             "5.0",
		"TARGETED_DEVICE_FAMILY":    "1,2",
	}
	for k, v := range extra {
		settings[k] = v
	}

	id := p.nextID()
	cfg := newObject("XCBuildConfiguration")
	cfg.Fields["buildSettings"] = settings
	cfg.Fields["name"] = name
	p.Objects[id] = cfg
	return id
}

// embedExtensionsPhase returns the host target's embed-extensions copy phase,
// creating one when the target has none. Xcode identifies the phase by
// dstSubfolderSpec 13 (PlugIns).
func (p *Project) embedExtensionsPhase(app *Target) *Object {
	for _, id := range app.obj.Strings("buildPhases") {
		obj := p.Objects[id]
		if obj != nil && obj.ISA == "PBXCopyFilesBuildPhase" && obj.Str("dstSubfolderSpec") == "13" {
			return obj
		}
	}
	id := p.nextID()
	phase := newObject("PBXCopyFilesBuildPhase")
	phase.Fields["buildActionMask"] = "2147483647"
	phase.Fields["dstPath"] = ""
	phase.Fields["dstSubfolderSpec"] = "13"
	phase.Fields["files"] = []any{}
	phase.Fields["name"] = "Embed Foundation Extensions"
	phase.Fields["runOnlyForDeploymentPostprocessing"] = "0"
	p.Objects[id] = phase
	app.obj.AppendID("buildPhases", id)
	return phase
}
