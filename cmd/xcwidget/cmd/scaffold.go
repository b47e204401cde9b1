package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ardonos/xcwidget/cmd/xcwidget/internal/scaffold"
	"github.com/ardonos/xcwidget/pkg/pbxproj"
)

func init() {
	RegisterCommand(&Command{
		Name:  "scaffold",
		Short: "Write starter widget sources from templates",
		Long: `Write the widget extension's starter sources: a WidgetBundle entry
point, a timeline widget, and the extension Info.plist, under
<widget target>/ next to the .xcodeproj bundle.

The generated files match the defaults "xcwidget add" registers, so the
usual flow is scaffold first, then add --create-target.

Flags:
  --force   Overwrite an existing widget directory (creates backup)`,
		Usage: "xcwidget scaffold [--force]",
		Run:   runScaffold,
	})
}

func runScaffold(args []string) error {
	force := false
	for _, arg := range args {
		switch arg {
		case "--force":
			force = true
		default:
			return fmt.Errorf("unknown argument %q\n\nUsage: xcwidget scaffold [--force]", arg)
		}
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	// Template defaults come from the app target's build settings when the
	// descriptor is readable; scaffolding still works without them.
	appBundleID, appDeploymentTarget := "", ""
	if proj, err := pbxproj.Load(cfg.ProjectPath); err == nil {
		if app := proj.Target(cfg.AppTarget); app != nil {
			appBundleID = app.BuildSetting("PRODUCT_BUNDLE_IDENTIFIER")
			appDeploymentTarget = app.BuildSetting("IPHONEOS_DEPLOYMENT_TARGET")
		}
	}
	cfg.ApplyProjectDefaults(appBundleID, appDeploymentTarget)

	res, err := scaffold.WriteWidget(cfg.SourceRoot, scaffold.Settings{
		AppName:          cfg.AppTarget,
		WidgetTarget:     cfg.WidgetTarget,
		BundleID:         cfg.WidgetBundleID,
		DeploymentTarget: cfg.DeploymentTarget,
		Force:            force,
	})
	if err != nil {
		return err
	}

	if res.Backup != "" {
		fmt.Printf("Backed up %s to %s\n", filepath.Join(cfg.SourceRoot, res.Dir), res.Backup)
	}
	for _, f := range res.Files {
		fmt.Printf("  Wrote %s\n", f)
	}
	fmt.Println()
	fmt.Printf("Scaffolded widget sources in %s/.\n", res.Dir)
	fmt.Println(`Run "xcwidget add --create-target" to register them.`)
	return nil
}
