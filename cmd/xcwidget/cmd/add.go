package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adnsv/go-utils/filesystem"

	"github.com/ardonos/xcwidget/cmd/xcwidget/internal/config"
	"github.com/ardonos/xcwidget/pkg/pbxproj"
)

func init() {
	RegisterCommand(&Command{
		Name:  "add",
		Short: "Register widget and shared sources in the project",
		Long: `Register the configured shared sources with the host application
target, and optionally create the widget extension target.

By default the command mirrors the manual Xcode workflow: shared sources
are compiled into the app target, and instructions are printed for
creating the widget extension target in Xcode by hand. With
--create-target the extension target is created in the descriptor
directly, widget sources are compiled into it, and shared sources are
compiled into both targets.

Running add twice is safe: an existing widget target short-circuits the
run, and already-registered sources are left alone. Sources missing on
disk are skipped with a note; a missing file never aborts the run.

Flags:
  --project PATH    Override the project (.xcodeproj or project.pbxproj)
  --create-target   Create the widget extension target in the descriptor
  --dry-run         Report what would change without saving`,
		Usage: "xcwidget add [--project PATH] [--create-target] [--dry-run]",
		Run:   runAdd,
	})
}

type addOptions struct {
	project      string
	createTarget bool
	dryRun       bool
}

func parseAddArgs(args []string) (addOptions, error) {
	var opts addOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--create-target":
			opts.createTarget = true
		case arg == "--dry-run":
			opts.dryRun = true
		case arg == "--project":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--project requires a path")
			}
			opts.project = args[i+1]
			i++
		case strings.HasPrefix(arg, "--project="):
			opts.project = strings.TrimPrefix(arg, "--project=")
		default:
			return opts, fmt.Errorf("unknown argument %q\n\nUsage: xcwidget add [--project PATH] [--create-target] [--dry-run]", arg)
		}
	}
	return opts, nil
}

func runAdd(args []string) error {
	opts, err := parseAddArgs(args)
	if err != nil {
		return err
	}

	cfg, err := resolveProjectConfig(opts.project)
	if err != nil {
		return err
	}

	fmt.Printf("Loading project: %s\n", cfg.ProjectPath)
	proj, err := pbxproj.Load(cfg.ProjectPath)
	if err != nil {
		return err
	}

	app := proj.Target(cfg.AppTarget)
	if app == nil {
		return fmt.Errorf("app target %q not found in %s", cfg.AppTarget, cfg.ProjectPath)
	}
	cfg.ApplyProjectDefaults(
		app.BuildSetting("PRODUCT_BUNDLE_IDENTIFIER"),
		app.BuildSetting("IPHONEOS_DEPLOYMENT_TARGET"),
	)

	// Idempotent short-circuit: a second run is a no-op.
	if proj.Target(cfg.WidgetTarget) != nil {
		fmt.Printf("Target %q already exists. Skipping.\n", cfg.WidgetTarget)
		return nil
	}

	if opts.createTarget {
		return addWithTarget(proj, cfg, opts)
	}
	return addSharedOnly(proj, cfg, opts)
}

// addSharedOnly is the manual-Xcode workflow: shared sources go into the
// app target and the widget target is left for the IDE.
func addSharedOnly(proj *pbxproj.Project, cfg *config.Resolved, opts addOptions) error {
	fmt.Println("Adding shared source files...")
	if err := registerSources(proj, cfg.SourceRoot, cfg.SharedSources, cfg.AppTarget); err != nil {
		return err
	}

	if err := saveProject(proj, opts.dryRun); err != nil {
		return err
	}

	fmt.Printf("Done! Shared files added to main %s target.\n", cfg.AppTarget)
	fmt.Println()
	printManualInstructions(cfg)
	return nil
}

func addWithTarget(proj *pbxproj.Project, cfg *config.Resolved, opts addOptions) error {
	fmt.Printf("Creating widget extension target %q...\n", cfg.WidgetTarget)
	if _, err := proj.AddWidgetExtensionTarget(pbxproj.WidgetTargetOptions{
		Name:             cfg.WidgetTarget,
		BundleID:         cfg.WidgetBundleID,
		DeploymentTarget: cfg.DeploymentTarget,
		AppTarget:        cfg.AppTarget,
	}); err != nil {
		return err
	}

	fmt.Println("Adding widget source files...")
	if err := registerSources(proj, cfg.SourceRoot, cfg.WidgetSources, cfg.WidgetTarget); err != nil {
		return err
	}

	fmt.Println("Adding shared source files...")
	if err := registerSources(proj, cfg.SourceRoot, cfg.SharedSources, cfg.AppTarget); err != nil {
		return err
	}
	if err := registerSources(proj, cfg.SourceRoot, cfg.SharedSources, cfg.WidgetTarget); err != nil {
		return err
	}

	if err := saveProject(proj, opts.dryRun); err != nil {
		return err
	}

	fmt.Printf("Done! Widget extension target %q created.\n", cfg.WidgetTarget)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  - Review signing settings for %s in Xcode.\n", cfg.WidgetTarget)
	fmt.Printf("  - Build the %s scheme to verify the widget compiles.\n", cfg.WidgetTarget)
	return nil
}

// registerSources compiles each configured source into the named target,
// one status line per source. Sources missing on disk are skipped.
func registerSources(proj *pbxproj.Project, sourceRoot string, sources []string, targetName string) error {
	for _, source := range sources {
		if !filesystem.FileExists(filepath.Join(sourceRoot, source)) {
			fmt.Printf("  Skipping %s (not found on disk)\n", source)
			continue
		}
		added, err := proj.AddSourceFile(targetName, source)
		if err != nil {
			return err
		}
		if added {
			fmt.Printf("  Added %s to %s target\n", source, targetName)
		} else {
			fmt.Printf("  %s already in %s target\n", source, targetName)
		}
	}
	return nil
}

func saveProject(proj *pbxproj.Project, dryRun bool) error {
	if dryRun {
		fmt.Println("Dry run: project not saved.")
		return nil
	}
	fmt.Println("Saving project...")
	return proj.Save()
}

func printManualInstructions(cfg *config.Resolved) {
	fmt.Printf("NOTE: The widget extension target (%s) needs to be added\n", cfg.WidgetTarget)
	fmt.Println("through Xcode: File > New > Target > Widget Extension.")
	fmt.Println("Then add the widget source files to that target.")
	fmt.Println()
	fmt.Println("Widget files to add:")
	for _, source := range cfg.WidgetSources {
		fmt.Printf("  - %s\n", source)
	}
	for _, source := range cfg.SharedSources {
		fmt.Printf("  - %s (add to BOTH targets)\n", source)
	}
	fmt.Println()
	fmt.Println(`Or run "xcwidget add --create-target" to do this without Xcode.`)
}
