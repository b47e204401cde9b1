package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/adnsv/go-utils/filesystem"

	"github.com/ardonos/xcwidget/cmd/xcwidget/internal/config"
	"github.com/ardonos/xcwidget/pkg/pbxproj"
)

func init() {
	RegisterCommand(&Command{
		Name:  "status",
		Short: "Show registration status for configured sources",
		Long: `Show which configured sources are registered in the project.

For each widget and shared source, reports whether the file is missing
on disk, on disk but unregistered, or compiled into its target(s).
Shared sources are expected in both the app and widget targets once the
widget target exists.`,
		Usage: "xcwidget status",
		Run:   runStatus,
	})
}

func runStatus(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown argument %q\n\nUsage: xcwidget status", args[0])
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	proj, err := pbxproj.Load(cfg.ProjectPath)
	if err != nil {
		return err
	}

	app := proj.Target(cfg.AppTarget)
	if app == nil {
		return fmt.Errorf("app target %q not found in %s", cfg.AppTarget, cfg.ProjectPath)
	}
	widget := proj.Target(cfg.WidgetTarget)

	fmt.Printf("Project:       %s\n", cfg.ProjectPath)
	fmt.Printf("App target:    %s\n", cfg.AppTarget)
	if widget != nil {
		fmt.Printf("Widget target: %s (present)\n", cfg.WidgetTarget)
	} else {
		fmt.Printf("Widget target: %s (not created; see \"xcwidget add --create-target\")\n", cfg.WidgetTarget)
	}
	fmt.Println()

	fmt.Println("Widget sources:")
	printSourceLines(cfg.WidgetSources, func(source string) string {
		return widgetSourceState(cfg, widget, source)
	})
	fmt.Println()

	fmt.Println("Shared sources:")
	printSourceLines(cfg.SharedSources, func(source string) string {
		return sharedSourceState(cfg, app, widget, source)
	})

	return nil
}

func printSourceLines(sources []string, state func(string) string) {
	if len(sources) == 0 {
		fmt.Println("  (none configured)")
		return
	}
	for _, source := range sources {
		fmt.Printf("  %-13s %s\n", state(source)+":", source)
	}
}

func widgetSourceState(cfg *config.Resolved, widget *pbxproj.Target, source string) string {
	if !filesystem.FileExists(filepath.Join(cfg.SourceRoot, source)) {
		return "missing"
	}
	if widget == nil {
		return "on disk"
	}
	if widget.HasSourceFile(source) {
		return "registered"
	}
	return "unregistered"
}

func sharedSourceState(cfg *config.Resolved, app, widget *pbxproj.Target, source string) string {
	if !filesystem.FileExists(filepath.Join(cfg.SourceRoot, source)) {
		return "missing"
	}

	inApp := app.HasSourceFile(source)
	if widget == nil {
		if inApp {
			return "registered"
		}
		return "unregistered"
	}

	inWidget := widget.HasSourceFile(source)
	switch {
	case inApp && inWidget:
		return "both targets"
	case inApp:
		return "app only"
	case inWidget:
		return "widget only"
	}
	return "unregistered"
}
