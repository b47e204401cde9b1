package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/adnsv/go-utils/filesystem"

	"github.com/ardonos/xcwidget/cmd/xcwidget/internal/config"
	"github.com/ardonos/xcwidget/cmd/xcwidget/internal/watcher"
	"github.com/ardonos/xcwidget/pkg/pbxproj"
)

func init() {
	RegisterCommand(&Command{
		Name:  "watch",
		Short: "Re-register sources when they change",
		Long: `Watch the configured source directories and re-run the add flow
whenever Swift sources appear or change. Useful while building out a
widget: new files are registered as soon as they land on disk.

The watch runs until interrupted (Ctrl-C). Each pass re-reads the
configuration, reloads the descriptor, registers any unregistered
sources, and saves only when something changed. The widget target is
never created here; run "xcwidget add --create-target" for that.

Flags:
  --debounce DURATION   Quiet period before re-running (default 500ms)`,
		Usage: "xcwidget watch [--debounce DURATION]",
		Run:   runWatch,
	})
}

func runWatch(args []string) error {
	var debounce time.Duration
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--debounce":
			if i+1 >= len(args) {
				return fmt.Errorf("--debounce requires a duration")
			}
			d, err := time.ParseDuration(args[i+1])
			if err != nil {
				return fmt.Errorf("invalid --debounce value %q: %w", args[i+1], err)
			}
			debounce = d
			i++
		case strings.HasPrefix(arg, "--debounce="):
			d, err := time.ParseDuration(strings.TrimPrefix(arg, "--debounce="))
			if err != nil {
				return fmt.Errorf("invalid --debounce value %q: %w", strings.TrimPrefix(arg, "--debounce="), err)
			}
			debounce = d
		default:
			return fmt.Errorf("unknown argument %q\n\nUsage: xcwidget watch [--debounce DURATION]", arg)
		}
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	// One pass up front so the watch starts from a registered state.
	if err := registerPass(); err != nil {
		return err
	}

	dirs := watchDirs(cfg)
	fmt.Printf("Watching for Swift changes under %s (Ctrl-C to stop)\n", strings.Join(dirs, ", "))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = watcher.Watch(ctx, watcher.Options{
		Dirs:     dirs,
		Debounce: debounce,
		OnChange: func(_ context.Context, paths []string) error {
			fmt.Printf("\nChange detected (%d files)\n", len(paths))
			return registerPass()
		},
	})
	if err != nil {
		return err
	}

	fmt.Println("\nStopped.")
	return nil
}

// registerPass re-resolves the configuration and registers any
// unregistered configured sources, printing only what changed. Repeating
// "already registered" lines every pass would drown the signal.
func registerPass() error {
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

	added := 0
	register := func(sources []string, targetName string) error {
		for _, source := range sources {
			if !filesystem.FileExists(filepath.Join(cfg.SourceRoot, source)) {
				continue
			}
			ok, err := proj.AddSourceFile(targetName, source)
			if err != nil {
				return err
			}
			if ok {
				fmt.Printf("  Added %s to %s target\n", source, targetName)
				added++
			}
		}
		return nil
	}

	if err := register(cfg.SharedSources, cfg.AppTarget); err != nil {
		return err
	}
	if widget != nil {
		if err := register(cfg.WidgetSources, cfg.WidgetTarget); err != nil {
			return err
		}
		if err := register(cfg.SharedSources, cfg.WidgetTarget); err != nil {
			return err
		}
	}

	if added == 0 {
		fmt.Println("  Nothing to register.")
		return nil
	}
	return proj.Save()
}

// watchDirs collects the directories holding configured sources, plus the
// conventional widget and Shared directories so newly created files are
// picked up before they appear in the configuration.
func watchDirs(cfg *config.Resolved) []string {
	set := map[string]struct{}{
		filepath.Join(cfg.SourceRoot, cfg.WidgetTarget): {},
		filepath.Join(cfg.SourceRoot, "Shared"):         {},
	}
	for _, source := range cfg.WidgetSources {
		set[filepath.Join(cfg.SourceRoot, filepath.Dir(source))] = struct{}{}
	}
	for _, source := range cfg.SharedSources {
		set[filepath.Join(cfg.SourceRoot, filepath.Dir(source))] = struct{}{}
	}

	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}
