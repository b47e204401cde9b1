package cmd

import (
	"fmt"
	"strings"

	"github.com/ardonos/xcwidget/pkg/pbxproj"
)

func init() {
	RegisterCommand(&Command{
		Name:  "targets",
		Short: "List the project's build targets",
		Long: `List the build targets in the project descriptor, with product
types, bundle identifiers, and source file counts.

Use this to check the app target name xcwidget resolved, or to verify
that a widget extension target was created.`,
		Usage: "xcwidget targets",
		Run:   runTargets,
	})
}

func runTargets(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown argument %q\n\nUsage: xcwidget targets", args[0])
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	proj, err := pbxproj.Load(cfg.ProjectPath)
	if err != nil {
		return err
	}

	targets := proj.Targets()
	fmt.Printf("Targets in %s:\n", proj.Name())
	fmt.Println()
	if len(targets) == 0 {
		fmt.Println("  (none)")
		return nil
	}

	for i, t := range targets {
		if label := productTypeLabel(t.ProductType()); label != "" {
			fmt.Printf("  [%d] %s (%s)\n", i+1, t.Name, label)
		} else {
			fmt.Printf("  [%d] %s\n", i+1, t.Name)
		}
		if bundleID := t.BuildSetting("PRODUCT_BUNDLE_IDENTIFIER"); bundleID != "" {
			fmt.Printf("      bundle:  %s\n", bundleID)
		}
		fmt.Printf("      sources: %d\n", len(t.SourceFiles()))
	}

	return nil
}

// productTypeLabel shortens Apple's reverse-DNS product types for display.
func productTypeLabel(productType string) string {
	switch productType {
	case "":
		return ""
	case "com.apple.product-type.application":
		return "app"
	case "com.apple.product-type.app-extension":
		return "app extension"
	case "com.apple.product-type.framework":
		return "framework"
	case "com.apple.product-type.bundle.unit-test":
		return "unit tests"
	case "com.apple.product-type.bundle.ui-testing":
		return "ui tests"
	}
	return strings.TrimPrefix(productType, "com.apple.product-type.")
}
