// Package cmd implements the xcwidget CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (add, scaffold, status, targets, watch).
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ardonos/xcwidget/cmd/xcwidget/internal/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "xcwidget",
	Short: "xcwidget - widget extension targets without opening Xcode",
	Long: `xcwidget registers widget extension targets and shared source files
in an Xcode project descriptor (project.pbxproj). It covers the part of
adding a widget that Xcode makes manual: wiring sources into targets,
creating the extension target, and keeping both in sync as files appear.

Use "xcwidget <command> --help" for more information about a command.`,
	Usage: "xcwidget <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// configOverride holds the global --config flag value.
var configOverride string

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute() error {
	args := os.Args[1:]

	// Handle no arguments
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Handle global flags and extract --config
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Printf("xcwidget version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--config":
			if i+1 < len(args) {
				configOverride = args[i+1]
				i++
			} else {
				return fmt.Errorf("--config requires a file path")
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				configOverride = strings.TrimPrefix(arg, "--config=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		printHelp(rootCmd)
		return fmt.Errorf("unknown command %q", cmdName)
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// resolveConfig locates the project and resolves xcwidget.yaml, honoring
// the global --config override.
func resolveConfig() (*config.Resolved, error) {
	if configOverride != "" {
		return config.ResolveFile(configOverride)
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		return nil, err
	}
	return config.Resolve(root)
}

// resolveProjectConfig is resolveConfig with an explicit project path,
// which wins over workspace discovery.
func resolveProjectConfig(project string) (*config.Resolved, error) {
	if project == "" {
		return resolveConfig()
	}
	if configOverride != "" {
		cfg, err := config.ResolveFile(configOverride)
		if err != nil {
			return nil, err
		}
		if err := cfg.OverrideProject(project); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.ResolveProject(project)
}

func printHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
	fmt.Println()
	fmt.Println("Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Printf("  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -h, --help           Show help for a command")
	fmt.Println("  -v, --version        Show version information")
	fmt.Println("  --config FILE        Use an explicit configuration file (default: xcwidget.yaml, auto-discovered)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  xcwidget add                   Register shared sources with the app target")
	fmt.Println("  xcwidget add --create-target   Also create the widget extension target")
	fmt.Println("  xcwidget status                Show what is registered")
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
}
