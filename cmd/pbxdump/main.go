// Command pbxdump prints a YAML summary of an Xcode project descriptor:
// object version, targets, build phases, and per-target source lists.
// It is a read-only inspection companion to xcwidget.
package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/adnsv/go-utils/filesystem"
	cli "github.com/jawher/mow.cli"
	"gopkg.in/yaml.v3"

	"github.com/ardonos/xcwidget/pkg/pbxproj"
)

type projectSummary struct {
	Project       string          `yaml:"project"`
	ObjectVersion string          `yaml:"object_version"`
	Targets       []targetSummary `yaml:"targets"`
}

type targetSummary struct {
	Name        string         `yaml:"name"`
	ProductType string         `yaml:"product_type,omitempty"`
	BundleID    string         `yaml:"bundle_id,omitempty"`
	Phases      []phaseSummary `yaml:"phases,omitempty"`
	Sources     []string       `yaml:"sources,omitempty"`
}

type phaseSummary struct {
	Name  string `yaml:"name"`
	Files int    `yaml:"files"`
}

func main() {
	project := ""
	outFN := ""

	app := cli.App("pbxdump", "Dump a summary of an Xcode project descriptor")
	app.Spec = "[-o=<OUTPUT-FILE>] PROJECT"
	app.StringOptPtr(&outFN, "o output", "", "write the summary to a file instead of stdout")
	app.StringArgPtr(&project, "PROJECT", "", "path to an .xcodeproj bundle or project.pbxproj")

	app.Action = func() {
		path := project
		if strings.HasSuffix(path, ".xcodeproj") {
			path = filepath.Join(path, "project.pbxproj")
		}

		proj, err := pbxproj.Load(path)
		if err != nil {
			log.Fatal(err)
		}

		summary := buildSummary(proj)
		buf, err := yaml.Marshal(&summary)
		if err != nil {
			log.Fatal(err)
		}

		if outFN != "" {
			if err := filesystem.WriteFileIfChanged(outFN, buf); err != nil {
				log.Fatal(err)
			}
			log.Printf("wrote %s\n", outFN)
		} else {
			os.Stdout.Write(buf)
		}
	}

	app.Run(os.Args)
}

func buildSummary(proj *pbxproj.Project) projectSummary {
	s := projectSummary{
		Project:       proj.Name(),
		ObjectVersion: proj.ObjectVersion,
	}
	for _, t := range proj.Targets() {
		ts := targetSummary{
			Name:        t.Name,
			ProductType: t.ProductType(),
			BundleID:    t.BuildSetting("PRODUCT_BUNDLE_IDENTIFIER"),
			Sources:     t.SourceFiles(),
		}
		for _, phase := range t.BuildPhases() {
			ts.Phases = append(ts.Phases, phaseSummary{Name: phase.Name, Files: len(phase.FileIDs())})
		}
		s.Targets = append(s.Targets, ts)
	}
	return s
}
