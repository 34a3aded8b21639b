package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/apimlint/apimlint/cmd/apimlint/commands"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// getVersionInfo returns version information, prioritizing ldflags values over build info
func getVersionInfo() (string, string, string) {
	if version != "dev" || commit != "none" || date != "unknown" {
		return version, commit, date
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}

	moduleVersion := version
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		moduleVersion = buildInfo.Main.Version
	}

	vcsCommit := commit
	vcsTime := date
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsCommit = setting.Value
			if len(vcsCommit) > 7 {
				vcsCommit = vcsCommit[:7]
			}
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	return moduleVersion, vcsCommit, vcsTime
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apimlint",
		Short: "Lint OpenAPI and Swagger documents against Azure API Management style rules",
		Long: `Lint OpenAPI and Swagger documents against Azure API Management style rules.

apimlint checks operation naming, response codes, schema shapes and the use of
the x-ms-* extensions. Rules can be tuned or extended with a lint.yaml file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	currentVersion, currentCommit, currentDate := getVersionInfo()
	rootCmd.Version = currentVersion

	var versionTemplate strings.Builder
	versionTemplate.WriteString(`{{printf "%s" .Version}}`)
	if currentCommit != "none" && currentCommit != "" {
		versionTemplate.WriteString("\nBuild: " + currentCommit)
	}
	if currentDate != "unknown" && currentDate != "" {
		versionTemplate.WriteString("\nBuilt: " + currentDate)
	}
	rootCmd.SetVersionTemplate(versionTemplate.String())

	rootCmd.AddCommand(commands.NewLintCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
