package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the autocov build version, the VCS revision it was built from and the Go version.",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()
			cmd.Print(formatBuildInfo(info))
		},
	}
}

// formatBuildInfo renders the module version and the vcs.* build settings.
func formatBuildInfo(info *debug.BuildInfo) string {
	if info == nil {
		return "autocov version unknown\n"
	}

	version := info.Main.Version
	if version == "" {
		version = "unknown"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "autocov %s\n", version)
	fmt.Fprintf(&b, "go      %s\n", info.GoVersion)

	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}

	if revision := settings["vcs.revision"]; revision != "" {
		if settings["vcs.modified"] == "true" {
			revision += " (modified)"
		}

		fmt.Fprintf(&b, "commit  %s\n", revision)
	}

	if built := settings["vcs.time"]; built != "" {
		fmt.Fprintf(&b, "date    %s\n", built)
	}

	return b.String()
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
