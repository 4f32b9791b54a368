package cmd

import (
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"tafscan.dev/pkg/tafscan/internal/frontend"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the tafscan build version, the Go version and the source extensions this build can parse.",
		Run: func(cmd *cobra.Command, _ []string) {
			extensions := strings.Join(frontend.DefaultRegistry().Extensions(), " ")

			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				cmd.Println("extensions\t", extensions)

				return
			}

			cmd.Println("tafscan version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)
			cmd.Println("extensions\t", extensions)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
