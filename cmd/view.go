package cmd

import (
	"github.com/spf13/cobra"

	"tafscan.dev/pkg/tafscan/internal/domain"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <report>",
		Short: "View a previously saved report",
		Long:  "View a report written by 'tafscan analyze --output', in JSON or YAML.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflowFor(cmd).View(cmd.Context(), domain.ViewArgs{Report: m.Path(args[0])})
			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
