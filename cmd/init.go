package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tafscan.dev/pkg/tafscan/internal/adapter"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

const projectFlagName = "project"

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a default tafscan.yaml configuration file",
		Long: `Create a tafscan.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually.

With --project, write a .tafscan.yaml project configuration (exclude_checks,
ignore_paths, api_test_patterns) into the analysed root instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _ := cmd.Flags().GetBool(projectFlagName)
			if project {
				return writeProjectConfig(cmd, args)
			}

			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Println("Wrote", targetPath)

			return nil
		},
	}

	cmd.Flags().Bool(projectFlagName, false, "write a project configuration into the analysed root")

	return cmd
}

func writeProjectConfig(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	store := adapter.NewProjectConfigStore(adapter.NewLocalSourceFSAdapter())

	path, err := store.Save(m.Path(root), m.DefaultProjectConfig())
	if err != nil {
		return fmt.Errorf("failed to write project config: %w", err)
	}

	cmd.Println("Wrote", path)

	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
