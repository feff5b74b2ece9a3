package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zoomrx/agastya/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize agastya configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the assistant and generates a .agastya.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
