package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "agastya",
	Short: "Conversational assistant for healthcare professionals",
	Long: `Agastya is a conversational assistant for healthcare professionals on
the ZoomRx panel. It routes each question to the right capability:
medical research retrieval, personal panel data, medical conference
search, or the ZoomRx product knowledge base.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".agastya.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
