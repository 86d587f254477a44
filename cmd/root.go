package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"inmo-pipeline/utils"
)

var (
	logger  = utils.NewLogger()
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "inmo-pipeline",
	Short: "Ingest real-estate XML exports and build the monthly summary tables",
	Long: `inmo-pipeline reads the agency's XML exports (INMUEBLES, DEMANDAS,
OPERACIONES) from a folder or a ZIP archive, normalizes them, computes
per-transaction commissions, and aggregates everything into the monthly
summary tables the dashboard consumes.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
