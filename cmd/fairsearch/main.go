package main

// #region imports
import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// #endregion

var (
	version = "dev"
	commit  = "none"
)

// #region main

func main() {
	rootCmd := &cobra.Command{
		Use:   "fairsearch",
		Short: "Bias-aware hyperparameter grid search",
		Long: `fairsearch runs cross-validated hyperparameter search over a binary
classifier, scoring every configuration on accuracy and group-fairness bias,
then selects and retrains a final model under a configurable trade-off policy.

Run 'fairsearch run -c config.yaml' to execute a search.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")

	rootCmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// #endregion

// #region version

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fairsearch %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
		},
	}
}

// #endregion
