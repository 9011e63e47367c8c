package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "readmegen",
		Short:         "Generate README files for hosted repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetFormatter(&logger.TextFormatter{FullTimestamp: true})
			if verbose || os.Getenv("DEBUG") == "true" {
				logger.SetLevel(logger.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(generateCmd(), scanCmd())
	return root
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		logger.Fatalf("Error executing 'readmegen': %s", err)
	}
}
