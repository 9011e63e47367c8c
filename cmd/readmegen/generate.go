package main

import (
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"readmegen/internal/gateway/app"
	"readmegen/internal/gateway/config"
)

func generateCmd() *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "generate <repo-url>",
		Short: "Fetch a repository and generate its README",
		Long: `Download the repository archive, scan its structure, ask the model for an
overview and installation instructions, and print the assembled README.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := logger.StandardLogger()

			client, err := app.NewLLMClient(cmd.Context(), cfg.LLM, log)
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := app.NewService(cfg, client, nil, log).Generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outputFlag == "" || outputFlag == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Readme)
				return err
			}
			if err := os.WriteFile(outputFlag, []byte(res.Readme), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outputFlag, err)
			}
			log.Infof("README written to %s", outputFlag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file (default stdout)")
	return cmd
}
