package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"readmegen/internal/scan"
)

func scanCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Print the structural summary of a local directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			sum, err := scan.ScanDir(dir)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), sum, formatFlag)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "json", "output format: json, yaml")
	return cmd
}

func writeSummary(w io.Writer, sum scan.Summary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sum); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
}
