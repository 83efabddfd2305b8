package main

import (
	"fmt"
	"os"
	"path/filepath"

	"utxo-lens/pkg/analyzer"
	"utxo-lens/pkg/types"
	"utxo-lens/pkg/validator"

	"github.com/spf13/cobra"
)

const analysisFile = "analysis.json"

func newAnalyzeCmd(opts *cliOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "analyze [utxo.json]",
		Short: "Validate an initial UTxO set and summarize its contents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd)

			data, source, err := opts.loadDocument(cmd, args, log)
			if err != nil {
				return err
			}

			snap, err := validator.Check(data)
			if err != nil {
				info := errorInfo(err)
				if err := printJSON(cmd.OutOrStdout(), types.AnalysisOutput{OK: false, Source: source, Error: &info}); err != nil {
					return err
				}
				log.Error().Str("code", info.Code).Str("utxo", info.UTxO).Msg(info.Message)
				return errReported
			}

			report := analyzer.Analyze(snap)
			report.Source = source
			for _, w := range report.Warnings {
				log.Warn().Str("code", w.Code).Str("utxo", w.UTxO).Msg("snapshot warning")
			}

			// Write to file
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					printError(cmd.OutOrStdout(), cmd.ErrOrStderr(), "IO_ERROR", fmt.Sprintf("Failed to create output directory: %v", err))
					return errReported
				}
				outputJSON, _ := json.MarshalIndent(report, "", "  ")
				outputPath := filepath.Join(outDir, analysisFile)
				if err := os.WriteFile(outputPath, outputJSON, 0644); err != nil {
					printError(cmd.OutOrStdout(), cmd.ErrOrStderr(), "IO_ERROR", fmt.Sprintf("Failed to write output file: %v", err))
					return errReported
				}
				log.Debug().Str("path", outputPath).Msg("wrote analysis")
			}

			// Print to stdout
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "out", "directory for analysis.json (empty to skip writing)")
	return cmd
}
