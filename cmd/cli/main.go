package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"utxo-lens/pkg/logger"
	"utxo-lens/pkg/runopts"
	"utxo-lens/pkg/types"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errReported means the failure was already written as a JSON envelope
var errReported = errors.New("failure reported")

type cliOptions struct {
	logLevel   string
	pretty     bool
	runOptions string
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			printError(root.OutOrStdout(), root.ErrOrStderr(), "INVALID_ARGS", err.Error())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "utxo-lens",
		Short:         "Validate and inspect offline initial UTxO sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "human readable logs")
	root.PersistentFlags().StringVar(&opts.runOptions, "run-options", "", "read the UTxO file path from a node run options file")

	root.AddCommand(newValidateCmd(opts), newAnalyzeCmd(opts))
	return root
}

func (o *cliOptions) logger(cmd *cobra.Command) zerolog.Logger {
	return logger.New("utxo-lens-cli", logger.Options{
		Level:  o.logLevel,
		Pretty: o.pretty,
		Writer: cmd.ErrOrStderr(),
	})
}

// loadDocument reads the UTxO document named on the command line or by the
// run options file. Failures are reported before returning errReported.
func (o *cliOptions) loadDocument(cmd *cobra.Command, args []string, log zerolog.Logger) ([]byte, string, error) {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if o.runOptions != "" {
		if len(args) > 0 {
			printError(stdout, stderr, "INVALID_ARGS", "pass either a UTxO file or --run-options, not both")
			return nil, "", errReported
		}

		opts, err := runopts.Load(o.runOptions)
		if err != nil {
			printError(stdout, stderr, "INVALID_CONFIG", err.Error())
			return nil, "", errReported
		}
		path, err := opts.InitialUTxOFile()
		if err != nil {
			printError(stdout, stderr, "INVALID_CONFIG", err.Error())
			return nil, "", errReported
		}
		log.Debug().Str("run_options", o.runOptions).Str("file", path).Msg("resolved initial UTxO file")

		data, err := opts.LoadInitialUTxO()
		if err != nil {
			printError(stdout, stderr, "FILE_NOT_FOUND", err.Error())
			return nil, "", errReported
		}
		return data, path, nil
	}

	if len(args) != 1 {
		printError(stdout, stderr, "INVALID_ARGS", "Usage: utxo-lens <validate|analyze> <utxo.json> or --run-options <options.json>")
		return nil, "", errReported
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		printError(stdout, stderr, "FILE_NOT_FOUND", fmt.Sprintf("Failed to read UTxO file: %v", err))
		return nil, "", errReported
	}
	log.Debug().Str("file", args[0]).Int("bytes", len(data)).Msg("read UTxO file")
	return data, args[0], nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printError(stdout, stderr io.Writer, code, message string) {
	type errorOutput struct {
		OK    bool             `json:"ok"`
		Error *types.ErrorInfo `json:"error"`
	}
	errOutput := errorOutput{
		OK: false,
		Error: &types.ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
	errJSON, _ := json.Marshal(errOutput)
	fmt.Fprintln(stdout, string(errJSON))
	fmt.Fprintf(stderr, "Error: %s\n", message)
}
