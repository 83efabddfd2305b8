package main

import (
	"errors"
	"time"

	"utxo-lens/pkg/types"
	"utxo-lens/pkg/validator"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *cliOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "validate [utxo.json]",
		Short: "Check an initial UTxO set and report the first violation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd)

			data, source, err := opts.loadDocument(cmd, args, log)
			if err != nil {
				return err
			}

			start := time.Now()
			out := validateDocument(data, all)
			out.Source = source
			log.Debug().Str("file", source).Dur("elapsed", time.Since(start)).Bool("ok", out.OK).Msg("validated")

			if err := printJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if !out.OK {
				log.Error().Str("code", out.Error.Code).Str("utxo", out.Error.UTxO).Msg(out.Error.Message)
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "report every violation instead of stopping at the first")
	return cmd
}

func validateDocument(data []byte, all bool) types.ValidationOutput {
	if all {
		snap, errs := validator.CheckAll(data)
		if len(errs) == 0 {
			return types.ValidationOutput{OK: true, UTxOCount: snap.Len()}
		}
		infos := make([]types.ErrorInfo, 0, len(errs))
		for _, e := range errs {
			infos = append(infos, errorInfo(e))
		}
		return types.ValidationOutput{OK: false, Error: &infos[0], Errors: infos}
	}

	snap, err := validator.Check(data)
	if err != nil {
		info := errorInfo(err)
		return types.ValidationOutput{OK: false, Error: &info}
	}
	return types.ValidationOutput{OK: true, UTxOCount: snap.Len()}
}

func errorInfo(err error) types.ErrorInfo {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return types.ErrorInfo{Code: string(verr.Code), Message: verr.Message, UTxO: verr.Ref}
	}
	return types.ErrorInfo{Code: "INTERNAL_ERROR", Message: err.Error()}
}
