package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caster-engine/engine"
	"caster-engine/internal/diagnostic"
	"caster-engine/internal/errors"
	"caster-engine/internal/logger"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build the engine and report unmapped or unsupported members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.check(cmd, cmd.OutOrStdout())
		},
	}
}

func (a *app) check(cmd *cobra.Command, out io.Writer) error {
	e, err := a.engine()
	if err != nil {
		var cfgErr *engine.ConfigurationError
		if errors.As(err, &cfgErr) {
			printDiagnostics(out, cfgErr.Diagnostics)
		}

		return err
	}

	if a.settings.CompileAll {
		if err := e.CompileAll(cmd.Context()); err != nil {
			return errors.Wrap(err, "compile plans")
		}
	}

	diag := e.Validate()
	printDiagnostics(out, diag)

	fmt.Fprintf(out, "%d rules: %d errors, %d warnings\n", len(e.TypeMaps()), len(diag.Errors), len(diag.Warnings))

	a.log.Debug("check finished",
		zap.Int(logger.FieldCount, len(e.TypeMaps())),
		zap.Bool("strict", a.settings.Strict))

	if a.settings.Strict {
		return e.AssertValid()
	}

	return nil
}

func printDiagnostics(out io.Writer, diag diagnostic.Diagnostics) {
	for _, d := range diag.Errors {
		fmt.Fprintln(out, "error:", d)
	}

	for _, d := range diag.Warnings {
		fmt.Fprintln(out, "warning:", d)
	}

	for _, d := range diag.Infos {
		fmt.Fprintln(out, "info:", d)
	}
}
