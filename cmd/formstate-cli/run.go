package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/formconfig"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

var errInvalid = errors.New("form is invalid")

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <definition>",
		Short: "Prompt for every field of a definition and print the values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), def, nil)
		},
	}
	cmd.Flags().String("output-format", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	cmd.Flags().Int("max-attempts", 3, "how often an invalid answer is asked again")
	cmd.Flags().Bool("state", false, "print the field state table after the values")
	return cmd
}

func (a *app) run(ctx context.Context, def *formconfig.Definition, driver tui.PromptDriver) error {
	if ctx == nil {
		ctx = context.Background()
	}
	session, err := tui.New(def,
		tui.WithPromptDriver(driver),
		tui.WithOutput(a.stdout),
		tui.WithOutputFormat(tui.OutputFormat(a.v.GetString("output-format"))),
		tui.WithMaxAttempts(a.v.GetInt("max-attempts")),
		tui.WithLogger(a.logger),
		tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
	)
	if err != nil {
		return err
	}

	res, err := session.Run(ctx)
	if err != nil {
		return err
	}
	out, err := session.Encode(res)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(out))
	if a.v.GetBool("state") {
		tui.WriteState(a.stdout, res)
	}

	level.Info(a.logger).Log("msg", "form completed", "source", def.Source, "valid", res.State.Valid)
	if !res.State.Valid {
		return errInvalid
	}
	return nil
}

func loadDefinition(path string, opts ...formconfig.Option) (*formconfig.Definition, error) {
	return formconfig.LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path), opts...)
}
