package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <definition> [values]",
		Short: "Validate a JSON or YAML values document against a definition",
		Long: `Fill a form from a values document and validate every field.

The values document is read from the given path, or from stdin when the path
is "-" or omitted. Nested maps address dotted field keys. The command exits
with an error when any field is invalid.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 2 {
				path = args[1]
			}
			return a.check(args[0], path, cmd.InOrStdin())
		},
	}
	cmd.Flags().Bool("quiet", false, "only report the outcome")
	return cmd
}

func (a *app) check(defPath, valuesPath string, stdin io.Reader) error {
	def, err := loadDefinition(defPath)
	if err != nil {
		return err
	}
	values, err := readValues(valuesPath, stdin)
	if err != nil {
		return err
	}

	f, err := def.NewForm(form.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := def.Fill(f, values); err != nil {
		return err
	}
	f.Validate(true)
	if loop := f.Loop(); loop != nil {
		loop.Drain()
	}

	res := tui.Collect(f)
	if !a.v.GetBool("quiet") {
		tui.WriteState(a.stdout, res)
	}
	level.Debug(a.logger).Log("msg", "values checked", "source", def.Source, "values", valuesPath, "valid", res.State.Valid)
	if !res.State.Valid {
		return errInvalid
	}
	return nil
}

func readValues(path string, stdin io.Reader) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read values %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err == nil {
		return values, nil
	}
	values = nil
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}
