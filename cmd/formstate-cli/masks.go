package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/masks"
)

func (a *app) masksCmd() *cobra.Command {
	reg := masks.NewRegistry()
	cmd := &cobra.Command{
		Use:   "masks",
		Short: "List the built-in masks",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, name := range reg.Names() {
				fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "apply <names> <value>",
		Short: "Apply comma separated masks to a value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			fn, unknown, ok := reg.Resolve(strings.Split(args[0], ",")...)
			if !ok {
				return fmt.Errorf("unknown mask %q", unknown)
			}
			fmt.Fprintln(a.stdout, fn(args[1]))
			return nil
		},
	})
	return cmd
}
