package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

type violation struct {
	file    string
	message string
}

func (a *app) lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <paths...>",
		Short: "Check that definition files load and build a form",
		Long: `Load every .json, .yaml and .yml definition under the given paths and
build a form from it. Unknown masks, rules and types, bad defaults and
duplicate keys are reported per file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			violations, checked, err := a.lint(args)
			if err != nil {
				return err
			}
			for _, v := range violations {
				fmt.Fprintf(a.stderr, "%s: %s\n", v.file, v.message)
			}
			level.Info(a.logger).Log("msg", "lint finished", "files", checked, "violations", len(violations))
			if len(violations) > 0 {
				return fmt.Errorf("%d of %d definition(s) failed lint", len(violations), checked)
			}
			fmt.Fprintf(a.stdout, "%d definition(s) ok\n", checked)
			return nil
		},
	}
}

func (a *app) lint(paths []string) ([]violation, int, error) {
	var (
		violations []violation
		checked    int
	)
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || !isDefinitionFile(path) {
				return nil
			}
			checked++
			if msg := lintFile(path); msg != "" {
				violations = append(violations, violation{file: path, message: msg})
			}
			return nil
		})
		if err != nil {
			return nil, checked, fmt.Errorf("lint %s: %w", root, err)
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			return violations[i].message < violations[j].message
		}
		return violations[i].file < violations[j].file
	})
	return violations, checked, nil
}

func lintFile(path string) string {
	def, err := loadDefinition(path)
	if err != nil {
		return err.Error()
	}
	f, err := def.NewForm()
	if err != nil {
		return err.Error()
	}
	f.Close()
	if len(def.Fields) == 0 {
		return "definition has no fields"
	}
	return ""
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
