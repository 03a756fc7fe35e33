package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"revlint/internal/diagfmt"
	"revlint/internal/lintrun"
	"revlint/internal/project"
)

var lintCmd = &cobra.Command{
	Use:   "lint [project-dir]",
	Short: "Run a single lint pass over a book project and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	baseDir := "."
	if len(args) == 1 {
		baseDir = args[0]
	}

	sourceDir, ok, err := project.GuessSourceDir(baseDir, -1)
	if err != nil {
		return fmt.Errorf("locating source directory: %w", err)
	}
	if !ok {
		return fmt.Errorf("no Re:VIEW project found under %q", baseDir)
	}

	opts, err := resolveOptions(cmd, sourceDir)
	if err != nil {
		return err
	}

	proj, err := project.LoadWithImageDir(sourceDir, opts.imageDir)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	if opts.trace {
		fmt.Fprintf(os.Stderr, "revlint: linting %d document(s) under %s\n", len(proj.AllDocuments()), sourceDir)
	}

	_, bag, err := lintrun.Run(cmd.Context(), proj, opts.run)
	if err != nil {
		return fmt.Errorf("lint run: %w", err)
	}

	switch opts.format {
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, diagfmt.JSONOpts{}); err != nil {
			return fmt.Errorf("formatting diagnostics: %w", err)
		}
	default:
		diagfmt.Pretty(os.Stdout, bag, diagfmt.PrettyOpts{Color: opts.useColor, Width: 0})
		if !opts.quiet {
			fmt.Fprintf(os.Stdout, "\n%d problem(s)\n", bag.Len())
		}
	}

	if bag.HasAtLeast(opts.unacceptableLevel) {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
