package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"revlint/internal/diagfmt"
	"revlint/internal/project"
	"revlint/internal/ui"
	"revlint/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [project-dir]",
	Short: "Re-lint a book project on every change to its source",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("no-ui", false, "print plain diagnostic lines instead of the live dashboard")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	noUI, err := cmd.Flags().GetBool("no-ui")
	if err != nil {
		return err
	}

	w, err := watch.New(proj, opts.run)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	ctx := cmd.Context()
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Stop()

	if noUI || !isTerminal(os.Stdout) {
		ui.RunPlain(os.Stdout, fmt.Sprintf("watching %s", sourceDir), w.Events(), diagfmt.PrettyOpts{Color: opts.useColor})
		return nil
	}

	model := ui.NewDashboard(fmt.Sprintf("watching %s", sourceDir), w.Events())
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, err = program.Run()
	return err
}
