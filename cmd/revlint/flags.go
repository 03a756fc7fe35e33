package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"revlint/internal/diag"
	"revlint/internal/lintcfg"
	"revlint/internal/lintrun"
	"revlint/internal/markup/docparser"
	"revlint/internal/trace"
)

// resolvedOptions bundles every run's severity, format, and project
// overrides after merging .revlint.toml defaults with command-line flags.
type resolvedOptions struct {
	run               lintrun.Options
	unacceptableLevel diag.Severity
	format            string
	useColor          bool
	imageDir          string
	quiet             bool
	trace             bool
}

func resolveOptions(cmd *cobra.Command, sourceDir string) (resolvedOptions, error) {
	cfg, err := lintcfg.Load(sourceDir)
	if err != nil {
		return resolvedOptions{}, err
	}
	docparser.ExtendKnown(cfg.ExtraInlines, cfg.ExtraBlocks)

	ignoreLevel := cfg.IgnoreLevel
	if cmd.Flags().Changed("ignore-level") {
		s, _ := cmd.Flags().GetString("ignore-level")
		sev, ok := diag.ParseSeverity(s)
		if !ok {
			return resolvedOptions{}, fmt.Errorf("unrecognised --ignore-level %q", s)
		}
		ignoreLevel = sev
	}

	unacceptableLevel := cfg.UnacceptableLevel
	if cmd.Flags().Changed("unacceptable-level") {
		s, _ := cmd.Flags().GetString("unacceptable-level")
		sev, ok := diag.ParseSeverity(s)
		if !ok {
			return resolvedOptions{}, fmt.Errorf("unrecognised --unacceptable-level %q", s)
		}
		unacceptableLevel = sev
	}

	imageDir := cfg.ImageDir
	if s, _ := cmd.Flags().GetString("image-dir"); s != "" {
		imageDir = s
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return resolvedOptions{}, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return resolvedOptions{}, err
	}
	if format != "pretty" && format != "json" {
		return resolvedOptions{}, fmt.Errorf("unrecognised --format %q", format)
	}

	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return resolvedOptions{}, err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return resolvedOptions{}, err
	}
	traceOn, err := cmd.Flags().GetBool("trace")
	if err != nil {
		return resolvedOptions{}, err
	}

	runOpts := lintrun.Options{
		Jobs:           jobs,
		IgnoreLevel:    ignoreLevel,
		AbortLevel:     unacceptableLevel,
		DisabledChecks: cfg.DisabledChecks,
	}
	if traceOn {
		runOpts.Tracer = trace.NewWriterTracer(os.Stderr)
	}

	return resolvedOptions{
		run:               runOpts,
		unacceptableLevel: unacceptableLevel,
		format:            format,
		useColor:          useColor,
		imageDir:          imageDir,
		quiet:             quiet,
		trace:             traceOn,
	}, nil
}
