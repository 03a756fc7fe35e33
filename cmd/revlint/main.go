// Command revlint checks a Re:VIEW-style book source tree for structural
// and markup problems: unknown inline/block commands, malformed nesting,
// dangling cross-references, and unmapped images.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "revlint",
	Short: "Lint a Re:VIEW-style book project",
	Long:  `revlint checks a book's markup, catalog, and image associations for problems before you build it.`,
}

func main() {
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(watchCmd)

	rootCmd.PersistentFlags().String("ignore-level", "info", "lowest severity to report (debug|info|warning|error)")
	rootCmd.PersistentFlags().String("unacceptable-level", "error", "lowest severity that makes the run fail (debug|info|warning|error|critical)")
	rootCmd.PersistentFlags().String("format", "pretty", "output format (pretty|json)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize pretty output (auto|on|off)")
	rootCmd.PersistentFlags().String("image-dir", "", "override the project's image directory name")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel document workers (0=auto)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress the summary line")
	rootCmd.PersistentFlags().Bool("trace", false, "log one line per recognised construct to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
