// Package cli implements the jsonstudio command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rebelice/jsonstudio/internal/jsondoc"
	"github.com/rebelice/jsonstudio/internal/logging"
)

var version = "dev"

// SetVersion sets the version shown by --version
func SetVersion(v string) {
	version = v
}

// options holds the flags shared by the root command and subcommands
type options struct {
	verbose    bool
	configFile string
	theme      string
	view       string
	depth      int
}

// NewRootCommand builds the command tree. Without a subcommand the
// interactive editor starts, optionally loading the file argument.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "jsonstudio [file]",
		Short:        "jsonstudio is a terminal JSON editor and tree explorer",
		Long:         `jsonstudio edits JSON side by side with a lazily expanded tree. Node paths are copied with a click, large arrays are paginated, and an optional Gemini key enables repair, schema and explain actions.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Subcommands log to stderr; the TUI swaps in a file logger
			logger := logging.New(cmd.ErrOrStderr(), logging.Level(opts.verbose))
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runTUI(cmd, opts, file)
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/jsonstudio/config.yaml)")
	root.Flags().StringVar(&opts.theme, "theme", "", "color theme: dark, light or default")
	root.Flags().StringVar(&opts.view, "view", "", "initial layout: split, code or tree")
	root.Flags().IntVarP(&opts.depth, "depth", "d", -1, "initial tree depth (-1 picks one from the document size)")

	root.AddCommand(newFormatCmd())
	root.AddCommand(newMinifyCmd())
	root.AddCommand(newSortCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newPathsCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newSchemaCmd())

	return root
}

// Execute runs the CLI with ctx
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// readInput returns the JSON text of the file argument, or of stdin when
// no file or "-" is given
func readInput(cmd *cobra.Command, args []string) (string, error) {
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}

	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return jsondoc.Import(name, data)
}
