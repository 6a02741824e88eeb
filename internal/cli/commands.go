package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebelice/jsonstudio/internal/export"
	"github.com/rebelice/jsonstudio/internal/jsondoc"
	"github.com/rebelice/jsonstudio/internal/jsontree"
	"github.com/rebelice/jsonstudio/internal/logging"
	"github.com/rebelice/jsonstudio/internal/schema"
)

var errEmptyInput = errors.New("input is empty")

// loadDocument reads and parses the input, failing on invalid JSON
func loadDocument(cmd *cobra.Command, args []string) (*jsondoc.Document, error) {
	text, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	doc := jsondoc.New(text)
	if doc.IsEmpty() {
		return nil, errEmptyInput
	}
	if doc.Err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", doc.Err)
	}
	logging.FromContext(cmd.Context()).Debug("parsed input", "bytes", doc.Size(), "kind", doc.Value.Kind())
	return doc, nil
}

func writeLine(cmd *cobra.Command, text string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func newFormatCmd() *cobra.Command {
	var indent int

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Pretty-print JSON keeping key order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			doc.Format(indent)
			return writeLine(cmd, doc.Text)
		},
	}

	cmd.Flags().IntVar(&indent, "indent", 2, "spaces per nesting level")
	return cmd
}

func newMinifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "minify [file]",
		Short: "Remove insignificant whitespace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			doc.Minify()
			return writeLine(cmd, doc.Text)
		},
	}
}

func newSortCmd() *cobra.Command {
	var indent int

	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Sort object keys at every level",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			if err := doc.Sort(indent); err != nil {
				return err
			}
			return writeLine(cmd, doc.Text)
		},
	}

	cmd.Flags().IntVar(&indent, "indent", 2, "spaces per nesting level")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert JSON to YAML, TOML or HJSON",
		Long:  `Convert renders the document in another format. YAML, TOML and HJSON input files are accepted too and converted by extension.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := jsondoc.ParseTarget(to)
			if err != nil {
				return err
			}
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}

			progress := logging.NewProgress(logging.FromContext(cmd.Context()))
			out, err := jsondoc.Convert(doc.Value, target)
			if err != nil {
				return err
			}
			progress.Done("Converted to " + string(target))

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "yaml", "target format: json, yaml, toml or hjson")
	return cmd
}

func newPathsCmd() *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "paths [file]",
		Short: "Print the path of every node",
		Long:  `Paths prints one line per node below the root in document order, in the same form the tree copies to the clipboard. With --csv each line also carries the node's kind and preview.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			if asCSV {
				return export.WritePathsCSV(cmd.OutOrStdout(), doc.Value)
			}
			for _, p := range jsontree.Paths(doc.Value) {
				if p.IsRoot() {
					continue
				}
				if err := writeLine(cmd, p.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "write path, kind and preview as CSV")
	return cmd
}

func newTreeCmd() *cobra.Command {
	var (
		depth    int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the tree as the interactive view first shows it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			if depth < 0 {
				depth = jsontree.DefaultDepth(doc.Size())
			}
			model := jsontree.NewModel(doc.Value, jsontree.NewStates(depth, pageSize))
			for _, row := range model.Rows() {
				if err := writeLine(cmd, row.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "expansion depth (-1 picks one from the document size)")
	cmd.Flags().IntVar(&pageSize, "page-size", jsontree.DefaultPageSize, "children shown per container before \"show more\"")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Print the one-line preview of a node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			v, err := jsontree.Lookup(doc.Value, jsontree.Path(path))
			if err != nil {
				return err
			}
			return writeLine(cmd, jsontree.Preview(v))
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", `node path, e.g. ["users"][0] (default is the root)`)
	return cmd
}

func newSchemaCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "schema [file]",
		Short: "Infer TypeScript interfaces from a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), schema.Infer(doc.Value, name).TypeScript())
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", schema.DefaultRootName, "name of the root interface")
	return cmd
}
