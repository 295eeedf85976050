package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/store"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [id]",
	Short: "List the top-level blocks of a document",
	Long: `Blocks segments a saved document (or a Markdown file given with --file)
into top-level blocks and prints each block's type, position and source.
With --render the render pass is printed instead: every node with its
parent, kind and rendered text range.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		format, _ := cmd.Flags().GetString("format")
		rendered, _ := cmd.Flags().GetBool("render")

		switch format {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
		}

		doc, err := loadDocument(cmd, args, file)
		if err != nil {
			return err
		}
		blocks := docmark.Segment(doc.Markdown)

		if rendered {
			view := docmark.Render(blocks, newPreferences(), doc.ImageMap, docmark.WithConfig(&cfg.Render)).View()
			if format == "text" {
				return printNodes(os.Stdout, view.Nodes)
			}
			return encode(os.Stdout, format, view)
		}
		if format == "text" {
			return printBlocks(os.Stdout, blocks)
		}
		return encode(os.Stdout, format, blocks)
	},
}

// loadDocument 从仓库或本地 markdown 文件读取文档
func loadDocument(cmd *cobra.Command, args []string, file string) (*docmark.Document, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, errors.New("give either a document id or --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return &docmark.Document{Name: file, Markdown: string(data)}, nil
	case len(args) == 1:
		var doc *docmark.Document
		err := withStore(func(st store.Store) error {
			var err error
			doc, err = st.Get(cmd.Context(), args[0])
			return err
		})
		return doc, err
	default:
		return nil, errors.New("a document id or --file is required")
	}
}

func encode(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBlocks(w io.Writer, blocks []docmark.Block) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tLINES\tSOURCE")
	for _, b := range blocks {
		fmt.Fprintf(tw, "%d\t%s\t%d-%d\t%s\n",
			b.Index, b.Type, b.Position.Start.Line, b.Position.End.Line, firstLine(b.Source, 60))
	}
	return tw.Flush()
}

func printNodes(w io.Writer, nodes []docmark.Node) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPARENT\tKIND\tRANGE\tTEXT")
	for _, n := range nodes {
		text := n.Text
		if n.Alt != "" {
			text = n.Alt
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d-%d\t%s\n", n.ID, n.Parent, n.Kind, n.Start, n.End, firstLine(text, 60))
	}
	return tw.Flush()
}

func firstLine(s string, n int) string {
	line, _, more := strings.Cut(s, "\n")
	runes := []rune(line)
	if len(runes) > n {
		return string(runes[:n]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}

func init() {
	blocksCmd.Flags().StringP("file", "f", "", "read markdown from a local file instead of history")
	blocksCmd.Flags().String("format", "text", "output format: text, json or yaml")
	blocksCmd.Flags().Bool("render", false, "print the render pass nodes instead of blocks")

	rootCmd.AddCommand(blocksCmd)
}
