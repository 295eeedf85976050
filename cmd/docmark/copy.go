package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/riverfjs/docmark-go"
)

// clipboardWriter 系统剪贴板
type clipboardWriter interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

var clip clipboardWriter = systemClipboard{}

var copyCmd = &cobra.Command{
	Use:   "copy [id]",
	Short: "Copy blocks of a document as Markdown source",
	Long: `Copy selects blocks --from through --to of the rendered document (or an
explicit selection given as --anchor/--focus node:offset pairs) and puts
the Markdown source of every covered block on the clipboard. With
--rendered the rendered text is copied instead, as a plain copy would.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		from, _ := cmd.Flags().GetInt("from")
		to, _ := cmd.Flags().GetInt("to")
		anchor, _ := cmd.Flags().GetString("anchor")
		focus, _ := cmd.Flags().GetString("focus")
		rendered, _ := cmd.Flags().GetBool("rendered")
		toStdout, _ := cmd.Flags().GetBool("print")

		doc, err := loadDocument(cmd, args, file)
		if err != nil {
			return err
		}

		prefs := newPreferences()
		if rendered {
			prefs.SetCopyAsMarkdown(false)
		}
		pass := docmark.RenderDocument(doc, prefs, docmark.WithConfig(&cfg.Render))

		var sel docmark.Selection
		if anchor != "" || focus != "" {
			if sel.Anchor, err = parsePoint(anchor); err != nil {
				return fmt.Errorf("--anchor: %w", err)
			}
			if sel.Focus, err = parsePoint(focus); err != nil {
				return fmt.Errorf("--focus: %w", err)
			}
		} else {
			if to < 0 {
				to = from
			}
			var ok bool
			if sel, ok = docmark.BlockSelection(pass, from, to); !ok {
				return fmt.Errorf("block range %d-%d is out of range (document has %d blocks)", from, to, len(pass.Blocks()))
			}
		}

		text, intercepted := docmark.Copy(pass, prefs, sel)
		if text == "" {
			return errors.New("selection is empty")
		}
		docmark.Logger.Debug().Bool("intercepted", intercepted).Int("length", len(text)).Msg("copy")

		if toStdout || clipboard.Unsupported {
			fmt.Println(text)
			return nil
		}
		if err := clip.WriteAll(text); err != nil {
			return fmt.Errorf("write clipboard: %w", err)
		}
		fmt.Fprintf(os.Stderr, "copied %d characters\n", len([]rune(text)))
		return nil
	},
}

// parsePoint 解析 "node:offset"
func parsePoint(s string) (docmark.Point, error) {
	node, offset, found := strings.Cut(s, ":")
	if !found {
		return docmark.Point{}, fmt.Errorf("want node:offset, got %q", s)
	}
	n, err := strconv.Atoi(node)
	if err != nil {
		return docmark.Point{}, fmt.Errorf("invalid node %q", node)
	}
	o, err := strconv.Atoi(offset)
	if err != nil {
		return docmark.Point{}, fmt.Errorf("invalid offset %q", offset)
	}
	return docmark.Point{Node: n, Offset: o}, nil
}

func init() {
	copyCmd.Flags().Int("from", 0, "first block index")
	copyCmd.Flags().Int("to", -1, "last block index (default: same as --from)")
	copyCmd.Flags().String("anchor", "", "selection anchor as node:offset")
	copyCmd.Flags().String("focus", "", "selection focus as node:offset")
	copyCmd.Flags().Bool("rendered", false, "copy rendered text instead of markdown source")
	copyCmd.Flags().Bool("print", false, "print to stdout instead of the clipboard")
	copyCmd.Flags().StringP("file", "f", "", "read markdown from a local file instead of history")

	rootCmd.AddCommand(copyCmd)
}
