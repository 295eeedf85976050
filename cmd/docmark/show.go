package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a document's Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rendered, _ := cmd.Flags().GetBool("render")
		width, _ := cmd.Flags().GetInt("width")
		stats, _ := cmd.Flags().GetBool("stats")

		return withStore(func(st store.Store) error {
			doc, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if stats {
				s := docmark.DocumentStats(doc)
				fmt.Printf("%s: %d pages, %d blocks, %d words, %d characters, %d images\n\n",
					doc.Name, s.Pages, s.Blocks, s.Words, s.Characters, s.Images)
			}

			if !rendered {
				fmt.Println(doc.Markdown)
				return nil
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			out, err := r.Render(doc.Markdown)
			if err != nil {
				return fmt.Errorf("render markdown: %w", err)
			}
			fmt.Print(out)
			return nil
		})
	},
}

func init() {
	showCmd.Flags().Bool("render", false, "render for the terminal instead of printing raw markdown")
	showCmd.Flags().Int("width", 100, "word wrap width for --render")
	showCmd.Flags().Bool("stats", false, "print document statistics first")

	rootCmd.AddCommand(showCmd)
}
