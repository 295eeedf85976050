package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a document as Markdown, a ZIP archive or a single image",
	Long: `Export writes the document's Markdown into the output directory. With
--zip it writes an archive holding the Markdown and every extracted image
under images/. With --image it writes one extracted image, optionally
converted to PNG or scaled down to a thumbnail.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out")
		asZip, _ := cmd.Flags().GetBool("zip")
		imageID, _ := cmd.Flags().GetString("image")
		asPNG, _ := cmd.Flags().GetBool("png")
		thumb, _ := cmd.Flags().GetInt("thumb")

		return withStore(func(st store.Store) error {
			doc, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var f *docmark.File
			switch {
			case imageID != "":
				f, err = docmark.ExportImage(doc, imageID, docmark.ImageOptions{PNG: asPNG, Thumb: thumb})
			case asZip:
				f, err = docmark.ExportArchive(doc)
			default:
				f = docmark.ExportMarkdown(doc)
			}
			if err != nil {
				return err
			}
			return writeExport(outDir, f)
		})
	},
}

// writeExport 把导出文件写入 dir
func writeExport(dir string, f *docmark.File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("wrote %s (%s, %s)\n", path, f.Kind, humanize.Bytes(uint64(len(f.Data))))
	return nil
}

func init() {
	exportCmd.Flags().StringP("out", "o", ".", "output directory")
	exportCmd.Flags().Bool("zip", false, "write a ZIP archive with images")
	exportCmd.Flags().String("image", "", "export a single extracted image by id")
	exportCmd.Flags().Bool("png", false, "convert the exported image to PNG")
	exportCmd.Flags().Int("thumb", 0, "scale the exported image so its longest side is at most n pixels")

	rootCmd.AddCommand(exportCmd)
}
