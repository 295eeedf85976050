package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert <files...>",
	Short: "Convert PDFs and images to Markdown",
	Long: `Convert sends each file to the OCR service, assembles the pages into one
Markdown document with its extracted images and saves it to history.
Several files are converted concurrently; a failed file does not stop
the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out")
		noSave, _ := cmd.Flags().GetBool("no-save")
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			cfg.OCR.Model = model
		}

		inputs := make([]docmark.Input, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			inputs = append(inputs, docmark.Input{Name: filepath.Base(path), Data: data})
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		run := func(st store.Store) error {
			results, err := newConverter(st).ProcessFiles(ctx, inputs)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Name, res.Err)
					continue
				}
				doc := res.Document
				fmt.Printf("✓ %s  %s  %d pages, %d images, %s\n",
					doc.ID, doc.Name, doc.PageCount, len(doc.Images), humanize.Bytes(uint64(doc.FileSize)))
				if outDir != "" {
					if err := writeExport(outDir, docmark.ExportMarkdown(doc)); err != nil {
						return err
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		}

		if noSave {
			return run(nil)
		}
		return withStore(run)
	},
}

func init() {
	convertCmd.Flags().String("model", "", "OCR model (default from config)")
	convertCmd.Flags().StringP("out", "o", "", "also write each markdown file into this directory")
	convertCmd.Flags().Bool("no-save", false, "do not save results to history")

	rootCmd.AddCommand(convertCmd)
}
