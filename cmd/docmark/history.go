package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List converted documents, newest first",
	Long: `History lists saved documents. With a query, names are fuzzy-matched and
the best matches are listed first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withStore(func(st store.Store) error {
			docs, err := st.All(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				docs = store.Search(docs, args[0])
			}
			if limit > 0 && len(docs) > limit {
				docs = docs[:limit]
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPAGES\tSIZE\tCONVERTED\tPREVIEW")
			for _, doc := range docs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
					doc.ID, doc.Name, doc.PageCount,
					humanize.Bytes(uint64(doc.FileSize)),
					humanize.Time(doc.Timestamp),
					docmark.Preview(doc.Markdown, 48))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			est, err := st.Estimate(cmd.Context())
			if err != nil {
				return err
			}
			if est.Quota > 0 {
				fmt.Printf("\n%d documents, %s of %s used (%.1f%%)\n",
					len(docs), humanize.Bytes(uint64(est.Usage)), humanize.Bytes(uint64(est.Quota)), est.UsagePercent)
			} else {
				fmt.Printf("\n%d documents, %s used\n", len(docs), humanize.Bytes(uint64(est.Usage)))
			}
			return nil
		})
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "show at most n documents")

	rootCmd.AddCommand(historyCmd)
}
