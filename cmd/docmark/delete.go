package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riverfjs/docmark-go/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id...>",
	Short: "Delete documents from history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st store.Store) error {
			for _, id := range args {
				if err := st.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				fmt.Printf("deleted %s\n", id)
			}
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every document from history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to clear history without --yes")
		}
		return withStore(func(st store.Store) error {
			if err := st.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("history cleared")
			return nil
		})
	},
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "confirm clearing all documents")

	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
}
