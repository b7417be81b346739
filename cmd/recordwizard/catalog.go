package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"recordwizard/internal/catalog"
)

func catalogCMD() *cobra.Command {
	var cat = &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the flat agency catalog",
	}

	var validate = &cobra.Command{
		Use:   "validate <source>",
		Short: "Load a catalog file or URL and report problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := catalog.Load(context.Background(), args[0])
			if err != nil {
				return err
			}

			seen := make(map[string]int)
			empty := 0
			for _, item := range items {
				seen[item.ID]++
				if item.Title == "" {
					empty++
				}
			}
			dupes := 0
			for id, n := range seen {
				if n > 1 {
					dupes++
					fmt.Printf("duplicate id %s (%d entries)\n", id, n)
				}
			}

			fmt.Printf("%d entries, %d duplicate ids, %d missing titles\n", len(items), dupes, empty)
			if dupes > 0 || empty > 0 {
				return fmt.Errorf("catalog has problems")
			}
			return nil
		},
	}

	cat.AddCommand(validate)
	return cat
}
