package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"restyle/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Load the rule catalog and print its summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := rules.Load(rulesPath)
		if err != nil {
			return err
		}
		printCatalogSummary(catalog)
		return nil
	},
}

func printCatalogSummary(catalog *rules.Catalog) {
	s := catalog.Summary()
	name := catalog.Metadata.Name
	if name == "" {
		name = rulesPath
	}
	fmt.Printf("Rule catalog %q: %d rules", name, s.Total)
	if catalog.CommentEntries > 0 {
		fmt.Printf(" (%d comment entries skipped)", catalog.CommentEntries)
	}
	fmt.Println()
	for _, action := range []rules.Action{rules.ActionMap, rules.ActionRemove, rules.ActionAttribute} {
		if n := s.PerAction[action]; n > 0 {
			fmt.Printf("  %-10s %d\n", action, n)
		}
	}
	fmt.Printf("  covers: %s\n", strings.Join(s.Properties, ", "))
}
