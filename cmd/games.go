package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cglprep/blitz/internal/games"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the games (optionally filtered by category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		list := games.All()
		if category != "" {
			c, ok := games.ParseCategory(category)
			if !ok {
				return fmt.Errorf("unknown category %q: use quant or reasoning", category)
			}
			list = games.ByCategory(c)
		}

		// Header.
		fmt.Printf("%-22s  %-22s  %-9s  %s\n", "ID", "Name", "Category", "Description")
		fmt.Println(strings.Repeat("─", 100))

		for _, g := range list {
			desc := g.Description
			if len(desc) > 40 {
				desc = desc[:37] + "..."
			}
			fmt.Printf("%-22s  %-22s  %-9s  %s\n", g.ID, g.Name, g.Category.Upper(), desc)
		}

		fmt.Printf("\n%d games\n", len(list))
		return nil
	},
}

func init() {
	gamesCmd.Flags().String("category", "", "Filter by category (quant or reasoning)")
}
