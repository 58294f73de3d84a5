package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cglprep/blitz/internal/scores"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past games, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		category, _ := cmd.Flags().GetString("category")
		difficulty, _ := cmd.Flags().GetString("difficulty")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := scores.NewService(st.Scores())
		res, err := svc.History(cmd.Context(), cfg.Client.User, scores.HistoryQuery{
			Page:       page,
			Limit:      limit,
			Category:   category,
			Difficulty: difficulty,
		})
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		if len(res.History) == 0 {
			fmt.Println("No games played yet.")
			return nil
		}

		fmt.Printf("%-16s  %-22s  %-9s  %-6s  %6s  %7s  %5s\n",
			"When", "Game", "Category", "Tier", "Score", "Correct", "Time")
		fmt.Println(strings.Repeat("─", 84))

		for _, h := range res.History {
			fmt.Printf("%-16s  %-22s  %-9s  %-6s  %6d  %3d/%-3d  %4ds\n",
				h.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(h.GameName, 22),
				h.Category,
				h.Difficulty,
				h.Score,
				h.Metrics.CorrectAnswers, h.Metrics.TotalQuestions,
				h.Metrics.TimeTaken,
			)
		}

		p := res.Pagination
		fmt.Printf("\nPage %d of %d (%d games)\n", p.Page, max(p.Pages, 1), p.Total)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("page", 1, "Page number")
	historyCmd.Flags().IntP("limit", "n", 20, "Games per page (max 100)")
	historyCmd.Flags().String("category", "ALL", "QUANT, REASONING or ALL")
	historyCmd.Flags().String("difficulty", "ALL", "EASY, MEDIUM, HARD or ALL")
}
