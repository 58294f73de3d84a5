package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cglprep/blitz/internal/scores"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show personal bests, recent games and the daily streak",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		stats, err := svc.Stats(cmd.Context(), cfg.Client.User)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		if stats.TotalGames == 0 {
			fmt.Println("No games played yet. Run `blitz` to start.")
			return nil
		}

		fmt.Printf("%d games played, %d day streak\n\n", stats.TotalGames, stats.Streak)

		fmt.Println("Personal Bests")
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%-22s  %6s  %6s  %s\n", "Game", "Best", "Played", "Last played")
		fmt.Println(strings.Repeat("─", 60))
		for _, g := range stats.GameStats {
			fmt.Printf("%-22s  %6d  %6d  %s\n",
				truncate(g.GameName, 22), g.HighScore, g.TotalPlayed,
				g.Date.Local().Format("2006-01-02"))
		}

		if len(stats.RecentActivity) > 0 {
			fmt.Println()
			fmt.Println("Recent Games")
			fmt.Println(strings.Repeat("─", 60))
			for _, h := range stats.RecentActivity {
				fmt.Printf("%-16s  %-22s  %-6s  %6d\n",
					h.CreatedAt.Local().Format("2006-01-02 15:04"),
					truncate(h.GameName, 22), h.Difficulty, h.Score)
			}
		}
		return nil
	},
}
