package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cglprep/blitz/internal/app"
	"github.com/cglprep/blitz/internal/config"
	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/llm"
	"github.com/cglprep/blitz/internal/scoreclient"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/screens/home"
	sessionscreen "github.com/cglprep/blitz/internal/screens/session"
	"github.com/cglprep/blitz/internal/selfupdate"
	"github.com/cglprep/blitz/internal/store"
)

const updateCheckTimeout = 3 * time.Second

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the game picker, or a game with --game",
	RunE:  runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(c *cobra.Command) {
	c.Flags().String("game", "", "Open this game straight away (see `blitz games`)")
	c.Flags().String("difficulty", "", "Skip the tier menu: easy, medium or hard")
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	play := sessionscreen.Config{Total: cfg.Game.TotalQuestions}
	var start *games.Game
	if id, _ := cmd.Flags().GetString("game"); id != "" {
		g, ok := games.ByID(id)
		if !ok {
			return fmt.Errorf("unknown game %q: run `blitz games` for the list", id)
		}
		start = &g
	}
	if d, _ := cmd.Flags().GetString("difficulty"); d != "" {
		diff, err := games.ParseDifficulty(d)
		if err != nil {
			return err
		}
		play.Difficulty = diff
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := scores.NewService(st.Scores())
	user := cfg.Client.User
	if cfg.Client.APIURL != "" {
		play.Submitter = scoreclient.NewHTTPClient(cfg.Client.APIURL, cfg.Client.Token)
	} else {
		play.Submitter = scoreclient.NewLocalSubmitter(svc, user)
	}

	// AI questions are optional; the local generators always work.
	if sources, err := aiSources(ctx, cfg.AI, st); err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Using the built-in question generators.")
	} else {
		play.Sources = sources
	}

	return app.Run(app.Options{
		Home: home.Config{
			Scores:      svc,
			UserID:      user,
			Play:        play,
			CheckUpdate: checkUpdate,
		},
		Start: start,
	})
}

// aiSources returns a per-game source factory backed by the configured
// provider, or nil when no provider is set up.
func aiSources(ctx context.Context, ai config.AIConfig, st *store.Store) (func(games.Game) games.Source, error) {
	llmCfg, ok := ai.LLMConfig()
	if !ok {
		return nil, nil
	}
	provider, err := llm.NewProvider(ctx, llmCfg, st.Events())
	if err != nil {
		return nil, err
	}
	return func(g games.Game) games.Source {
		return games.NewAISource(provider, g, games.NewLocalSource(g, nil),
			games.WithAITimeout(llmCfg.Timeout))
	}, nil
}

func checkUpdate(ctx context.Context) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()
	res, err := selfupdate.NewChecker(selfupdate.WithTimeout(updateCheckTimeout)).
		Check(ctx, &selfupdate.CheckInput{Version: currentVersion()})
	if err != nil || !res.UpdateAvailable {
		return "", false
	}
	return res.LatestVersion, true
}
