package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cglprep/blitz/internal/leaderboard"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the score API and live leaderboard",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	var (
		board leaderboard.Board
		opts  []server.Option
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		rb := leaderboard.NewRedisBoard(client)
		board = rb
		opts = append(opts, server.WithRelay(rb))
	} else {
		board = leaderboard.NewMemoryBoard()
	}
	opts = append(opts, server.WithBoard(board))

	svc := scores.NewService(st.Scores(), scores.WithBoard(board))
	srv, err := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		JWTSecret:    cfg.Server.JWTSecret,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}, svc, opts...)
	if err != nil {
		return fmt.Errorf("%w (set server.jwt_secret or BLITZ_JWT_SECRET)", err)
	}
	return srv.Run(ctx)
}
