package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/platform/web"
	"github.com/vovakirdan/tui-match3/internal/storage"
	"github.com/vovakirdan/tui-match3/internal/storage/redis"
)

var (
	flagSSHAddr      string
	flagHTTPAddr     string
	flagHostKey      string
	flagRedisURL     string
	flagIdleTimeout  int
	flagDemoInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and HTTP servers",
	Long: `Start an SSH server for remote play and an HTTP server for scores and
the live demo board.

Each SSH connection gets its own session with the mode picker menu.
All users share one leaderboard: the SQLite database, or Redis when
--redis is given. Pass an empty address to disable a server.

HTTP endpoints:
  GET /healthz               - Liveness check
  GET /api/modes             - Registered modes
  GET /api/scores/{mode}     - Top scores (?limit=N)
  GET /api/stats/{mode}      - Totals for a mode
  GET /api/sessions/{mode}   - Latest sessions (?limit=N)
  GET /api/session/{id}      - One session
  GET /ws/demo               - WebSocket stream of an autoplayed board (?seed=N)

Examples:
  match3 serve                                # SSH on :23234, HTTP on :8080
  match3 serve --ssh :2222 --http ""          # SSH only
  match3 serve --redis redis://localhost:6379 # Shared Redis leaderboard

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port, empty to disable)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP server address (host:port, empty to disable)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagRedisURL, "redis", "", "Redis URL for the shared leaderboard (default: SQLite)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().DurationVar(&flagDemoInterval, "demo-interval", 500*time.Millisecond, "Pause between demo moves")
}

// openServeStore opens the Redis leaderboard when configured, SQLite
// otherwise.
func openServeStore() (storage.Store, error) {
	if flagRedisURL == "" {
		return storage.Open(flagDBPath)
	}
	cfg := redis.DefaultConfig()
	cfg.URL = flagRedisURL
	return redis.New(cfg)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		return errors.New("nothing to serve: both --ssh and --http are empty")
	}

	store, err := openServeStore()
	if err != nil {
		return fmt.Errorf("opening score store: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var servers []func(context.Context) error

	if flagSSHAddr != "" {
		cfg := tui.DefaultSSHServerConfig()
		cfg.Address = flagSSHAddr
		cfg.HostKeyPath = flagHostKey
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
		cfg.TickRate = flagFPS
		cfg.Preset = preset()

		srv, err := tui.NewSSHServer(cfg, store, newLogger("match3-ssh"))
		if err != nil {
			return err
		}
		servers = append(servers, srv.ListenAndServe)
	}

	if flagHTTPAddr != "" {
		cfg := web.DefaultConfig()
		cfg.Address = flagHTTPAddr
		cfg.DemoInterval = flagDemoInterval
		cfg.Demo.Width = settings.Board.Width
		cfg.Demo.Height = settings.Board.Height
		cfg.Demo.Types = settings.Board.Types
		cfg.Demo.CascadeBonus = settings.Scoring.CascadeBonus
		cfg.Demo.Seed = flagSeed

		servers = append(servers, web.NewServer(cfg, store, newLogger("match3-web")).ListenAndServe)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	// The first server to fail stops the others.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, serve := range servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serve(ctx); err != nil {
				errOnce.Do(func() { firstErr = err })
				cancel()
			}
		}()
	}
	wg.Wait()
	return firstErr
}
