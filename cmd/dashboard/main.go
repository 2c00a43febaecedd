// Command dashboard follows a running auction server from the terminal and
// redraws the ranked bid waterfall whenever the server reports a change.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-board/internal/client"
	"auction-board/internal/config"
	"auction-board/internal/events"
	"auction-board/internal/realtime"
	"auction-board/internal/syncengine"
	"auction-board/utils"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "auction server base URL")
	mode := flag.String("mode", "dashboard", "observer mode: dashboard or admin")
	session := flag.String("session", "", "pin the display to this session id")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if err := utils.ConfigureLogger(*logLevel, "text", os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logger: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(2)
	}

	poll, err := pollInterval(*mode, cfg.Sync)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	wsURL, err := realtime.WebSocketURL(*serverURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid server URL: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewClient(*serverURL)
	engine := syncengine.New(api, syncengine.Config{
		Name:         *mode,
		PollInterval: poll,
		Selected:     *session,
		OnUpdate: func(view syncengine.View) {
			fmt.Fprint(os.Stdout, clearScreen+Render(view, *mode, time.Now()))
		},
	})

	changes := make(chan events.Change, 16)
	feed := realtime.NewClient(wsURL, events.AllTables...)
	go func() {
		if err := feed.Run(ctx, changes); err != nil && ctx.Err() == nil {
			utils.Error("change feed stopped", map[string]any{"error": err.Error()})
		}
	}()
	go engine.Follow(ctx, changes)

	utils.Info("Following auction server", map[string]any{
		"server": api.BaseURL(),
		"feed":   wsURL,
		"mode":   *mode,
		"poll":   poll.String(),
	})
	_ = engine.Run(ctx)
}

func pollInterval(mode string, sync config.SyncConfig) (time.Duration, error) {
	switch mode {
	case "dashboard":
		return sync.DashboardPoll, nil
	case "admin":
		return sync.AdminPoll, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want dashboard or admin)", mode)
	}
}
