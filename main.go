package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "auction-board/internal/biddingService"
	"auction-board/internal/config"
	"auction-board/internal/database"
	"auction-board/internal/events"
	"auction-board/internal/realtime"
	"auction-board/internal/repository"
	"auction-board/internal/server"
	sessions "auction-board/internal/sessionService"
	"auction-board/internal/syncengine"
	"auction-board/utils"
)

// stores bundles the repositories and the change publisher of one driver
type stores struct {
	bids      repository.BidRepository
	sessions  repository.SessionRepository
	publisher events.Publisher
	relay     *events.PGRelay
	close     func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := utils.ConfigureLogger(cfg.Log.Level, cfg.Log.Format, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		utils.Fatal("auction server stopped", map[string]any{"error": err.Error()})
	}
}

func run(ctx context.Context, cfg config.Config) error {
	bus := events.NewBus()

	st, err := openStores(ctx, cfg.Store, bus)
	if err != nil {
		return err
	}
	defer st.close()

	biddingSvc := bidding.NewBiddingService(st.bids, st.publisher)
	sessionSvc := sessions.NewSessionService(st.sessions, st.publisher)

	if st.relay != nil {
		go func() {
			if err := st.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				utils.Error("change relay stopped", map[string]any{"error": err.Error()})
			}
		}()
	}

	// display observer hosted by the server for GET /dashboard
	display := syncengine.New(syncengine.NewServiceSource(sessionSvc, biddingSvc), syncengine.Config{
		Name:         "server-dashboard",
		PollInterval: cfg.Sync.DashboardPoll,
	})
	displaySub := bus.Subscribe(16, events.AllTables...)
	defer displaySub.Close()
	go display.Follow(ctx, displaySub.C)
	go display.Run(ctx)

	hub := realtime.NewHub()
	hubSub := bus.Subscribe(256, events.AllTables...)
	defer hubSub.Close()
	go hub.Run(ctx)
	go hub.Forward(ctx, hubSub.C)

	wsServer := realtime.NewServer(realtime.ServerConfig{
		PingInterval: cfg.WebSocket.PingInterval,
		ReadTimeout:  cfg.WebSocket.ReadTimeout,
		WriteTimeout: cfg.WebSocket.WriteTimeout,
	}, hub)

	router := server.SetupRouter(server.Dependencies{
		Bids:     biddingSvc,
		Sessions: sessionSvc,
		Display:  display,
		Realtime: wsServer,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Info("Starting auction server", map[string]any{
			"addr":   srv.Addr,
			"driver": cfg.Store.Driver,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	utils.Info("Shutting down auction server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// openStores builds the repositories for the configured driver
func openStores(ctx context.Context, cfg config.StoreConfig, bus *events.Bus) (*stores, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		repo := repository.NewMemoryRepo()
		return &stores{bids: repo, sessions: repo, publisher: bus, close: noop}, nil

	case config.DriverLocal:
		bids, err := repository.NewLocalRepo(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		utils.Info("Using local bid snapshot", map[string]any{"path": bids.Path(), "session_id": repository.LocalSessionID})
		return &stores{bids: bids, sessions: repository.NewLocalSessionRepo(utils.Now()), publisher: bus, close: noop}, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Open(database.Dialect(cfg.Driver), cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}

		repo := repository.NewSQLRepo(db)
		st := &stores{bids: repo, sessions: repo, publisher: bus, close: db.Close}
		if db.Dialect == database.Postgres {
			st.relay = events.NewPGRelay(db.DB, cfg.DSN, bus)
			st.publisher = st.relay
		}
		return st, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
