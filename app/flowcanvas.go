package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorhill/cronexpr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/makasim/flowcanvas"
	"github.com/makasim/flowcanvas/badgerstore"
	"github.com/makasim/flowcanvas/memstore"
	"github.com/makasim/flowcanvas/netapi"
	"github.com/makasim/flowcanvas/pgstore"
	"github.com/makasim/flowcanvas/sqlitestore"
	"github.com/makasim/flowcanvas/ui"
	"github.com/rs/cors"
	"github.com/xo/dburl"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"
)

type config struct {
	Addr string `koanf:"addr"`

	Store struct {
		DSN string `koanf:"dsn"`
	} `koanf:"store"`

	Prune struct {
		Schedule string `koanf:"schedule"`
		Keep     int    `koanf:"keep"`
	} `koanf:"prune"`

	Input struct {
		Limit int `koanf:"limit"`
		Burst int `koanf:"burst"`
	} `koanf:"input"`
}

func loadConfig() (config, error) {
	cfg := config{
		Addr: `0:8080`,
	}
	cfg.Store.DSN = `mem://`
	cfg.Prune.Schedule = flowcanvas.DefaultPruneSchedule
	cfg.Prune.Keep = flowcanvas.DefaultPruneKeep
	cfg.Input.Limit = 50
	cfg.Input.Burst = 100

	k := koanf.New(".")

	if path := os.Getenv(`FLOWCANVAS_CONFIG`); path != `` {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(`FLOWCANVAS_`, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, `FLOWCANVAS_`)), `_`, `.`)
	}), nil); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go handleSignals(cancel)

	cfg, err := loadConfig()
	if err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}

	if err := newApp(cfg).Run(ctx); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

func handleSignals(cancel context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	<-signals
	log.Printf("INFO: got signal; canceling context")
	cancel()

	<-signals
	log.Printf("WARN: got second signal; force exiting")
	os.Exit(1)
}

type app struct {
	cfg config
	l   *slog.Logger
}

func newApp(cfg config) *app {
	return &app{
		cfg: cfg,
		l:   slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

func (a *app) Run(ctx context.Context) error {
	s, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	schedule, err := cronexpr.Parse(a.cfg.Prune.Schedule)
	if err != nil {
		return fmt.Errorf("parse prune schedule: %w", err)
	}

	p, err := flowcanvas.NewPruner(s, a.l,
		flowcanvas.WithPruneSchedule(schedule),
		flowcanvas.WithPruneKeep(a.cfg.Prune.Keep),
	)
	if err != nil {
		return fmt.Errorf("pruner: new: %w", err)
	}

	b := flowcanvas.NewBuilder(a.l)
	tr := flowcanvas.DefaultTypes()

	api := netapi.New(b, s, tr, a.l,
		netapi.WithInputLimit(rate.Limit(a.cfg.Input.Limit), a.cfg.Input.Burst),
	)

	uiH := ui.Handler()

	a.l.Info("http server starting", "addr", a.cfg.Addr)
	srv := &http.Server{
		Addr: a.cfg.Addr,
		Handler: h2c.NewHandler(handleCORS(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if netapi.HandleAll(rw, r, api) {
				return
			}

			uiH.ServeHTTP(rw, r)
		})), &http2.Server{}),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("WARN: http server: listen and serve: %s", err)
		}
	}()

	<-ctx.Done()

	var shutdownRes error
	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), time.Second*30)
	defer shutdownCtxCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		shutdownRes = errors.Join(shutdownRes, fmt.Errorf("http server: shutdown: %w", err))
	}

	b.Close()

	if err := p.Shutdown(shutdownCtx); err != nil {
		shutdownRes = errors.Join(shutdownRes, fmt.Errorf("pruner: shutdown: %w", err))
	}

	if err := s.Shutdown(shutdownCtx); err != nil {
		shutdownRes = errors.Join(shutdownRes, fmt.Errorf("store: shutdown: %w", err))
	}

	return shutdownRes
}

func (a *app) openStore(ctx context.Context) (flowcanvas.Store, func(), error) {
	dsn := a.cfg.Store.DSN

	switch {
	case dsn == `mem://`:
		a.l.Info("init memstore")
		return memstore.New(a.l), func() {}, nil
	case strings.HasPrefix(dsn, `badger://`):
		a.l.Info("init badgerstore")

		path := strings.TrimPrefix(dsn, `badger://`)
		badgerCfg := badger.DefaultOptions(path).
			WithInMemory(path == ``).
			WithLoggingLevel(2)
		db, err := badger.Open(badgerCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("badger: open: %w", err)
		}

		return badgerstore.New(db, a.l), func() { db.Close() }, nil
	}

	u, err := dburl.Parse(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse store dsn: %w", err)
	}

	switch u.Driver {
	case `postgres`, `pgx`:
		a.l.Info("init pgstore")

		conn, err := pgxpool.New(ctx, u.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool: new: %w", err)
		}

		for i, m := range pgstore.Migrations {
			if _, err := conn.Exec(ctx, m.SQL); err != nil {
				conn.Close()
				return nil, nil, fmt.Errorf("migration #%d (%s): %w", i, m.Desc, err)
			}
		}

		return pgstore.New(conn, a.l), func() { conn.Close() }, nil
	case `sqlite3`:
		a.l.Info("init sqlitestore")

		db, err := sql.Open(`sqlite3`, u.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: open: %w", err)
		}

		s, err := sqlitestore.New(db, a.l)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("sqlitestore: new: %w", err)
		}

		return s, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s; support: mem, badger, postgres, sqlite3", u.Driver)
	}
}

func handleCORS(h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{`*`},
		AllowedMethods:   []string{`POST`, `GET`},
		AllowedHeaders:   []string{`*`},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler(h)
}
