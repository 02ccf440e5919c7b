package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/matst80/slask-browser/pkg/browse"
	"github.com/matst80/slask-browser/pkg/catalog"
	"github.com/matst80/slask-browser/pkg/common"
	"github.com/matst80/slask-browser/pkg/config"
	"github.com/matst80/slask-browser/pkg/server"
	"github.com/matst80/slask-browser/pkg/session"
	"github.com/matst80/slask-browser/pkg/tracking"
	"github.com/matst80/slask-browser/pkg/types"
)

var configFile = flag.String("config", "", "path to a browser.yaml, defaults to ./browser.yaml when present")
var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")

func newStore(cfg *config.Config) (session.Store, func(ctx context.Context) error) {
	if cfg.RedisUrl == "" {
		log.Println("No redis url provided, sessions are kept in memory")
		return session.NewMemoryStore(), nil
	}
	store := session.NewRedisStore(cfg.RedisUrl, cfg.RedisPassword, cfg.RedisDb, cfg.SessionTTL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Printf("Redis at %s not reachable yet: %v", cfg.RedisUrl, err)
	} else {
		log.Printf("Session store enabled, url: %s", cfg.RedisUrl)
	}
	return store, func(ctx context.Context) error {
		return store.Close()
	}
}

func newTracking(cfg *config.Config) types.Tracking {
	if cfg.RabbitUrl == "" {
		return nil
	}
	trk, err := tracking.NewRabbitTracking(cfg.RabbitUrl, cfg.Country)
	if err != nil {
		log.Printf("Failed to create rabbit tracking, continuing without: %v", err)
		return nil
	}
	log.Println("Tracking enabled")
	return trk
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	tag := cfg.Language()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetchCtx, cancelFetch := context.WithTimeout(ctx, cfg.FetchTimeout)
	c := catalog.NewLoader(cfg.CatalogUrl, cfg.FetchTimeout, tag).Load(fetchCtx)
	cancelFetch()

	store, closeStore := newStore(cfg)
	trk := newTracking(cfg)

	opts := session.DefaultOptions()
	opts.Engine = browse.NewEngine(tag)
	opts.PageSize = cfg.PageSize
	opts.Debounce = cfg.Debounce
	opts.OnSearch = server.TrackSearches(trk)
	sessions := session.NewManager(c, store, opts)

	pruneCtx, stopPruning := context.WithCancel(context.Background())
	sessions.StartPruning(pruneCtx, cfg.PruneInterval, cfg.SessionTTL)

	ws := server.NewWebServer(c, sessions, trk)
	timeouts := cfg.Timeouts()
	servers := []common.NamedServer{
		{Name: "browser api", Server: common.NewServerWithTimeouts(&http.Server{Addr: cfg.ListenAddress, Handler: ws.ClientHandler()}, timeouts)},
	}
	if cfg.DebugAddress != "" {
		servers = append(servers, common.NamedServer{
			Name:   "debug",
			Server: common.NewServerWithTimeouts(&http.Server{Addr: cfg.DebugAddress, Handler: ws.DebugHandler(*enableProfiling || cfg.EnableProfiling)}, timeouts),
		})
	}

	err = common.RunServersWithShutdown(ctx, timeouts, servers,
		func(ctx context.Context) error {
			stopPruning()
			sessions.Close()
			return nil
		},
		func(ctx context.Context) error {
			if trk == nil {
				return nil
			}
			return trk.Close()
		},
		closeStore,
	)
	if err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
