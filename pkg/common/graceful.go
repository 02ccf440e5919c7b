package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"
)

// ShutdownHook is a function executed after the serve context is done but
// before the HTTP servers begin their graceful shutdown. If a hook returns
// an error it will be logged; shutdown continues regardless.
type ShutdownHook func(ctx context.Context) error

// NamedServer pairs a server with the name used in log lines.
type NamedServer struct {
	Name   string
	Server *http.Server
}

// RunServersWithShutdown starts every server and blocks until ctx is done,
// typically a signal.NotifyContext for SIGINT and SIGTERM. It then runs the
// hooks in order, each with its own timeout inside the overall shutdown
// deadline, and finally shuts the servers down.
//
// A server failing to listen cancels the others and its error is returned.
//
// Typical usage in main:
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//	common.RunServersWithShutdown(ctx, timeouts, servers, saveHook)
func RunServersWithShutdown(ctx context.Context, cfg TimeoutConfig, servers []NamedServer, hooks ...ShutdownHook) error {
	hookTimeout := cfg.Hook
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}
	shutdownTimeout := cfg.Shutdown
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var listenErr error
	var once sync.Once
	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s NamedServer) {
			defer wg.Done()
			log.Printf("starting %s on %s", s.Name, s.Server.Addr)
			if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("%s listen error: %v", s.Name, err)
				once.Do(func() {
					listenErr = err
				})
				cancel()
			}
		}(s)
	}

	<-ctx.Done()
	log.Printf("shutting down %d servers", len(servers))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(shutdownCtx, hookTimeout)
		if err := h(hCtx); err != nil {
			log.Printf("shutdown hook %d failed: %v", i, err)
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			log.Printf("shutdown hook %d timed out", i)
		}
		hCancel()
	}

	for _, s := range servers {
		if err := s.Server.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown of %s failed: %v", s.Name, err)
		} else {
			log.Printf("%s shutdown complete", s.Name)
		}
	}
	wg.Wait()
	return listenErr
}

// TimeoutConfig holds server and shutdown related timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

// NewServerWithTimeouts attaches timeout settings to an existing *http.Server or creates a new one if nil.
func NewServerWithTimeouts(base *http.Server, cfg TimeoutConfig) *http.Server {
	if base == nil {
		base = &http.Server{}
	}
	base.ReadHeaderTimeout = cfg.ReadHeader
	base.ReadTimeout = cfg.Read
	base.WriteTimeout = cfg.Write
	base.IdleTimeout = cfg.Idle
	return base
}
