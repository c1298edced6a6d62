package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/visualgrid/internal/ctxlog"
)

const statusShutdownTimeout = 5 * time.Second

// handleHealth reports that the host process is up.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(a.ctx).Debug("Health requested.", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// handleEntries lists the entry points of the loaded environment, one
// "id(param type, ...)" per line.
func (a *App) handleEntries(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, e := range a.env.Entries() {
		fmt.Fprintf(w, "%s(", e.ID)
		for i, p := range e.Parameters {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%s %s", p.Name, p.Type.FriendlyName())
		}
		fmt.Fprintln(w, ")")
	}
}

// newServeMux routes /health, /entries and the compiler metrics.
func (a *App) newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.handleHealth)
	mux.HandleFunc("/entries", a.handleEntries)
	mux.Handle("/metrics", a.metrics.Handler())
	return mux
}

// startStatusServer serves newServeMux on the configured port while a
// command runs. Port 0 leaves it off.
func (a *App) startStatusServer() {
	logger := ctxlog.FromContext(a.ctx)
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Status server disabled.")
		return
	}

	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.newServeMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("📡 Status server listening", "address", addr, "entries", len(a.env.Entries()))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server stopped", "error", err)
		}
	}()
}

func (a *App) stopStatusServer() error {
	if a.httpServer == nil {
		return nil
	}
	logger := ctxlog.FromContext(a.ctx)

	ctx, cancel := context.WithTimeout(a.ctx, statusShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Status server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Status server stopped.")
	return nil
}
