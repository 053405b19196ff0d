// Command report-server serves recorded tracking sessions over HTTP:
// a session index, per-session count charts, and SQL debugging routes.
package main

import (
	"context"
	"flag"
	"fmt"
	"html"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sightline-data/presence.report/internal/httputil"
	"github.com/sightline-data/presence.report/internal/monitoring"
	"github.com/sightline-data/presence.report/internal/report"
	"github.com/sightline-data/presence.report/internal/store"
	"github.com/sightline-data/presence.report/internal/version"
)

var (
	dbFile      = flag.String("db", "sessions.db", "Session database path")
	listen      = flag.String("listen", ":8080", "Listen address")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	db, err := store.NewDB(*dbFile)
	if err != nil {
		monitoring.Logf("failed to open session db %s: %v", *dbFile, err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	if err := db.AttachAdminRoutes(mux); err != nil {
		monitoring.Logf("failed to attach admin routes: %v", err)
		os.Exit(1)
	}
	mux.HandleFunc("GET /{$}", handleIndex(db))
	mux.HandleFunc("GET /api/sessions", handleSessions(db))
	mux.HandleFunc("GET /api/sessions/{id}", handleSession(db))
	mux.HandleFunc("GET /sessions/{id}/chart", handleChart(db))

	server := &http.Server{
		Addr:    *listen,
		Handler: mux,
	}

	go func() {
		monitoring.Logf("report server listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			monitoring.Logf("failed to start server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	monitoring.Logf("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
	}
}

func handleIndex(db *store.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := db.ListSessions(100)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to list sessions: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<!DOCTYPE html><html><head><title>Tracking Sessions</title></head><body>`)
		fmt.Fprint(w, `<h1>Tracking Sessions</h1>`)
		fmt.Fprint(w, `<table border="1" cellpadding="4"><tr><th>When</th><th>Source</th><th>Outcome</th><th>Frames</th><th>Unique</th><th>Avg FPS</th><th>Chart</th></tr>`)
		for _, s := range sessions {
			fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%.1f</td><td><a href="/sessions/%s/chart">chart</a></td></tr>`,
				s.Timestamp.Format(time.RFC3339), html.EscapeString(s.Source), html.EscapeString(s.Outcome),
				s.FramesProcessed, s.TotalUnique, s.AvgFPS, s.SessionID)
		}
		fmt.Fprint(w, `</table></body></html>`)
	}
}

func handleSessions(db *store.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := db.ListSessions(500)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to list sessions: %v", err))
			return
		}
		httputil.WriteJSONOK(w, sessions)
	}
}

func handleSession(db *store.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		s, err := db.GetSession(id)
		if err != nil {
			httputil.NotFound(w, fmt.Sprintf("session not found: %v", err))
			return
		}
		samples, err := db.Samples(id)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to load samples: %v", err))
			return
		}
		identities, err := db.Identities(id)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to load identities: %v", err))
			return
		}
		httputil.WriteJSONOK(w, map[string]any{
			"session":    s,
			"samples":    samples,
			"identities": identities,
		})
	}
}

func handleChart(db *store.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		s, err := db.GetSession(id)
		if err != nil {
			http.Error(w, fmt.Sprintf("session not found: %v", err), http.StatusNotFound)
			return
		}
		samples, err := db.Samples(id)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to load samples: %v", err), http.StatusInternalServerError)
			return
		}
		if len(samples) == 0 {
			http.Error(w, "session has no samples", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := report.WriteSessionChart(w, s.Source, samples); err != nil {
			monitoring.Logf("chart render failed for %s: %v", id, err)
		}
	}
}

