package stream

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/graphsim/internal/session"
)

//go:embed index.html
var indexHTML []byte

const shutdownTimeout = 5 * time.Second

func NewMux(h *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})
	return mux
}

type Config struct {
	Addr     string
	Interval time.Duration
	Logger   *slog.Logger
}

// Serve runs the HTTP server and the session loop until ctx is cancelled or
// either fails. The session is owned by the loop for the whole call.
func Serve(ctx context.Context, sess *session.Session, cfg Config) error {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second / 60
	}

	cmds := make(chan session.Command, 64)
	hub := NewHub(cmds, cfg.Logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewMux(hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg.Logger.Info("serving layout", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sess.Run(ctx, cfg.Interval, cmds, hub.Broadcast)
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
