package www

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/angas/essentwatch-go/config"
	"github.com/angas/essentwatch-go/database"
	"github.com/angas/essentwatch-go/types"
)

type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	db     *database.Database
	hub    *Hub
}

//go:embed static
var embeddedStaticDir embed.FS

func StartServer(db *database.Database, config config.AppConfigApi) *Server {
	logger := slog.Default().With("module", "www")

	s := &Server{
		logger: logger,
		config: config,
		db:     db,
		hub:    NewHub(logger),
	}

	go s.hub.Run()

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	http.Handle("/", staticFilesHandler(config.WwwDir))

	http.Handle("/api/prices", logReqMW(NewPricesHandler(
		logger.With(slog.String("handler", "prices")), s.db)))

	http.Handle("/api/chart", logReqMW(NewChartHandler(
		logger.With(slog.String("handler", "chart")), s.db)))

	http.Handle("/api/log", logReqMW(NewLogHandler(
		logger.With(slog.String("handler", "log")), s.db)))

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
	})

	return s
}

// currentPrices is the payload pushed to websocket clients: the tariff
// covering the current hour, nil when unknown.
type currentPrices struct {
	Time        string   `json:"time"`
	Electricity *float64 `json:"electricity"`
	Gas         *float64 `json:"gas"`
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", "port", s.config.Port)
	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	// Keeping state to avoid spamming logs
	fetchErrorState := map[types.Commodity]bool{}

	for {
		select {
		case err := <-srvErrors:
			if err != nil {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return

		case now := <-ticker.C:
			data := currentPrices{Time: now.UTC().Format(time.RFC3339)}
			for _, commodity := range types.Commodities() {
				row, err := s.db.GetTariffForTime(ctx, commodity, now)
				if err != nil {
					if !fetchErrorState[commodity] {
						fetchErrorState[commodity] = true
						s.logger.Warn("no tariff for current hour",
							slog.String("commodity", string(commodity)),
							slog.Any("error", err))
					}
					continue
				}
				fetchErrorState[commodity] = false
				price := row.Price
				if commodity == types.CommodityGas {
					data.Gas = &price
				} else {
					data.Electricity = &price
				}
			}

			buf, err := json.Marshal(data)
			if err != nil {
				s.logger.Error("marshaling current prices failed", slog.Any("error", err))
				continue
			}
			s.hub.Broadcast <- buf
		}
	}
}

func staticFilesHandler(extDir *string) http.Handler {
	if extDir != nil && *extDir != "" {
		staticDir := path.Join(*extDir, "static")
		if _, err := os.Stat(staticDir); err == nil {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	fsys, err := fs.Sub(embeddedStaticDir, "static")
	if err != nil {
		log.Panic(err)
	}
	return http.FileServer(http.FS(fsys))
}
