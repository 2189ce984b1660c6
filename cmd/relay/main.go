package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/board/engine-go/internal/collab"
	"github.com/inamate/board/engine-go/internal/config"
	"github.com/inamate/board/engine-go/internal/discovery"
	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/export"
	"github.com/inamate/board/engine-go/internal/typeid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	hub := collab.NewHub(cfg.MaxLayers)
	go hub.Run()

	exportHandler := export.NewHandler(func(roomID string) (export.Board, bool) {
		doc, ok := hub.Document(roomID)
		if !ok {
			return nil, false
		}
		return doc, true
	})

	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		createRoom(w, r, hub)
	}).Methods("POST")

	r.HandleFunc("/rooms/{roomId}/export.svg", exportHandler.ExportSVG).Methods("GET")
	r.HandleFunc("/rooms/{roomId}/export.pdf", exportHandler.ExportPDF).Methods("GET")

	// WebSocket endpoint
	origins := cfg.Origins()
	r.HandleFunc("/ws/rooms/{roomId}", func(w http.ResponseWriter, r *http.Request) {
		roomID := mux.Vars(r)["roomId"]
		if err := typeid.Validate(roomID, typeid.PrefixRoom); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hub.ServeWS(w, r, roomID, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.RelayPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down relay")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
		hub.Stop()
	}()

	if cfg.MDNSAdvertise {
		zone, err := discovery.Advertise(cfg.RelayPort)
		if err != nil {
			slog.Warn("mdns advertise failed", "error", err)
		} else {
			defer zone.Shutdown()
			slog.Info("advertising relay", "service", discovery.ServiceType)
		}
	}

	slog.Info("relay starting", "addr", addr, "maxLayers", cfg.MaxLayers)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		return
	}
}

// createRoom opens a new room. ?sample=true seeds it with one layer of
// each kind.
func createRoom(w http.ResponseWriter, r *http.Request, hub *collab.Hub) {
	board := document.NewBoard()
	if r.URL.Query().Get("sample") == "true" {
		board = document.NewSampleBoard()
	}

	roomID := typeid.NewRoomID()
	hub.CreateRoom(roomID, board)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"roomId": roomID})
}
