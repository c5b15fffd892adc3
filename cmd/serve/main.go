// Command serve streams recorded snapshot frames over a websocket so a
// browser visualizer can replay a run. Like cmd/render it only reads
// frames by index; it never mutates them.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/joseph-kwk/Pollution-Dispersion-Simulator/telemetry"
)

// upgrader promotes HTTP requests on /ws to websocket connections.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type server struct {
	dir      string
	manifest *telemetry.Manifest
	interval time.Duration
}

func main() {
	snapshotDir := flag.String("snapshots", "", "Directory containing manifest.json and frame files")
	addr := flag.String("addr", ":8080", "Listen address")
	fps := flag.Int("fps", 20, "Frames streamed per second")

	flag.Parse()

	if *snapshotDir == "" {
		slog.Error("missing -snapshots directory")
		os.Exit(1)
	}
	m, err := telemetry.ReadManifest(*snapshotDir)
	if err != nil {
		slog.Error("failed to read manifest", "error", err)
		os.Exit(1)
	}
	if m.Frames == 0 {
		slog.Error("snapshot directory holds no frames")
		os.Exit(1)
	}

	s := &server{
		dir:      *snapshotDir,
		manifest: m,
		interval: time.Second / time.Duration(max(*fps, 1)),
	}

	http.HandleFunc("/manifest", s.manifestHandler)
	http.HandleFunc("/ws", s.wsHandler)

	slog.Info("serving recorded run", "addr", *addr, "frames", m.Frames)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// manifestHandler exposes the run's grid descriptor so clients can size
// their canvas before the stream starts.
func (s *server) manifestHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.manifest); err != nil {
		slog.Error("failed to encode manifest", "error", err)
	}
}

// wsHandler streams frames in step order, looping until the client goes
// away.
func (s *server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			slog.Error("websocket upgrade failed", "error", err)
		}
		return
	}
	defer conn.Close()
	slog.Info("client connected", "remote", r.RemoteAddr)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for step := 0; ; step = (step + 1) % s.manifest.Frames {
		st, err := telemetry.ReadFrame(s.dir, s.manifest, step)
		if err != nil {
			slog.Error("failed to read frame", "step", step, "error", err)
			return
		}
		frame := telemetry.Frame{
			Step:          st.Step,
			U:             st.Velocity.U,
			V:             st.Velocity.V,
			Concentration: st.Concentration.Values,
			Converged:     st.Converged(),
		}
		if err := conn.WriteJSON(frame); err != nil {
			slog.Info("client disconnected", "remote", r.RemoteAddr)
			return
		}
		<-ticker.C
	}
}
