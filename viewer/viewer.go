// Package viewer serves a live view of in-progress self-play games: a
// small HTTP page that renders board states pushed over a websocket.
package viewer

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nagi-ovo/alphazero-gomoku/game"
)

// Update is one board snapshot pushed to connected clients.
type Update struct {
	Size     int    `json:"size"`
	Cells    []int8 `json:"cells"`
	ToMove   int8   `json:"to_move"`
	LastMove int    `json:"last_move"`
	Ply      int    `json:"ply"`
}

// Server broadcasts board updates to all connected websocket clients. Slow
// clients are dropped rather than back-pressuring self-play.
type Server struct {
	addr     string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan Update
}

// New creates a server that will listen on addr.
func New(addr string) *Server {
	return &Server{
		addr:     addr,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		clients:  make(map[*websocket.Conn]chan Update),
	}
}

// Start serves the page and websocket endpoint in a background goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)

	go func() {
		log.Info().Str("addr", s.addr).Msg("viewer listening")
		if err := http.ListenAndServe(s.addr, mux); err != nil {
			log.Error().Err(err).Msg("viewer stopped")
		}
	}()
}

// Publish pushes a state snapshot to every connected client.
func (s *Server) Publish(state *game.State) {
	update := Update{
		Size:     state.Size,
		Cells:    make([]int8, len(state.Cells)),
		ToMove:   int8(state.ToMove),
		LastMove: state.LastMove,
		Ply:      state.Ply,
	}
	for i, c := range state.Cells {
		update.Cells[i] = int8(c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, ch := range s.clients {
		select {
		case ch <- update:
		default:
			// Client is not keeping up; close it out.
			delete(s.clients, conn)
			close(ch)
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	ch := make(chan Update, 64)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("viewer client connected")

	go func() {
		defer conn.Close()
		for update := range ch {
			if err := conn.WriteJSON(update); err != nil {
				s.drop(conn)
				return
			}
		}
	}()

	// Drain reads so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		close(ch)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>gomoku self-play</title>
<style>
body { background: #1e1e1e; color: #ddd; font-family: monospace; text-align: center; }
canvas { background: #b8863b; margin-top: 1em; }
</style></head>
<body>
<h3>live self-play</h3>
<div id="status">connecting...</div>
<canvas id="board" width="450" height="450"></canvas>
<script>
const canvas = document.getElementById('board');
const ctx = canvas.getContext('2d');
const status = document.getElementById('status');
const ws = new WebSocket('ws://' + location.host + '/ws');
ws.onopen = () => { status.textContent = 'connected'; };
ws.onclose = () => { status.textContent = 'disconnected'; };
ws.onmessage = (ev) => {
  const u = JSON.parse(ev.data);
  const n = u.size, cell = canvas.width / n;
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  ctx.strokeStyle = '#000';
  for (let i = 0; i < n; i++) {
    ctx.beginPath();
    ctx.moveTo(cell / 2, cell / 2 + i * cell); ctx.lineTo(canvas.width - cell / 2, cell / 2 + i * cell);
    ctx.moveTo(cell / 2 + i * cell, cell / 2); ctx.lineTo(cell / 2 + i * cell, canvas.height - cell / 2);
    ctx.stroke();
  }
  for (let a = 0; a < u.cells.length; a++) {
    if (u.cells[a] === 0) continue;
    const r = Math.floor(a / n), c = a % n;
    ctx.beginPath();
    ctx.arc(cell / 2 + c * cell, cell / 2 + r * cell, cell * 0.4, 0, 2 * Math.PI);
    ctx.fillStyle = u.cells[a] === 1 ? '#111' : '#eee';
    ctx.fill();
    if (a === u.last_move) { ctx.strokeStyle = '#e33'; ctx.stroke(); }
  }
  status.textContent = 'ply ' + u.ply;
};
</script>
</body>
</html>`
