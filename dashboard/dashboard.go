// Package dashboard serves a small HTTP page showing a live view of a
// Framer's Stats, pushed over a websocket so the page updates without
// polling.
package dashboard // import "github.com/go-daq/framewire/dashboard"

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-daq/framewire"
	"github.com/go-daq/framewire/log"
	"golang.org/x/net/websocket"
)

// Server serves the status page for a single Framer.
type Server struct {
	framer *framewire.Framer
	msg    log.MsgStream
	srv    *http.Server
	freq   time.Duration
	quit   chan struct{}
}

// New builds a Server listening on addr, reporting on f's Stats every
// freq. The server is not started until Serve is called.
func New(addr string, f *framewire.Framer, freq time.Duration) *Server {
	if freq <= 0 {
		freq = time.Second
	}
	s := &Server{
		framer: f,
		msg:    log.New("dashboard", log.LvlInfo, nil),
		freq:   freq,
		quit:   make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.home)
	mux.Handle("/status", websocket.Handler(s.status))
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Serve runs the HTTP server until ctx is done or Close is called.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = s.srv.Shutdown(context.Background())
	}()

	s.msg.Infof("starting dashboard on %q...", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		select {
		case <-s.quit:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}
	}
	return err
}

// Close shuts the HTTP server down.
func (s *Server) Close() error {
	close(s.quit)
	return s.srv.Shutdown(context.Background())
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	t, err := template.New("framewire-dashboard").Parse(homePage)
	if err != nil {
		s.msg.Errorf("could not parse dashboard home page: %+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := t.Execute(w, nil); err != nil {
		s.msg.Errorf("could not execute dashboard home page: %+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (s *Server) status(ws *websocket.Conn) {
	defer ws.Close()

	tick := time.NewTicker(s.freq)
	defer tick.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-tick.C:
			st := s.framer.Status()
			data := struct {
				TX           uint64 `json:"tx"`
				GoodRX       uint64 `json:"good_rx"`
				BadRX        uint64 `json:"bad_rx"`
				QueuedBytes  int    `json:"queued_bytes"`
				LastActivity string `json:"last_activity"`
				Timestamp    string `json:"timestamp"`
			}{
				TX:           st.TX,
				GoodRX:       st.GoodRX,
				BadRX:        st.BadRX,
				QueuedBytes:  st.QueuedBytes,
				LastActivity: st.LastActivity.UTC().Format("2006-01-02 15:04:05"),
				Timestamp:    time.Now().UTC().Format("2006-01-02 15:04:05") + " (UTC)",
			}
			if err := websocket.JSON.Send(ws, data); err != nil {
				s.msg.Errorf("could not send /status report to websocket client: %+v", err)
				var nerr net.Error
				if errors.As(err, &nerr) && nerr.Timeout() {
					return
				}
			}
		}
	}
}

const homePage = `<html>
<head>
    <title>framewire dashboard</title>
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<style>
	body { font-family: monospace; }
	table { border-collapse: collapse; }
	td, th { padding: 4px 12px; text-align: left; }
	</style>
<script type="text/javascript">
	"use strict"

	window.onload = function() {
		var ws = new WebSocket("ws://"+location.host+"/status");
		ws.onmessage = function(event) {
			var data = JSON.parse(event.data);
			document.getElementById("tx").innerText = data.tx;
			document.getElementById("good-rx").innerText = data.good_rx;
			document.getElementById("bad-rx").innerText = data.bad_rx;
			document.getElementById("queued").innerText = data.queued_bytes;
			document.getElementById("last-activity").innerText = data.last_activity;
			document.getElementById("updated").innerText = data.timestamp;
		};
	};
</script>
</head>
<body>
	<h2>framewire dashboard</h2>
	<table>
		<tr><th>TX</th><td id="tx">N/A</td></tr>
		<tr><th>GoodRX</th><td id="good-rx">N/A</td></tr>
		<tr><th>BadRX</th><td id="bad-rx">N/A</td></tr>
		<tr><th>Queued bytes</th><td id="queued">N/A</td></tr>
		<tr><th>Last activity</th><td id="last-activity">N/A</td></tr>
	</table>
	<p>Last update: <span id="updated">N/A</span></p>
</body>
</html>
`
