package display

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sightline-data/presence.report/internal/monitoring"
	"github.com/sightline-data/presence.report/internal/video"
)

// LiveView serves the annotated stream over HTTP as MJPEG and accepts
// pause/quit commands from the browser. It decouples interactive control
// from any native window system: the session controller only ever sees
// the polled Command.
type LiveView struct {
	server   *http.Server
	listener net.Listener

	mu      sync.Mutex
	cond    *sync.Cond
	frame   []byte // latest JPEG-encoded frame
	seq     int64
	pending Command
	closed  bool
}

// NewLiveView starts the live view server on the given listen address.
func NewLiveView(listen string) (*LiveView, error) {
	lv := &LiveView{}
	lv.cond = sync.NewCond(&lv.mu)

	mux := http.NewServeMux()
	mux.HandleFunc("/", lv.handleIndex)
	mux.HandleFunc("/live", lv.handleStream)
	mux.HandleFunc("/control", lv.handleControl)

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return nil, fmt.Errorf("live view listen on %s: %w", listen, err)
	}
	lv.listener = ln
	lv.server = &http.Server{Handler: mux}

	go func() {
		if err := lv.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			monitoring.Logf("live view server error: %v", err)
		}
	}()

	monitoring.Logf("live view at http://%s/", ln.Addr())
	return lv, nil
}

// Addr returns the bound address of the live view server.
func (lv *LiveView) Addr() string { return lv.listener.Addr().String() }

// Show encodes the frame as JPEG and hands it to connected viewers.
func (lv *LiveView) Show(frame *video.Frame) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame.RGBA(), &jpeg.Options{Quality: 80}); err != nil {
		return fmt.Errorf("encode live frame: %w", err)
	}

	lv.mu.Lock()
	lv.frame = buf.Bytes()
	lv.seq++
	lv.mu.Unlock()
	lv.cond.Broadcast()
	return nil
}

// Poll returns the pending operator command, delivering it at most once.
func (lv *LiveView) Poll() Command {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	cmd := lv.pending
	lv.pending = CommandNone
	return cmd
}

// Close shuts the server down and unblocks any streaming handlers.
func (lv *LiveView) Close() error {
	lv.mu.Lock()
	if lv.closed {
		lv.mu.Unlock()
		return nil
	}
	lv.closed = true
	lv.mu.Unlock()
	lv.cond.Broadcast()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return lv.server.Shutdown(ctx)
}

func (lv *LiveView) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html>
<title>presence.report live view</title>
<style>body{background:#111;color:#eee;font-family:sans-serif;text-align:center}</style>
<h1>Live View</h1>
<img src="/live" alt="live stream">
<p>
<button onclick="send('pause')">Pause / Resume</button>
<button onclick="send('quit')">Quit</button>
</p>
<script>
function send(c){fetch('/control',{method:'POST',body:new URLSearchParams({command:c})})}
</script>
`)
}

// handleStream writes a multipart MJPEG stream, one part per new frame.
func (lv *LiveView) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")

	var last int64
	for {
		lv.mu.Lock()
		for lv.seq == last && !lv.closed {
			lv.cond.Wait()
		}
		if lv.closed {
			lv.mu.Unlock()
			return
		}
		frame := lv.frame
		last = lv.seq
		lv.mu.Unlock()

		if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
			return
		}
		if _, err := w.Write(frame); err != nil {
			return
		}
		if _, err := fmt.Fprint(w, "\r\n"); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		select {
		case <-r.Context().Done():
			return
		default:
		}
	}
}

// handleControl records an operator command for the next Poll. "pause"
// and "resume" both map to CommandPause; the session treats any command
// received while paused as a resume.
func (lv *LiveView) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var cmd Command
	switch r.FormValue("command") {
	case "pause", "resume":
		cmd = CommandPause
	case "quit":
		cmd = CommandQuit
	default:
		http.Error(w, "unknown command", http.StatusBadRequest)
		return
	}

	lv.mu.Lock()
	lv.pending = cmd
	lv.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}
