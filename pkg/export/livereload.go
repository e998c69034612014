// Package export renders the mind map to files and serves a live preview.
//
// This file holds the preview's live reload: a hub that watches the dataset
// file and pushes a Server-Sent Event to every open page when it changes.
package export

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/debug"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"
)

const (
	reloadDelay   = 200 * time.Millisecond
	keepAliveTick = 15 * time.Second
)

// reloadEvent is the payload of an SSE "reload" event.
type reloadEvent struct {
	File string    `json:"file"`
	At   time.Time `json:"at"`
}

// LiveReloadHub fans dataset changes out to connected preview pages.
type LiveReloadHub struct {
	path    string
	delay   time.Duration
	watcher *fsnotify.Watcher // nil when there is no file to watch

	mu     sync.Mutex
	subs   map[int]chan reloadEvent
	nextID int
	timer  *time.Timer
	closed bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewLiveReloadHub creates a hub for the dataset at path. An empty path
// (the embedded dataset) gives a hub that serves clients but never fires
// on its own.
func NewLiveReloadHub(path string) (*LiveReloadHub, error) {
	h := &LiveReloadHub{
		path:  path,
		delay: reloadDelay,
		subs:  make(map[int]chan reloadEvent),
		done:  make(chan struct{}),
	}
	if path == "" {
		return h, nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	h.watcher = w
	return h, nil
}

// Start watches the dataset's directory, so saves that replace the file by
// rename are still seen.
func (h *LiveReloadHub) Start() error {
	if h.watcher == nil {
		return nil
	}
	if err := h.watcher.Add(filepath.Dir(h.path)); err != nil {
		return fmt.Errorf("watch dataset dir: %w", err)
	}
	go h.watchLoop()
	return nil
}

// Stop ends watching and disconnects every client. Safe to call repeatedly.
func (h *LiveReloadHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		if h.watcher != nil {
			h.watcher.Close()
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		h.closed = true
		if h.timer != nil {
			h.timer.Stop()
		}
		for id, ch := range h.subs {
			close(ch)
			delete(h.subs, id)
		}
	})
}

// ClientCount returns the number of connected pages.
func (h *LiveReloadHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *LiveReloadHub) watchLoop() {
	target := filepath.Clean(h.path)
	for {
		select {
		case <-h.done:
			return
		case ev, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debug.Log("livereload: %s (%s)", ev.Name, ev.Op)
			h.schedule()
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			debug.Log("livereload: watcher error: %v", err)
		}
	}
}

// schedule notifies once the file has been quiet for h.delay. Editors
// write in bursts; the page should reload on the last write, not the first.
func (h *LiveReloadHub) schedule() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.delay, h.Notify)
}

// Notify sends a reload event to every connected page. A page that has not
// consumed its previous event is skipped.
func (h *LiveReloadHub) Notify() {
	ev := reloadEvent{File: filepath.Base(h.path), At: time.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// subscribe registers a client. ok is false once the hub has stopped.
func (h *LiveReloadHub) subscribe() (id int, events <-chan reloadEvent, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, nil, false
	}
	h.nextID++
	ch := make(chan reloadEvent, 1)
	h.subs[h.nextID] = ch
	return h.nextID, ch, true
}

func (h *LiveReloadHub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		close(ch)
		delete(h.subs, id)
	}
}

// SSEHandler streams "connected" once, then a "reload" per dataset change,
// with comment pings in between so idle proxies keep the stream open.
func (h *LiveReloadHub) SSEHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}
		id, events, ok := h.subscribe()
		if !ok {
			http.Error(w, "preview is shutting down", http.StatusServiceUnavailable)
			return
		}
		defer h.unsubscribe(id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		fmt.Fprint(w, "retry: 2000\n")
		writeEvent(w, "connected", map[string]string{"dataset": filepath.Base(h.path)})
		flusher.Flush()

		ping := time.NewTicker(keepAliveTick)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-h.done:
				return
			case <-ping.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case ev, ok := <-events:
				if !ok {
					return
				}
				writeEvent(w, "reload", ev)
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}

// liveReloadScript reconnects with backoff and, on reload, keeps the page's
// current selection in the query so the new page reopens it.
const liveReloadScript = `<script>
(function() {
  if (!window.EventSource) return;
  var delay = 1000;
  function reopen() {
    var q = new URLSearchParams(location.search);
    if (typeof state !== 'undefined' && state.selected) {
      q.set('selected', state.selected);
      q.set('tab', state.tab);
    } else {
      q.delete('selected');
      q.delete('tab');
    }
    var s = q.toString();
    location.replace(location.pathname + (s ? '?' + s : ''));
  }
  function connect() {
    var es = new EventSource('/__preview__/events');
    es.addEventListener('connected', function() { delay = 1000; });
    es.addEventListener('reload', reopen);
    es.onerror = function() {
      es.close();
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 30000);
    };
  }
  connect();
})();
</script>`

// injectLiveReload places the reload script before the closing body tag,
// or at the end of a page that has none.
func injectLiveReload(page string) string {
	i := strings.LastIndex(page, "</body>")
	if i < 0 {
		return page + liveReloadScript
	}
	return page[:i] + liveReloadScript + "\n" + page[i:]
}
