package export

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"

	"github.com/goccy/go-json"
)

// LoadFunc returns the current dataset.
type LoadFunc func() (*model.Dataset, error)

// PreviewOptions configures the preview server.
type PreviewOptions struct {
	Addr        string
	DatasetPath string // Watched for live reload; empty disables watching
	Title       string
	Load        LoadFunc
}

// PreviewServer serves the interactive page, regenerated from the dataset on
// every request, plus SVG and JSON views of it.
type PreviewServer struct {
	opts PreviewOptions
	hub  *LiveReloadHub

	mu   sync.Mutex
	last *model.Dataset // last dataset that loaded cleanly
}

// NewPreviewServer creates a server. Load must not be nil.
func NewPreviewServer(opts PreviewOptions) (*PreviewServer, error) {
	if opts.Load == nil {
		return nil, fmt.Errorf("preview: no dataset loader")
	}
	hub, err := NewLiveReloadHub(opts.DatasetPath)
	if err != nil {
		return nil, err
	}
	return &PreviewServer{opts: opts, hub: hub}, nil
}

// Handler returns the HTTP routes of the preview.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/map.svg", s.handleSVG)
	mux.HandleFunc("/principles.json", s.handleJSON)
	mux.HandleFunc("/__preview__/events", s.hub.SSEHandler())
	mux.HandleFunc("/__preview__/status", s.handleStatus)
	return mux
}

// dataset loads the current dataset. A failed reload keeps serving the last
// good one.
func (s *PreviewServer) dataset() (*model.Dataset, error) {
	ds, err := s.opts.Load()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.last != nil {
			return s.last, nil
		}
		return nil, err
	}
	s.last = ds
	return ds, nil
}

// stateFromQuery reads ?selected=N&tab=T. Bad values fall back to idle.
func stateFromQuery(r *http.Request) selection.State {
	id, err := strconv.Atoi(r.URL.Query().Get("selected"))
	if err != nil || id <= 0 {
		return selection.New()
	}
	tab, err := model.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		tab = model.DefaultTab
	}
	return selection.Focused(id, tab)
}

func (s *PreviewServer) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	ds, err := s.dataset()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	page, err := RenderInteractiveHTML(ds, stateFromQuery(r), s.opts.Title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(injectLiveReload(page)))
}

func (s *PreviewServer) handleSVG(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := RenderSVG(w, ds, stateFromQuery(r)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *PreviewServer) handleJSON(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(ds)
}

func (s *PreviewServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"dataset": s.opts.DatasetPath,
		"clients": s.hub.ClientCount(),
	})
}

// ListenAndServe serves until ctx is cancelled. ready, when non-nil,
// receives the bound address once the listener is up.
func (s *PreviewServer) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	if err := s.hub.Start(); err != nil {
		return err
	}
	defer s.hub.Stop()

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	if ready != nil {
		ready(ln.Addr().String())
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		s.hub.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
