// This file implements the DatasetWorker, which reloads the principle table
// off the UI thread whenever its YAML file changes.
package ui

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	rtdebug "runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/mindmap/pkg/dataset"
	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

// DefaultDebounceDelay coalesces the bursts of events editors produce on save.
const DefaultDebounceDelay = 200 * time.Millisecond

// ErrDatasetRemoved is reported when the watched file disappears.
var ErrDatasetRemoved = errors.New("dataset file was removed")

// WorkerState represents the current state of the background worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for file changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is loading the dataset.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerProcessing:
		return "processing"
	case WorkerStopped:
		return "stopped"
	}
	return fmt.Sprintf("WorkerState(%d)", int(s))
}

// WorkerError wraps errors with phase and retry context.
type WorkerError struct {
	Phase   string // "read", "parse", "watch"
	Cause   error
	Time    time.Time
	Retries int
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// Sender receives worker messages. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// WorkerConfig configures the DatasetWorker.
type WorkerConfig struct {
	Path          string
	DebounceDelay time.Duration
	Program       Sender
}

// DatasetWorker owns the file watcher for the dataset, coalesces change
// events and parses the file in the background.
type DatasetWorker struct {
	path          string
	debounceDelay time.Duration
	program       Sender

	mu         sync.RWMutex
	state      WorkerState
	dirty      bool
	started    bool
	dataset    *model.Dataset
	lastHash   string
	lastError  *WorkerError
	errorCount int
	timer      *time.Timer

	fsWatcher *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDatasetWorker creates a worker for cfg.Path. An empty path yields a
// worker that never reports anything.
func NewDatasetWorker(cfg WorkerConfig) (*DatasetWorker, error) {
	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}
	path := cfg.Path
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		path = abs
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &DatasetWorker{
		path:          path,
		debounceDelay: cfg.DebounceDelay,
		program:       cfg.Program,
		state:         WorkerIdle,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}, nil
}

// Start begins watching the dataset. Start is idempotent.
func (w *DatasetWorker) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if w.path == "" {
		close(w.done)
		return nil
	}

	// Seed the hash so an unchanged save does not trigger a reload.
	if data, err := os.ReadFile(w.path); err == nil {
		w.mu.Lock()
		w.lastHash = contentHash(data)
		w.mu.Unlock()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		close(w.done)
		return err
	}
	// Watch the directory: editors often save by renaming a temp file.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		close(w.done)
		return err
	}
	w.fsWatcher = fsw

	go w.watchLoop(fsw)
	return nil
}

// Stop halts the worker. Stop is idempotent.
func (w *DatasetWorker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	wasStarted := w.started
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// TriggerRefresh reloads the dataset now, bypassing the watcher.
func (w *DatasetWorker) TriggerRefresh() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if w.state == WorkerProcessing {
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	go w.process()
}

// Dataset returns the last dataset the worker loaded (may be nil).
func (w *DatasetWorker) Dataset() *model.Dataset {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dataset
}

// State returns the current worker state.
func (w *DatasetWorker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// LastError returns the most recent error (nil if the last load succeeded).
func (w *DatasetWorker) LastError() *WorkerError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// LastHash returns the content hash of the last successful load.
func (w *DatasetWorker) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// ResetHash forces the next load to report even unchanged content.
func (w *DatasetWorker) ResetHash() {
	w.mu.Lock()
	w.lastHash = ""
	w.mu.Unlock()
}

func (w *DatasetWorker) watchLoop(fsw *fsnotify.Watcher) {
	defer close(w.done)
	target := filepath.Clean(w.path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.fail("watch", ErrDatasetRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debounce()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.fail("watch", err)
		}
	}
}

// debounce restarts the reload timer.
func (w *DatasetWorker) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == WorkerStopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.process)
}

// process loads the dataset and notifies the UI.
func (w *DatasetWorker) process() {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	w.mu.Unlock()

	ds := w.load()

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if ds != nil {
		w.dataset = ds
	}
	wasDirty := w.dirty
	w.state = WorkerIdle
	w.mu.Unlock()

	if w.program != nil && ds != nil {
		w.program.Send(DatasetReadyMsg{Dataset: ds, Hash: w.LastHash()})
	}
	if wasDirty {
		go w.process()
	}
}

// load reads and parses the file. It returns nil when the content is
// unchanged or invalid; errors are reported through the program.
func (w *DatasetWorker) load() *model.Dataset {
	if w.path == "" {
		return nil
	}
	start := time.Now()

	var data []byte
	if werr := w.safeCompute("read", func() error {
		var err error
		data, err = os.ReadFile(w.path)
		return err
	}); werr != nil {
		w.report(werr)
		return nil
	}

	hash := contentHash(data)
	w.mu.RLock()
	lastHash := w.lastHash
	w.mu.RUnlock()
	if hash == lastHash && lastHash != "" {
		debug.Log("dataset worker: content unchanged (hash=%s)", hashPrefix(hash))
		w.recordError(nil)
		return nil
	}

	var ds *model.Dataset
	if werr := w.safeCompute("parse", func() error {
		var err error
		ds, err = dataset.Parse(data)
		return err
	}); werr != nil {
		w.report(werr)
		return nil
	}

	w.recordError(nil)
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()

	debug.Log("dataset worker: loaded %d principles in %v (hash=%s)",
		ds.Len(), time.Since(start), hashPrefix(hash))
	return ds
}

// safeCompute runs fn, turning errors and panics into a WorkerError.
func (w *DatasetWorker) safeCompute(phase string, fn func() error) *WorkerError {
	var result *WorkerError
	func() {
		defer func() {
			if r := recover(); r != nil {
				result = &WorkerError{
					Phase: phase,
					Cause: fmt.Errorf("panic: %v\n%s", r, rtdebug.Stack()),
					Time:  time.Now(),
				}
			}
		}()
		if err := fn(); err != nil {
			result = &WorkerError{Phase: phase, Cause: err, Time: time.Now()}
		}
	}()
	return result
}

func (w *DatasetWorker) fail(phase string, err error) {
	w.report(&WorkerError{Phase: phase, Cause: err, Time: time.Now()})
}

func (w *DatasetWorker) report(werr *WorkerError) {
	debug.Log("dataset worker: %v", werr)
	w.recordError(werr)
	if w.program != nil {
		w.program.Send(DatasetErrorMsg{Err: werr, Recoverable: true})
	}
}

func (w *DatasetWorker) recordError(err *WorkerError) {
	w.mu.Lock()
	w.lastError = err
	if err != nil {
		w.errorCount++
		err.Retries = w.errorCount
	} else {
		w.errorCount = 0
	}
	w.mu.Unlock()
}

// DatasetReadyMsg carries a freshly loaded dataset to the UI.
type DatasetReadyMsg struct {
	Dataset *model.Dataset
	Hash    string
}

// DatasetErrorMsg reports a failed reload. The UI keeps its current data.
type DatasetErrorMsg struct {
	Err         error
	Recoverable bool
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
