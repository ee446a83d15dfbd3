// Package dropfolder mints every request manifest that lands in a directory.
// A manifest is a MintRequest saved as <name>.mint.json; its outcome is
// written next to it as <name>.result.json.
package dropfolder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"JerseyFM/core/pipeline"
	"JerseyFM/logger"
	"JerseyFM/model"

	"github.com/fsnotify/fsnotify"
)

const (
	ManifestSuffix = ".mint.json"
	ResultSuffix   = ".result.json"
)

// Minter runs one mint request.
type Minter interface {
	Execute(ctx context.Context, req *model.MintRequest, observe pipeline.Observer) (*pipeline.Result, error)
}

// Result is what gets written for a processed manifest.
type Result struct {
	Status       string `json:"status"`
	AssetID      string `json:"assetId,omitempty"`
	Signature    string `json:"signature,omitempty"`
	ExplorerLink string `json:"explorerLink,omitempty"`
	Message      string `json:"message,omitempty"`
	FailedState  string `json:"failedState,omitempty"`
}

// Watcher processes manifests one at a time, in arrival order.
type Watcher struct {
	dir    string
	minter Minter

	mu        sync.Mutex
	processed map[string]bool
}

// New creates a watcher over dir.
func New(dir string, minter Minter) *Watcher {
	return &Watcher{dir: dir, minter: minter, processed: make(map[string]bool)}
}

// ResultPath is where the outcome of manifest is written.
func ResultPath(manifest string) string {
	return strings.TrimSuffix(manifest, ManifestSuffix) + ResultSuffix
}

// Scan processes manifests already in the directory that have no result yet.
func (w *Watcher) Scan(ctx context.Context) error {
	matches, err := filepath.Glob(filepath.Join(w.dir, "*"+ManifestSuffix))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if _, err := os.Stat(ResultPath(m)); err == nil {
			w.markDone(m)
			continue
		}
		w.Process(ctx, m)
	}
	return nil
}

// Run watches the directory until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching for mint manifests", logger.String("dir", w.dir))

	if err := w.Scan(ctx); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ManifestSuffix) {
				continue
			}
			// Writers create then fill the file; a partial manifest fails to
			// decode and is picked up again on the next write.
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.Process(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logger.ErrorField(err))
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) markDone(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.processed[path] {
		return false
	}
	w.processed[path] = true
	return true
}

func (w *Watcher) isDone(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processed[path]
}

// Process mints one manifest and writes its result. It reports whether the
// manifest was consumed; undecodable files are left for a later attempt.
func (w *Watcher) Process(ctx context.Context, path string) bool {
	if w.isDone(path) {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read manifest", logger.String("path", path), logger.ErrorField(err))
		return false
	}
	var req model.MintRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Debug("manifest not decodable yet", logger.String("path", path), logger.ErrorField(err))
		return false
	}
	if !w.markDone(path) {
		return false
	}

	logger.Info("minting manifest", logger.String("path", path))
	res, err := w.minter.Execute(ctx, &req, nil)
	out := Result{Status: "success"}
	if err != nil {
		out = Result{Status: "error", Message: err.Error()}
		if res != nil {
			out.FailedState = res.Failed.String()
		}
	} else {
		out.AssetID = res.Outcome.AssetID
		out.Signature = res.Outcome.Signature
		out.ExplorerLink = res.Outcome.ExplorerLink
	}

	if err := writeResult(ResultPath(path), out); err != nil {
		logger.Error("failed to write mint result", logger.String("path", path), logger.ErrorField(err))
	}
	return true
}

func writeResult(path string, r Result) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
