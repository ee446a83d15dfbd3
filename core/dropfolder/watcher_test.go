package dropfolder

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"JerseyFM/core/pipeline"
	"JerseyFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinter struct {
	mu   sync.Mutex
	err  error
	reqs []*model.MintRequest
}

func (f *fakeMinter) Execute(_ context.Context, req *model.MintRequest, _ pipeline.Observer) (*pipeline.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return &pipeline.Result{Failed: pipeline.StateUploadingCover}, f.err
	}
	return &pipeline.Result{Outcome: &model.MintOutcome{AssetID: "A1", Signature: "S1", ExplorerLink: "link"}}, nil
}

func (f *fakeMinter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

const manifest = `{"coverFileName":"c.png","audioFileName":"a.wav","ownerAddress":"Addr1","songTitle":"T","artistName":"A"}`

func readResult(t *testing.T, path string) Result {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r Result
	require.NoError(t, json.Unmarshal(data, &r))
	return r
}

func TestResultPath(t *testing.T) {
	assert.Equal(t, "/drop/song.result.json", ResultPath("/drop/song.mint.json"))
}

func TestProcessWritesOutcome(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mint.json")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	m := &fakeMinter{}
	w := New(dir, m)
	require.True(t, w.Process(context.Background(), path))
	require.False(t, w.Process(context.Background(), path), "a manifest is minted once")

	r := readResult(t, ResultPath(path))
	assert.Equal(t, Result{Status: "success", AssetID: "A1", Signature: "S1", ExplorerLink: "link"}, r)
	require.Len(t, m.reqs, 1)
	assert.Equal(t, "Addr1", m.reqs[0].OwnerAddress)
}

func TestProcessWritesFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mint.json")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	w := New(dir, &fakeMinter{err: errors.New("Cover Image upload failed: boom")})
	require.True(t, w.Process(context.Background(), path))

	r := readResult(t, ResultPath(path))
	assert.Equal(t, "error", r.Status)
	assert.Equal(t, "Cover Image upload failed: boom", r.Message)
	assert.Equal(t, "uploading_cover", r.FailedState)
}

func TestProcessLeavesPartialManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mint.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"coverFile`), 0o644))

	m := &fakeMinter{}
	w := New(dir, m)
	assert.False(t, w.Process(context.Background(), path))
	assert.Zero(t, m.count())

	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	assert.True(t, w.Process(context.Background(), path))
}

func TestScanSkipsFinishedManifests(t *testing.T) {
	dir := t.TempDir()
	done := filepath.Join(dir, "old.mint.json")
	pending := filepath.Join(dir, "new.mint.json")
	require.NoError(t, os.WriteFile(done, []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(ResultPath(done), []byte(`{"status":"success"}`), 0o644))
	require.NoError(t, os.WriteFile(pending, []byte(manifest), 0o644))

	m := &fakeMinter{}
	require.NoError(t, New(dir, m).Scan(context.Background()))
	assert.Equal(t, 1, m.count())
	assert.FileExists(t, ResultPath(pending))
}

func TestRunPicksUpNewManifests(t *testing.T) {
	dir := t.TempDir()
	m := &fakeMinter{}
	w := New(dir, m)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(dir, "live.mint.json")
	require.Eventually(t, func() bool {
		// The watch may not be registered yet; rewriting re-triggers it.
		_ = os.WriteFile(path, []byte(manifest), 0o644)
		_, err := os.Stat(ResultPath(path))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, 1, m.count())
}
