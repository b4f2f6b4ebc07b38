package copier

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures progress sink calls for assertions.
type recorder struct {
	labels   []string
	percents []int
	finished bool
}

func (r *recorder) SetLabel(label string) { r.labels = append(r.labels, label) }
func (r *recorder) SetPercent(pct int)    { r.percents = append(r.percents, pct) }
func (r *recorder) Finish()               { r.finished = true }

func newTestEngine(rec *recorder, out *bytes.Buffer, chunkSize int64) *Engine {
	e := New(rec, out)
	e.ChunkSize = chunkSize
	// Constant dirty counter: the flush estimate degenerates and the engine
	// prints the syncing line directly.
	e.Dirty = func() uint64 { return 0 }
	return e
}

func writeTestFiles(t *testing.T, srcLen, dstLen int) (src, dst string, content []byte) {
	t.Helper()
	dir := t.TempDir()

	content = make([]byte, srcLen)
	_, err := rand.Read(content)
	require.NoError(t, err)

	src = filepath.Join(dir, "image.img")
	require.NoError(t, os.WriteFile(src, content, 0o644))

	dst = filepath.Join(dir, "disk")
	require.NoError(t, os.WriteFile(dst, make([]byte, dstLen), 0o644))
	return src, dst, content
}

func TestRunPartialFinalChunk(t *testing.T) {
	// Source length is not a multiple of the chunk size, so the last chunk
	// is shorter than the rest.
	src, dst, content := writeTestFiles(t, 2500, 10*1024)

	rec := &recorder{}
	var out bytes.Buffer
	require.NoError(t, newTestEngine(rec, &out, 1024).Run(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, got[:2500])

	// Progress is emitted before each of the three transfers.
	assert.Equal(t, []int{0, 40, 81}, rec.percents)
	assert.Equal(t, []string{"copying... (1/2)"}, rec.labels)
	assert.True(t, rec.finished)
	assert.Equal(t, "syncing... (2/2)\nfinished\n", out.String())
}

func TestRunLeavesTrailingBytesUntouched(t *testing.T) {
	src, dst, content := writeTestFiles(t, 37, 10<<20)

	rec := &recorder{}
	var out bytes.Buffer
	require.NoError(t, newTestEngine(rec, &out, DefaultChunkSize).Run(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Len(t, got, 10<<20)
	assert.Equal(t, content, got[:37])
	assert.Equal(t, make([]byte, 10<<20-37), got[37:])
}

func TestRunEmptySource(t *testing.T) {
	src, dst, _ := writeTestFiles(t, 0, 1024)

	rec := &recorder{}
	var out bytes.Buffer
	require.NoError(t, newTestEngine(rec, &out, 1024).Run(src, dst))

	// Nothing to transfer, so no copy-phase percentages are emitted.
	assert.Empty(t, rec.percents)
	assert.Equal(t, "syncing... (2/2)\nfinished\n", out.String())
}

func TestRunProgressBounds(t *testing.T) {
	src, dst, _ := writeTestFiles(t, 5000, 8*1024)

	rec := &recorder{}
	var out bytes.Buffer
	require.NoError(t, newTestEngine(rec, &out, 512).Run(src, dst))

	prev := 0
	for _, pct := range rec.percents {
		assert.GreaterOrEqual(t, pct, prev)
		assert.LessOrEqual(t, pct, 100)
		prev = pct
	}
}

func TestRunMissingDestination(t *testing.T) {
	src, _, _ := writeTestFiles(t, 16, 16)
	dst := filepath.Join(t.TempDir(), "missing")

	err := newTestEngine(&recorder{}, &bytes.Buffer{}, 1024).Run(src, dst)
	require.Error(t, err)
	assert.ErrorContains(t, err, "for writing")
}

func TestRunMissingSource(t *testing.T) {
	err := newTestEngine(&recorder{}, &bytes.Buffer{}, 1024).
		Run(filepath.Join(t.TempDir(), "missing"), "/dev/null")
	assert.Error(t, err)
}
