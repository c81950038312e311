package visualizer

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

const maxSnapshotWorkers = 8

// SnapshotWriter saves every Nth frame as a PNG in the background.
type SnapshotWriter struct {
	dir    string
	every  int
	bounds image.Rectangle
	logger *log.Logger

	sem     chan struct{}
	wg      sync.WaitGroup
	written atomic.Uint64
}

func NewSnapshotWriter(dir string, every, width, height int, logger *log.Logger) (*SnapshotWriter, error) {
	if every <= 0 {
		return nil, errors.Errorf("snapshot interval must be positive, got %d", every)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create snapshot folder")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SnapshotWriter{
		dir:    dir,
		every:  every,
		bounds: image.Rect(0, 0, width, height),
		logger: logger,
		sem:    make(chan struct{}, maxSnapshotWorkers),
	}, nil
}

func (w *SnapshotWriter) Path(frame int) string {
	return filepath.Join(w.dir, fmt.Sprintf("fr%05d.png", frame+1))
}

// Capture copies buf and writes it if frame falls on the interval. It
// blocks only when all workers are busy.
func (w *SnapshotWriter) Capture(frame int, buf []byte) {
	if frame%w.every != 0 {
		return
	}
	img := image.NewRGBA(w.bounds)
	copy(img.Pix, buf)

	w.wg.Add(1)
	w.sem <- struct{}{}
	go func() {
		defer w.wg.Done()
		defer func() { <-w.sem }()
		if err := gg.SavePNG(w.Path(frame), img); err != nil {
			w.logger.Printf("snapshot frame %d: %v", frame, err)
			return
		}
		w.written.Add(1)
	}()
}

func (w *SnapshotWriter) Written() uint64 { return w.written.Load() }

// Close waits for pending writes.
func (w *SnapshotWriter) Close() error {
	w.wg.Wait()
	return nil
}
