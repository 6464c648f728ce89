package loader

import (
	"io"
	"sync/atomic"
)

// emitEvery is the byte interval between progress events.
const emitEvery = 1 << 20

// Progress is the payload of a parse_progress event. Field names are
// part of the wire contract.
type Progress struct {
	Path       string  `json:"path"`
	ReadBytes  int64   `json:"readBytes"`
	TotalBytes int64   `json:"totalBytes"`
	Percent    float64 `json:"percent"`
	Done       bool    `json:"done"`
	Canceled   bool    `json:"canceled"`
}

// ProgressFunc receives progress events during a load.
type ProgressFunc func(Progress)

// progressReader counts bytes flowing out of inner and reports after
// every emitEvery bytes and at end of stream. When the cancel flag is
// observed at a read step it reports end-of-stream immediately; the
// truncated data then fails the parse, which is the cooperative
// cancellation mechanism.
type progressReader struct {
	inner      io.Reader
	path       string
	readBytes  int64
	totalBytes int64
	lastEmit   int64
	cancel     *atomic.Bool
	emit       ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	if r.cancel != nil && r.cancel.Load() {
		r.report(true)
		return 0, io.EOF
	}
	n, err := r.inner.Read(p)
	r.readBytes += int64(n)
	if r.readBytes-r.lastEmit >= emitEvery || err == io.EOF {
		r.report(err == io.EOF)
		r.lastEmit = r.readBytes
	}
	return n, err
}

func (r *progressReader) report(done bool) {
	if r.emit == nil {
		return
	}
	percent := 0.0
	if r.totalBytes > 0 {
		percent = float64(r.readBytes) / float64(r.totalBytes) * 100.0
	}
	r.emit(Progress{
		Path:       r.path,
		ReadBytes:  r.readBytes,
		TotalBytes: r.totalBytes,
		Percent:    percent,
		Done:       done,
		Canceled:   r.cancel != nil && r.cancel.Load(),
	})
}
