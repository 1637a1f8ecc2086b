package component

import (
	"context"
	"sync"

	"github.com/matzehuels/netgraph/pkg/render/draw"
)

// Recorder is an in-memory Surface that keeps the last frame drawn on it.
// The server mounts one per view.
type Recorder struct {
	mu     sync.Mutex
	w, h   float64
	frames int
	last   []draw.Command
}

// NewRecorder returns a recorder reporting a w×h surface.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h}
}

func (r *Recorder) Size() (w, h float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w, r.h
}

// SetSize changes the reported surface size.
func (r *Recorder) SetSize(w, h float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w, r.h = w, h
}

func (r *Recorder) Draw(ctx context.Context, cmds []draw.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	r.last = cmds
	return nil
}

// Frames returns how many frames were drawn.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Last returns the most recent frame, or nil.
func (r *Recorder) Last() []draw.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
