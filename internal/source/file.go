package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"navwire/internal/replay"
)

// File reads a raw capture once, as fast as the pipeline consumes it.
type File struct {
	Path string
}

func (f *File) String() string { return "file " + f.Path }

func (f *File) Run(ctx context.Context, fn ChunkFunc) error {
	fd, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer fd.Close()

	buf := make([]byte, readBufferSize)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := fd.Read(buf)
		if n > 0 {
			if ferr := fn(buf[:n]); ferr != nil {
				return ferr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Replay plays a recorded chunk log with its original timing scaled by
// Speed.
type Replay struct {
	Path  string
	Speed float64
	Loop  bool

	// Sleeper overrides the wall-clock waits, for tests.
	Sleeper replay.Sleeper
}

func (r *Replay) String() string { return fmt.Sprintf("replay %s x%g", r.Path, r.Speed) }

func (r *Replay) Run(ctx context.Context, fn ChunkFunc) error {
	recs, err := replay.ReadFile(r.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", r.Path, err)
	}
	speed := r.Speed
	if speed == 0 {
		speed = 1
	}
	return replay.Play(ctx, recs, speed, r.Loop, r.Sleeper, fn)
}
