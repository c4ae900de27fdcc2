package source

import (
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"

	"navwire/internal/config"
)

// Serial reads a serial device through go.bug.st/serial or, on Linux, raw
// termios.
type Serial struct {
	Device string
	Baud   int
	Driver string
}

func (s *Serial) String() string { return fmt.Sprintf("serial %s@%d", s.Device, s.Baud) }

func (s *Serial) open() (io.ReadCloser, error) {
	if s.Driver == config.SerialDriverTermios {
		return openTermios(s.Device, s.Baud)
	}
	return serial.Open(s.Device, &serial.Mode{
		BaudRate: s.Baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	})
}

func (s *Serial) Run(ctx context.Context, fn ChunkFunc) error {
	port, err := s.open()
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Device, err)
	}
	defer port.Close()
	return readLoop(ctx, port, fn)
}

// readLoop reads r until it fails. Errors after ctx is done are reported as
// ctx.Err().
func readLoop(ctx context.Context, r io.ReadCloser, fn ChunkFunc) error {
	stop := closeOnDone(ctx, r)
	defer stop()

	buf := make([]byte, readBufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := fn(buf[:n]); ferr != nil {
				return ferr
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}
