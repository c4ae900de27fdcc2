//go:build !linux

package source

import (
	"fmt"
	"io"
)

func openTermios(path string, baud int) (io.ReadCloser, error) {
	return nil, fmt.Errorf("termios serial driver not supported on this platform")
}
