//go:build linux

package source

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"navwire/internal/config"
)

// openPTY returns the master fd and the slave device path of a new
// pseudo-terminal.
func openPTY(t *testing.T) (int, string) {
	t.Helper()
	master, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Skipf("no pty support: %v", err)
	}
	t.Cleanup(func() { _ = unix.Close(master) })

	require.NoError(t, unix.IoctlSetPointerInt(master, unix.TIOCSPTLCK, 0))
	n, err := unix.IoctlGetInt(master, unix.TIOCGPTN)
	require.NoError(t, err)
	return master, fmt.Sprintf("/dev/pts/%d", n)
}

func TestSerialTermios_ReadsAndStopsOnIdleLine(t *testing.T) {
	master, dev := openPTY(t)
	s := &Serial{Device: dev, Baud: 115200, Driver: config.SerialDriverTermios}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got collector
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, got.add) }()

	// Wait for the slave to be switched to raw mode before writing, so
	// 0x7E/0x0D pass through untouched.
	require.Eventually(t, func() bool {
		tio, err := unix.IoctlGetTermios(master, unix.TCGETS)
		return err == nil && tio.Lflag&unix.ICANON == 0
	}, 2*time.Second, 10*time.Millisecond)
	payload := []byte{0x7E, 0x00, 0x0D, 0x7E}
	_, err := unix.Write(master, payload)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(got.bytes()) >= len(payload) }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, payload, got.bytes())

	// Idle line: cancellation alone has to unblock the pending read.
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel on an idle line")
	}
}

func TestSerialTermios_UnsupportedBaud(t *testing.T) {
	_, dev := openPTY(t)
	s := &Serial{Device: dev, Baud: 1234, Driver: config.SerialDriverTermios}
	err := s.Run(context.Background(), func([]byte) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported baud")
}
