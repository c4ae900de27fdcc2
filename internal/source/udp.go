package source

import (
	"context"
	"fmt"
	"net"
)

// UDPListener reads datagrams sent to Addr. Each datagram is one chunk.
type UDPListener struct {
	Addr string
}

func (u *UDPListener) String() string { return "udp " + u.Addr }

func (u *UDPListener) Run(ctx context.Context, fn ChunkFunc) error {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp", u.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", u.Addr, err)
	}
	defer pc.Close()
	stop := closeOnDone(ctx, pc)
	defer stop()

	buf := make([]byte, 65535)
	for {
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if n == 0 {
			continue
		}
		if err := fn(buf[:n]); err != nil {
			return err
		}
	}
}
