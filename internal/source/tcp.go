package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

type TCPClientConfig struct {
	Addr string

	ReconnectDelay time.Duration
	// DialTimeout is used for each connect attempt.
	DialTimeout time.Duration

	Logger *slog.Logger
	// OnState, if set, is called from Run on every state change with one of
	// "connecting", "connected", "disconnected", "error" or "stopped".
	OnState func(state string)
}

// TCPClient reads a TCP stream, reconnecting after ReconnectDelay whenever
// the connection drops.
type TCPClient struct {
	cfg TCPClientConfig

	state string
}

func NewTCPClient(cfg TCPClientConfig) (*TCPClient, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("tcp client addr is required")
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 1 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &TCPClient{cfg: cfg, state: "stopped"}, nil
}

func (c *TCPClient) String() string { return "tcp " + c.cfg.Addr }

// Run only returns when ctx is done or fn fails; connection errors are
// retried.
func (c *TCPClient) Run(ctx context.Context, fn ChunkFunc) error {
	dialer := &net.Dialer{Timeout: c.cfg.DialTimeout}

	for {
		if ctx.Err() != nil {
			c.setState("stopped", "")
			return ctx.Err()
		}

		c.setState("connecting", "")
		conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Addr)
		if err != nil {
			c.setState("error", err.Error())
			if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
				c.setState("stopped", "")
				return ctx.Err()
			}
			continue
		}

		c.setState("connected", "")
		var handlerErr error
		err = readLoop(ctx, conn, func(chunk []byte) error {
			handlerErr = fn(chunk)
			return handlerErr
		})
		_ = conn.Close()

		switch {
		case ctx.Err() != nil:
			c.setState("stopped", "")
			return ctx.Err()
		case handlerErr != nil:
			c.setState("error", "handler: "+handlerErr.Error())
			return handlerErr
		case errors.Is(err, net.ErrClosed):
			c.setState("disconnected", "")
		default:
			c.setState("disconnected", err.Error())
		}

		if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
			c.setState("stopped", "")
			return ctx.Err()
		}
	}
}

// setState is only called from Run.
func (c *TCPClient) setState(state string, lastErr string) {
	if c.state == state {
		return
	}
	c.state = state
	c.cfg.Logger.Debug("tcp input state", "addr", c.cfg.Addr, "state", state, "err", lastErr)
	if c.cfg.OnState != nil {
		c.cfg.OnState(state)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
