package streamerbot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/vovakirdan/gift-board/internal/board"
)

// GiftHandler receives every decoded gift in arrival order.
type GiftHandler func(board.Gift)

// Client subscribes to gift events on a Streamer.bot server.
// It does not reconnect; Run returns when the connection ends.
type Client struct {
	url      string
	logger   *log.Logger
	onStatus func(connected bool)
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithStatusHandler is called with true once subscribed and false when the
// connection ends.
func WithStatusHandler(fn func(connected bool)) Option {
	return func(c *Client) {
		c.onStatus = fn
	}
}

// NewClient creates a client for the given websocket URL, e.g. ws://192.168.1.5:8080/.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		logger:   log.New(io.Discard),
		onStatus: func(bool) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the server address.
func (c *Client) URL() string {
	return c.url
}

// Run connects, subscribes to gift events and calls handle for each gift until
// the context is cancelled or the connection fails. Frames that cannot be
// decoded are logged and skipped. Cancellation is not an error.
func (c *Client) Run(ctx context.Context, handle GiftHandler) error {
	conn, err := websocket.Dial(c.url, "", originFor(c.url))
	if err != nil {
		return fmt.Errorf("streamerbot: cannot connect to %s: %w", c.url, err)
	}
	defer conn.Close()

	// Closing the connection unblocks Receive.
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	sub := NewGiftSubscription(uuid.NewString())
	if err := websocket.JSON.Send(conn, sub); err != nil {
		return fmt.Errorf("streamerbot: cannot subscribe: %w", err)
	}

	c.logger.Info("connected", "url", c.url, "subscription", sub.ID)
	c.onStatus(true)
	defer c.onStatus(false)

	for {
		var frame []byte
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("disconnected", "url", c.url)
				return nil
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("streamerbot: connection closed by server")
			}
			return fmt.Errorf("streamerbot: receive failed: %w", err)
		}

		gift, ok, err := DecodeGift(frame)
		if err != nil {
			c.logger.Warn("skipping frame", "error", err)
			continue
		}
		if !ok {
			c.logger.Debug("ignoring event", "frame", string(frame))
			continue
		}
		handle(gift)
	}
}

// originFor derives the http origin the websocket handshake requires.
func originFor(url string) string {
	switch {
	case strings.HasPrefix(url, "wss://"):
		return "https://" + strings.TrimPrefix(url, "wss://")
	case strings.HasPrefix(url, "ws://"):
		return "http://" + strings.TrimPrefix(url, "ws://")
	default:
		return url
	}
}
