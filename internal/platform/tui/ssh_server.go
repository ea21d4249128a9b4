package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/gift-board/internal/live"
)

// viewerBuffer is how many board updates a slow viewer may fall behind.
const viewerBuffer = 16

// SSHServerConfig holds configuration for the SSH viewer server.
type SSHServerConfig struct {
	Address     string        // host:port, e.g. ":23234"
	HostKeyPath string        // Empty means ~/.giftboard/host_key, generated on first use
	IdleTimeout time.Duration // Viewers idle this long are disconnected
}

// DefaultSSHServerConfig returns the settings used by 'giftboard serve'.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 2 * time.Hour,
	}
}

// SSHServer lets anyone with an SSH client watch the board. Viewers see the
// same state as the operator but cannot change it.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	coord   *live.Coordinator
	logger  *log.Logger
	counter atomic.Uint64
}

// NewSSHServer creates a viewer server attached to the coordinator.
func NewSSHServer(cfg SSHServerConfig, coord *live.Coordinator, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "giftboard-ssh",
		})
	}

	hostKey, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{config: cfg, coord: coord, logger: logger}
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKey),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.viewerProgram),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// resolveHostKey returns the host key path and makes sure its directory exists.
// wish generates the key itself when the file is missing.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".giftboard", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// viewerProgram builds the read-only board for one connection.
func (s *SSHServer) viewerProgram(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	id := live.SessionID(fmt.Sprintf("ssh-%s-%d", sess.User(), s.counter.Add(1)))
	viewer := live.NewChannelSession(id, viewerBuffer)
	model := NewBoardModel(s.coord, viewer, BoardOptions{
		Width:  pty.Window.Width,
		Height: pty.Window.Height,
	})

	// The program may outlive a dropped connection; detach on disconnect.
	go func() {
		<-sess.Context().Done()
		s.coord.Unregister(id)
		viewer.Close()
	}()

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs viewers joining and leaving.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		remote := sess.RemoteAddr().String()
		start := time.Now()
		s.logger.Info("viewer connected", "user", sess.User(), "remote", remote)
		next(sess)
		s.logger.Info("viewer disconnected",
			"user", sess.User(),
			"remote", remote,
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe serves viewers until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("serving viewers", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down viewers")
		return s.Shutdown()
	}
}

// Shutdown closes the listener and waits up to 10s for viewers to drop.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
