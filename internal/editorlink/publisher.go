package editorlink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name used when Config.Event is empty.
const DefaultEvent = "program_output"

// ErrClosed is returned when publishing after Close.
var ErrClosed = errors.New("editor link is closed")

// Config describes the editor endpoint.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Publisher sends program output to an editor. It is safe for concurrent
// use.
type Publisher struct {
	event string
	emit  func(event string, payload map[string]any)
	close func()
	now   func() time.Time

	mu     sync.Mutex
	seq    uint64
	closed bool
}

func newPublisher(event string, emit func(string, map[string]any), close func()) *Publisher {
	if event == "" {
		event = DefaultEvent
	}
	return &Publisher{
		event: event,
		emit:  emit,
		close: close,
		now:   time.Now,
	}
}

// Dial connects to the editor and returns a publisher once the connection
// is established.
func Dial(ctx context.Context, cfg Config) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "editorlink", "url", cfg.URL)
	logger.Info("Connecting to editor...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse editor URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("editor URL %q must include a scheme and host", cfg.URL)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to editor", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("editor connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while connecting to editor")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for editor connection", timeout)
	}

	return newPublisher(cfg.Event,
		func(event string, payload map[string]any) {
			io.Emit(event, payload)
		},
		func() {
			io.Disconnect()
		},
	), nil
}

// Publish emits one line of output printed by entry.
func (p *Publisher) Publish(ctx context.Context, entry, line string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.seq++
	payload := map[string]any{
		"entry": entry,
		"line":  line,
		"seq":   p.seq,
		"time":  p.now().UTC().Format(time.RFC3339Nano),
	}
	p.mu.Unlock()

	p.emit(p.event, payload)
	ctxlog.FromContext(ctx).Debug("Published program output.", "event", p.event, "entry", entry, "seq", payload["seq"])
	return nil
}

// Close disconnects from the editor. Further publishes fail with ErrClosed.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.close != nil {
		p.close()
	}
	return nil
}
