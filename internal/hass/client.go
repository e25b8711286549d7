// Package hass connects the card to Home Assistant over its websocket API and
// keeps a local copy of entity states and frontend themes.
package hass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/logger"
	"github.com/alexisbeaulieu97/thermocard/internal/ports"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
	apperrors "github.com/alexisbeaulieu97/thermocard/pkg/errors"
)

// ErrMaxReconnectsExceeded is returned when the maximum number of reconnect attempts is exceeded.
var ErrMaxReconnectsExceeded = errors.New("max reconnects exceeded")

const (
	defaultMinBackoff   = time.Second
	defaultMaxBackoff   = 2 * time.Minute
	defaultMultiplier   = 2.0
	defaultPingInterval = 30 * time.Second
	writeWait           = 10 * time.Second
	handshakeWait       = 10 * time.Second
	maxMessageSize      = 16 << 20
)

// Options configures a Client.
type Options struct {
	URL           string
	Token         string
	MinBackoff    time.Duration // Minimum backoff between reconnects
	MaxBackoff    time.Duration // Maximum backoff between reconnects
	Multiplier    float64       // Backoff multiplier
	MaxReconnects int           // Max reconnect attempts, 0 = infinite
	PingInterval  time.Duration
	Dialer        *websocket.Dialer
	Logger        *logger.Logger
	Events        ports.EventPublisher
}

// Client is a Home Assistant websocket client. It is a Source: Run streams
// states and themes into a Sink until the context is cancelled.
type Client struct {
	endpoint string
	opts     Options
	dialer   *websocket.Dialer
	log      *logger.Logger
}

// NewClient validates the endpoint and applies option defaults.
func NewClient(opts Options) (*Client, error) {
	endpoint, err := Endpoint(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = defaultMinBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = opts.MinBackoff
	}
	if opts.Multiplier < 1 {
		opts.Multiplier = defaultMultiplier
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaultPingInterval
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: handshakeWait}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		endpoint: endpoint,
		opts:     opts,
		dialer:   dialer,
		log:      log.With("endpoint", endpoint),
	}, nil
}

// Endpoint normalises a configured Home Assistant address into a websocket
// URL. http and https map to ws and wss, and a bare host gets the
// /api/websocket path.
func Endpoint(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperrors.NewValidationError("hass.url", "invalid url", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", apperrors.NewValidationError("hass.url", fmt.Sprintf("unsupported scheme %q", u.Scheme), nil)
	}
	if u.Host == "" {
		return "", apperrors.NewValidationError("hass.url", "missing host", nil)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/api/websocket"
	}
	return u.String(), nil
}

// Endpoint returns the websocket URL the client dials.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Run connects and keeps the connection alive with exponential backoff.
// It returns nil when ctx is cancelled, the AuthError when credentials are
// rejected and ErrMaxReconnectsExceeded when retries run out.
func (c *Client) Run(ctx context.Context, sink Sink) error {
	retryCount := 0
	currentBackoff := c.opts.MinBackoff

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		established, err := c.session(ctx, sink)
		if ctx.Err() != nil {
			sink.SetStatus(Status{Endpoint: c.endpoint})
			return nil
		}
		if established {
			c.publish(ctx, ports.EventHostDisconnected, err)
			retryCount = 0
			currentBackoff = c.opts.MinBackoff
		}

		var authErr *apperrors.AuthError
		if errors.As(err, &authErr) {
			c.log.Error(err, "authentication rejected")
			sink.SetStatus(Status{Endpoint: c.endpoint, Err: err})
			return err
		}

		retryCount++
		if c.opts.MaxReconnects > 0 && retryCount > c.opts.MaxReconnects {
			c.log.With("max_reconnects", c.opts.MaxReconnects).Error(err, "max reconnects exceeded, giving up")
			sink.SetStatus(Status{Endpoint: c.endpoint, Err: ErrMaxReconnectsExceeded})
			return fmt.Errorf("%w: %w", ErrMaxReconnectsExceeded, err)
		}

		c.log.WithFields(map[string]any{
			"backoff": currentBackoff.String(),
			"retry":   retryCount,
			"error":   errString(err),
		}).Warn("connection lost, reconnecting")
		sink.SetStatus(Status{Endpoint: c.endpoint, Err: err, Retry: retryCount, Backoff: currentBackoff})

		select {
		case <-ctx.Done():
			sink.SetStatus(Status{Endpoint: c.endpoint})
			return nil
		case <-time.After(currentBackoff):
		}

		nextBackoff := time.Duration(float64(currentBackoff) * c.opts.Multiplier)
		if nextBackoff > c.opts.MaxBackoff {
			nextBackoff = c.opts.MaxBackoff
		}
		currentBackoff = nextBackoff
	}
}

// session runs one connection. established reports whether authentication
// succeeded, which resets the backoff.
func (c *Client) session(ctx context.Context, sink Sink) (established bool, err error) {
	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return false, apperrors.NewConnectionError(c.endpoint, err)
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	version, err := c.authenticate(conn)
	if err != nil {
		return false, err
	}

	c.log.With("ha_version", version).Info("connected to Home Assistant")
	sink.SetStatus(Status{Connected: true, Endpoint: c.endpoint, Version: version})
	c.publish(ctx, ports.EventHostConnected, nil)

	s := &session{client: c, conn: conn, sink: sink}
	return true, s.run(ctx)
}

func (c *Client) authenticate(conn *websocket.Conn) (string, error) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	var hello inbound
	if err := conn.ReadJSON(&hello); err != nil {
		return "", apperrors.NewConnectionError(c.endpoint, fmt.Errorf("read auth_required: %w", err))
	}
	if hello.Type != typeAuthRequired {
		return "", apperrors.NewConnectionError(c.endpoint, fmt.Errorf("unexpected handshake message %q", hello.Type))
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(authMessage{Type: typeAuth, AccessToken: c.opts.Token}); err != nil {
		return "", apperrors.NewConnectionError(c.endpoint, fmt.Errorf("send auth: %w", err))
	}

	var reply inbound
	if err := conn.ReadJSON(&reply); err != nil {
		return "", apperrors.NewConnectionError(c.endpoint, fmt.Errorf("read auth reply: %w", err))
	}
	switch reply.Type {
	case typeAuthOK:
		return reply.HAVersion, nil
	case typeAuthInvalid:
		return "", apperrors.NewAuthError(c.endpoint, reply.Message)
	default:
		return "", apperrors.NewConnectionError(c.endpoint, fmt.Errorf("unexpected auth reply %q", reply.Type))
	}
}

func (c *Client) publish(ctx context.Context, eventType string, err error) {
	if c.opts.Events == nil {
		return
	}
	payload := map[string]interface{}{"endpoint": c.endpoint}
	if err != nil {
		payload["error"] = err.Error()
	}
	_ = c.opts.Events.Publish(ctx, ports.NewEvent(eventType, payload))
}

// session is one authenticated connection.
type session struct {
	client *Client
	conn   *websocket.Conn
	sink   Sink

	writeMu sync.Mutex
	nextID  int64

	statesID  int64
	themesID  int64
	changesID int64
	reloadID  int64
}

func (s *session) run(ctx context.Context) error {
	var err error
	if s.statesID, err = s.send(commandGetStates, ""); err != nil {
		return err
	}
	if s.changesID, err = s.send(commandSubscribeEvents, eventStateChanged); err != nil {
		return err
	}
	if s.themesID, err = s.send(commandGetThemes, ""); err != nil {
		return err
	}
	if s.reloadID, err = s.send(commandSubscribeEvents, eventThemesUpdated); err != nil {
		return err
	}

	pingWait := 2 * s.client.opts.PingInterval
	_ = s.conn.SetReadDeadline(time.Now().Add(pingWait))

	done := make(chan struct{})
	defer close(done)
	go s.keepAlive(done)

	for {
		var msg inbound
		if err := s.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return apperrors.NewConnectionError(s.client.endpoint, err)
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pingWait))

		if err := s.handle(msg); err != nil {
			return err
		}
	}
}

func (s *session) handle(msg inbound) error {
	switch msg.Type {
	case typeResult:
		return s.handleResult(msg)
	case typeEvent:
		s.handleEvent(msg)
	case typePong:
	default:
		s.client.log.With("type", msg.Type).Debug("ignoring message")
	}
	return nil
}

func (s *session) handleResult(msg inbound) error {
	if !msg.Success {
		reason := "unknown error"
		if msg.Error != nil {
			reason = msg.Error.Code + ": " + msg.Error.Message
		}
		if msg.ID == s.statesID {
			return apperrors.NewConnectionError(s.client.endpoint, fmt.Errorf("get_states failed: %s", reason))
		}
		s.client.log.WithFields(map[string]any{"id": msg.ID, "reason": reason}).Warn("command failed")
		return nil
	}

	switch msg.ID {
	case s.statesID:
		var snaps []entity.Snapshot
		if err := json.Unmarshal(msg.Result, &snaps); err != nil {
			return apperrors.NewConnectionError(s.client.endpoint, fmt.Errorf("decode states: %w", err))
		}
		s.client.log.With("entities", len(snaps)).Debug("received states")
		s.sink.ReplaceStates(snaps)
	case s.themesID:
		var themes themesResult
		if err := json.Unmarshal(msg.Result, &themes); err != nil {
			s.client.log.Error(err, "decode themes")
			return nil
		}
		s.sink.ReplaceThemes(registryFrom(themes))
	}
	return nil
}

func (s *session) handleEvent(msg inbound) {
	if msg.Event == nil {
		return
	}
	switch msg.ID {
	case s.changesID:
		var data stateChangedData
		if err := json.Unmarshal(msg.Event.Data, &data); err != nil {
			s.client.log.Error(err, "decode state_changed")
			return
		}
		s.sink.ApplyState(data.EntityID, data.NewState)
	case s.reloadID:
		id, err := s.send(commandGetThemes, "")
		if err != nil {
			s.client.log.Error(err, "request themes")
			return
		}
		s.themesID = id
	}
}

func (s *session) send(commandType, eventType string) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.nextID++
	id := s.nextID
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(command{ID: id, Type: commandType, EventType: eventType}); err != nil {
		return 0, apperrors.NewConnectionError(s.client.endpoint, fmt.Errorf("send %s: %w", commandType, err))
	}
	return id, nil
}

func (s *session) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(s.client.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if _, err := s.send(typePing, ""); err != nil {
				s.client.log.Error(err, "ping failed")
				return
			}
		}
	}
}

// registryFrom builds the theme registry from frontend/get_themes. A
// non-default default_theme becomes part of the base theme.
func registryFrom(result themesResult) theme.Registry {
	reg := theme.Registry{Base: theme.Default(), Themes: make(map[string]theme.Theme, len(result.Themes))}
	for name, vars := range result.Themes {
		reg.Themes[name] = theme.FromAny(name, vars)
	}
	if named, ok := reg.Themes[result.DefaultTheme]; ok {
		reg.Base = reg.Base.Overlay(named)
	}
	return reg
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
