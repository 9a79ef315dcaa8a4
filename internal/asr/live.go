package asr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// LiveConfig controls the websocket recognizer connection.
type LiveConfig struct {
	Endpoint     string
	APIKey       string
	AuthEndpoint string
	HealthHTTP   string
	Language     string
	Model        string
	Punctuate    bool
	SampleRate   int
	Channels     int
	DialTimeout  time.Duration
}

// Live is a websocket-backed streaming recognizer client.
type Live struct {
	cfg    LiveConfig
	logger *slog.Logger
	http   *http.Client
}

// NewLive constructs a live recognizer client from config.
func NewLive(cfg LiveConfig, logger *slog.Logger) *Live {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 3 * time.Second
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "en-US"
	}
	return &Live{
		cfg:    cfg,
		logger: logger,
		http:   &http.Client{Timeout: cfg.DialTimeout},
	}
}

// Authorize queries the recognizer's auth endpoint once and maps the outcome
// onto the authorization taxonomy. An empty auth endpoint means the service
// does not gate access.
func (l *Live) Authorize(ctx context.Context) (AuthStatus, error) {
	endpoint := strings.TrimSpace(l.cfg.AuthEndpoint)
	if endpoint == "" {
		return AuthAuthorized, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return AuthUndetermined, fmt.Errorf("build auth request: %w", err)
	}
	l.setAuthHeader(req.Header)

	resp, err := l.http.Do(req)
	if err != nil {
		return AuthUndetermined, fmt.Errorf("query recognizer authorization: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return AuthAuthorized, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return AuthDenied, nil
	case resp.StatusCode == http.StatusForbidden:
		return AuthRestricted, nil
	default:
		return AuthUndetermined, nil
	}
}

// Available probes the recognizer's HTTP ready endpoint. An empty endpoint
// skips the probe and reports available.
func (l *Live) Available(ctx context.Context) bool {
	endpoint := strings.TrimSpace(l.cfg.HealthHTTP)
	if endpoint == "" {
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Open dials a fresh streaming recognition request and starts its receive loop.
func (l *Live) Open(ctx context.Context) (Stream, error) {
	target, err := l.streamURL()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	l.setAuthHeader(header)

	dialer := websocket.Dialer{HandshakeTimeout: l.cfg.DialTimeout}
	conn, resp, err := dialer.DialContext(ctx, target, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial recognizer %q: %w", target, err)
	}

	s := &liveStream{
		conn:    conn,
		results: make(chan Result, 16),
	}
	go s.recvLoop()
	return s, nil
}

// streamURL builds the websocket URL with recognition parameters.
func (l *Live) streamURL() (string, error) {
	endpoint := strings.TrimSpace(l.cfg.Endpoint)
	if endpoint == "" {
		return "", errors.New("recognizer endpoint is empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse recognizer endpoint %q: %w", endpoint, err)
	}

	q := u.Query()
	q.Set("encoding", "linear16")
	q.Set("language", l.cfg.Language)
	q.Set("punctuate", strconv.FormatBool(l.cfg.Punctuate))
	q.Set("interim_results", "true")
	if l.cfg.SampleRate > 0 {
		q.Set("sample_rate", strconv.Itoa(l.cfg.SampleRate))
	}
	if l.cfg.Channels > 0 {
		q.Set("channels", strconv.Itoa(l.cfg.Channels))
	}
	if model := strings.TrimSpace(l.cfg.Model); model != "" {
		q.Set("model", model)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (l *Live) setAuthHeader(header http.Header) {
	if key := strings.TrimSpace(l.cfg.APIKey); key != "" {
		header.Set("Authorization", "Token "+key)
	}
}

// serverMessage is the recognizer's JSON result frame.
type serverMessage struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Error   string `json:"error,omitempty"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// liveStream wraps one active websocket recognition exchange.
type liveStream struct {
	conn    *websocket.Conn
	results chan Result

	mu         sync.Mutex
	closedSend bool
	cancelled  bool
}

func (s *liveStream) Results() <-chan Result {
	return s.results
}

// Send writes one chunk of PCM audio as a binary frame.
func (s *liveStream) Send(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedSend {
		return errors.New("stream already closed for sending")
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, chunk)
}

// CloseSend signals end-of-audio so the recognizer can finalize gracefully.
func (s *liveStream) CloseSend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closedSend {
		return nil
	}
	s.closedSend = true
	return s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`))
}

// Cancel hard-stops the exchange; the receive loop winds down without
// surfacing the resulting read error.
func (s *liveStream) Cancel() error {
	s.mu.Lock()
	s.closedSend = true
	s.cancelled = true
	s.mu.Unlock()
	return s.conn.Close()
}

// recvLoop receives result frames until the connection ends, then closes
// Results exactly once.
func (s *liveStream) recvLoop() {
	defer close(s.results)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			cancelled := s.cancelled
			s.mu.Unlock()
			if cancelled || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.results <- Result{Err: fmt.Errorf("recognizer stream: %w", err)}
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.results <- Result{Err: fmt.Errorf("decode recognizer frame: %w", err)}
			return
		}

		if msg.Error != "" || strings.EqualFold(msg.Type, "Error") {
			text := msg.Error
			if text == "" {
				text = "recognizer reported an error"
			}
			s.results <- Result{Err: errors.New(text)}
			return
		}

		if len(msg.Channel.Alternatives) == 0 {
			continue
		}
		s.results <- Result{Text: msg.Channel.Alternatives[0].Transcript, Final: msg.IsFinal}
	}
}
