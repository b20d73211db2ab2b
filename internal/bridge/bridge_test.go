package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/tl50ctl/internal/config"
	"github.com/muurk/tl50ctl/internal/protocol"
)

type fakeSender struct {
	mu     sync.Mutex
	frames []protocol.Frame
	err    error
}

func (f *fakeSender) Send(ctx context.Context, frame protocol.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeSender) Close() error { return nil }

func (f *fakeSender) sent() []protocol.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]protocol.Frame(nil), f.frames...)
}

func newTestServer(t *testing.T, sender *fakeSender, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.Listen == "" {
		cfg.Listen = "127.0.0.1:0"
	}
	srv, err := New(cfg, sender, config.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg string) Response {
	t.Helper()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return resp
}

func hexOf(t *testing.T, cmd protocol.Command) string {
	t.Helper()
	f, err := cmd.Frame()
	if err != nil {
		t.Fatal(err)
	}
	return f.Hex()
}

func TestBridge_Requests(t *testing.T) {
	steadyBlue := protocol.SteadyCommand(protocol.ColorBlue, protocol.IntensityHigh)
	alarm := protocol.FlashCommand(protocol.ColorRed, protocol.IntensityHigh, protocol.SpeedFast, protocol.PatternStrobe).
		WithAudible(protocol.AudiblePulsed)

	tests := []struct {
		name      string
		msg       string
		wantOK    bool
		wantFrame string
		wantErr   string
		wantID    string
	}{
		{
			name:      "preset",
			msg:       `{"preset":"alarm"}`,
			wantOK:    true,
			wantFrame: hexOf(t, alarm),
		},
		{
			name:      "flat mode fields",
			msg:       `{"mode":"steady","color1":"blue","intensity1":"high"}`,
			wantOK:    true,
			wantFrame: hexOf(t, steadyBlue),
		},
		{
			name:      "nested mode fields",
			msg:       `{"mode":"steady","fields":{"color1":"blue","intensity1":"high"}}`,
			wantOK:    true,
			wantFrame: "f441c11f00090100" + strings.Repeat("00", 27) + "00e0fd",
		},
		{
			name:      "full command",
			msg:       `{"command":{"animation":"steady","color1":"blue","intensity1":"high"}}`,
			wantOK:    true,
			wantFrame: hexOf(t, steadyBlue),
		},
		{
			name:      "audible override",
			msg:       `{"preset":"ok","audible":"steady"}`,
			wantOK:    true,
			wantFrame: hexOf(t, protocol.SteadyCommand(protocol.ColorGreen, protocol.IntensityHigh).WithAudible(protocol.AudibleSteady)),
		},
		{
			name:      "id is echoed",
			msg:       `{"id":42,"preset":"off"}`,
			wantOK:    true,
			wantFrame: hexOf(t, protocol.OffCommand()),
			wantID:    "42",
		},
		{
			name:    "invalid color name",
			msg:     `{"id":"a","mode":"steady","color1":"teal","intensity1":"high"}`,
			wantErr: "invalid field value",
			wantID:  `"a"`,
		},
		{
			name:    "unknown preset",
			msg:     `{"preset":"party"}`,
			wantErr: `unknown preset "party"`,
		},
		{
			name:    "unknown mode",
			msg:     `{"mode":"disco"}`,
			wantErr: `unknown mode "disco"`,
		},
		{
			name:    "field not used by mode",
			msg:     `{"mode":"steady","color1":"blue","intensity1":"high","speed":"fast"}`,
			wantErr: `does not use field "speed"`,
		},
		{
			name:    "preset and command together",
			msg:     `{"preset":"ok","command":{"animation":"off"}}`,
			wantErr: "exactly one of",
		},
		{
			name:    "empty request",
			msg:     `{}`,
			wantErr: "exactly one of",
		},
		{
			name:    "stray key without mode",
			msg:     `{"preset":"ok","color1":"red"}`,
			wantErr: `unknown request key "color1"`,
		},
		{
			name:    "malformed json",
			msg:     `{"preset":`,
			wantErr: "malformed request",
		},
	}

	sender := &fakeSender{}
	_, ts := newTestServer(t, sender, Config{})
	conn := dial(t, ts)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(sender.sent())
			resp := roundTrip(t, conn, tt.msg)

			if resp.OK != tt.wantOK {
				t.Fatalf("ok = %v, want %v (error %q)", resp.OK, tt.wantOK, resp.Error)
			}
			if tt.wantID != "" && string(resp.ID) != tt.wantID {
				t.Errorf("id = %s, want %s", resp.ID, tt.wantID)
			}

			frames := sender.sent()
			if !tt.wantOK {
				if !strings.Contains(resp.Error, tt.wantErr) {
					t.Errorf("error = %q, want containing %q", resp.Error, tt.wantErr)
				}
				if len(frames) != before {
					t.Error("a rejected request must not send a frame")
				}
				return
			}

			if resp.Frame != tt.wantFrame {
				t.Errorf("frame = %s, want %s", resp.Frame, tt.wantFrame)
			}
			if len(frames) != before+1 || frames[len(frames)-1].Hex() != tt.wantFrame {
				t.Error("sender did not receive the reported frame")
			}
		})
	}
}

func TestBridge_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("serial port unplugged")}
	_, ts := newTestServer(t, sender, Config{})
	conn := dial(t, ts)

	resp := roundTrip(t, conn, `{"preset":"ok"}`)
	if resp.OK || !strings.Contains(resp.Error, "unplugged") {
		t.Errorf("response = %+v, want send error", resp)
	}
}

func TestBridge_BinaryMessageRejected(t *testing.T) {
	_, ts := newTestServer(t, &fakeSender{}, Config{})
	conn := dial(t, ts)

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0xf4, 0x41}); err != nil {
		t.Fatal(err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.OK || !strings.Contains(resp.Error, "text messages") {
		t.Errorf("response = %+v", resp)
	}
}

func TestBridge_OversizedMessageClosesConnection(t *testing.T) {
	_, ts := newTestServer(t, &fakeSender{}, Config{})
	conn := dial(t, ts)

	big := `{"preset":"` + strings.Repeat("x", maxMessageSize) + `"}`
	_ = conn.WriteMessage(websocket.TextMessage, []byte(big))
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("ReadMessage() error = nil, want closed connection")
	}
}

func TestBridge_Origins(t *testing.T) {
	_, ts := newTestServer(t, &fakeSender{}, Config{Origins: []string{"http://dashboard.local"}})
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	tests := []struct {
		name   string
		origin string
		wantOK bool
	}{
		{"allowed origin", "http://dashboard.local", true},
		{"other origin", "http://evil.example", false},
		{"no origin (not a browser)", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Dial() error = %v", err)
				}
				_ = conn.Close()
				return
			}
			if err == nil {
				_ = conn.Close()
				t.Fatal("Dial() succeeded, want rejected origin")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("handshake response = %v, want 403", resp)
			}
		})
	}
}

func TestBridge_Health(t *testing.T) {
	srv, ts := newTestServer(t, &fakeSender{}, Config{Port: "/dev/ttyUSB0"})
	conn := dial(t, ts)
	_ = roundTrip(t, conn, `{"preset":"off"}`)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" || health.Version == "" || health.Port != "/dev/ttyUSB0" {
		t.Errorf("health = %+v", health)
	}
	if health.Connections != 1 || srv.ActiveConnections() != 1 {
		t.Errorf("connections = %d (server %d), want 1", health.Connections, srv.ActiveConnections())
	}
}

func TestBridge_Presets(t *testing.T) {
	_, ts := newTestServer(t, &fakeSender{}, Config{})

	resp, err := http.Get(ts.URL + "/presets")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(body["presets"], ","); got != "alarm,off,ok,warning" {
		t.Errorf("presets = %s", got)
	}

	post, err := http.Post(ts.URL+"/presets", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", post.StatusCode)
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv, err := New(Config{Listen: "127.0.0.1:0"}, &fakeSender{}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(ctx) }()

	url := "ws://" + srv.Addr().String() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if resp := roundTrip(t, conn, `{"preset":"ok"}`); !resp.OK {
		t.Fatalf("response = %+v", resp)
	}

	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("client read error = %v, want going-away close", err)
	}
	if srv.ActiveConnections() != 0 {
		t.Errorf("ActiveConnections() = %d after shutdown", srv.ActiveConnections())
	}
}

func TestNew_Validates(t *testing.T) {
	if _, err := New(Config{Listen: ":0"}, nil, nil); err == nil {
		t.Error("New() without sender should fail")
	}
	if _, err := New(Config{}, &fakeSender{}, nil); err == nil {
		t.Error("New() without listen address should fail")
	}
}

func TestParseRequest_DuplicateField(t *testing.T) {
	_, err := ParseRequest([]byte(`{"mode":"steady","color1":"red","fields":{"color1":"blue","intensity1":"high"}}`))
	if err == nil || !strings.Contains(err.Error(), "given twice") {
		t.Errorf("ParseRequest() error = %v, want duplicate field error", err)
	}
}

func TestResolve_NilPresets(t *testing.T) {
	req := Request{Preset: "ok"}
	if _, err := req.Resolve(nil); err == nil {
		t.Error("Resolve() with nil presets should fail")
	}
}
