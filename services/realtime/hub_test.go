package realtime

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type countingMetrics struct {
	mu        sync.Mutex
	connected int
	relayed   map[string]int
}

func (m *countingMetrics) ClientConnected() {
	m.mu.Lock()
	m.connected++
	m.mu.Unlock()
}

func (m *countingMetrics) ClientDisconnected() {
	m.mu.Lock()
	m.connected--
	m.mu.Unlock()
}

func (m *countingMetrics) FrameRelayed(frameType string, recipients int) {
	m.mu.Lock()
	m.relayed[frameType] += recipients
	m.mu.Unlock()
}

func newTestServer(t *testing.T, opts ...Option) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nopLogger{}, opts...)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.ServeWS(w, r); err != nil {
			t.Logf("ServeWS() failed: %v", err)
		}
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// every client is greeted first
	got := readFrame(t, conn)
	if got["type"] != TypeConnection || got["message"] != welcomeMessage {
		t.Fatalf("welcome frame = %v", got)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame map[string]interface{}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON() failed: %v", err)
	}
	return frame
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var frame map[string]interface{}
	err := conn.ReadJSON(&frame)
	if err == nil {
		t.Fatalf("unexpected frame: %v", frame)
	}
	if netErr, ok := err.(net.Error); !ok || !netErr.Timeout() {
		t.Fatalf("ReadJSON() error = %v; want timeout", err)
	}
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Count() = %d; want %d", hub.Count(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_Chat(t *testing.T) {
	hub, srv := newTestServer(t)
	alice := dial(t, srv)
	bob := dial(t, srv)
	carol := dial(t, srv)
	waitForClients(t, hub, 3)

	if err := alice.WriteJSON(map[string]interface{}{"type": "chat", "sender": 1, "content": "Hello class"}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	for _, conn := range []*websocket.Conn{bob, carol} {
		got := readFrame(t, conn)
		if got["type"] != TypeChat || got["content"] != "Hello class" || got["sender"] != float64(1) {
			t.Errorf("chat frame = %v", got)
		}
		if ts, _ := got["timestamp"].(string); ts == "" {
			t.Errorf("chat frame has no timestamp: %v", got)
		}
	}
	// never echoed back to the sender
	expectSilence(t, alice)
}

func TestHub_Notification(t *testing.T) {
	metrics := &countingMetrics{relayed: make(map[string]int)}
	hub, srv := newTestServer(t, WithMetrics(metrics))
	alice := dial(t, srv)
	bob := dial(t, srv)
	waitForClients(t, hub, 2)

	if err := alice.WriteJSON(map[string]interface{}{"type": "notification", "title": "Snow day", "message": "School is closed"}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	// the sender is included
	for _, conn := range []*websocket.Conn{alice, bob} {
		got := readFrame(t, conn)
		if got["type"] != TypeNotification || got["title"] != "Snow day" || got["message"] != "School is closed" {
			t.Errorf("notification frame = %v", got)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		metrics.mu.Lock()
		relayed, connected := metrics.relayed[TypeNotification], metrics.connected
		metrics.mu.Unlock()
		if relayed == 2 && connected == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("metrics: relayed = %d, connected = %d; want 2, 2", relayed, connected)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_DropsInvalidFrames(t *testing.T) {
	hub, srv := newTestServer(t)
	alice := dial(t, srv)
	bob := dial(t, srv)
	waitForClients(t, hub, 2)

	_ = alice.WriteMessage(websocket.TextMessage, []byte("not json"))
	_ = alice.WriteJSON(map[string]interface{}{"type": "typing", "sender": 1})

	// the connection survives bad frames, which are never relayed
	_ = alice.WriteJSON(map[string]interface{}{"type": "chat", "sender": 1, "content": "still here"})
	if got := readFrame(t, bob); got["type"] != TypeChat || got["content"] != "still here" {
		t.Errorf("first frame = %v; want the chat frame", got)
	}
}

func TestHub_Publish(t *testing.T) {
	hub, srv := newTestServer(t)
	alice := dial(t, srv)
	waitForClients(t, hub, 1)

	hub.Publish(NotificationFrame("New announcement", "Sports day"))
	got := readFrame(t, alice)
	if got["type"] != TypeNotification || got["title"] != "New announcement" {
		t.Errorf("published frame = %v", got)
	}
}

func TestHub_Disconnect(t *testing.T) {
	hub, srv := newTestServer(t)
	alice := dial(t, srv)
	waitForClients(t, hub, 1)

	_ = alice.Close()
	waitForClients(t, hub, 0)
}

func TestFrame_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Frame{Type: TypeConnection, Message: raw(welcomeMessage)})
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	want := `{"type":"connection","message":"Connected to School Connect WebSocket server"}`
	if string(b) != want {
		t.Errorf("Marshal() = %s; want %s", b, want)
	}
}
