package httptransport_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sl0thC0der/yt-download-ng/internal/entity"
)

type wsMessage struct {
	Type     string        `json:"type"`
	Jobs     []*entity.Job `json:"jobs"`
	JobID    string        `json:"job_id"`
	Status   string        `json:"status"`
	Progress int           `json:"progress"`
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func TestWSSnapshotFirst(t *testing.T) {
	a := newApp(t)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	// one job already in the store before the client connects
	_, env := a.do(t, "POST", "/api/download", `{"url":"u1","profile":"gytmdl"}`)
	var id string
	_ = json.Unmarshal(env.Data, &id)
	<-a.runner.started

	conn := dialWS(t, srv)
	msg := readMessage(t, conn)
	if msg.Type != "snapshot" {
		t.Fatalf("first message should be a snapshot, got %q", msg.Type)
	}
	if len(msg.Jobs) != 1 || msg.Jobs[0].ID.String() != id {
		t.Fatalf("snapshot missing job %s: %+v", id, msg.Jobs)
	}

	a.runner.release <- struct{}{}
}

func TestWSStreamsJobUpdates(t *testing.T) {
	a := newApp(t)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	conn := dialWS(t, srv)
	if msg := readMessage(t, conn); msg.Type != "snapshot" {
		t.Fatalf("expected snapshot, got %q", msg.Type)
	}

	_, env := a.do(t, "POST", "/api/download", `{"url":"u1","profile":"gytmdl"}`)
	var id string
	_ = json.Unmarshal(env.Data, &id)
	<-a.runner.started
	a.runner.release <- struct{}{}

	sawCompleted := false
	for !sawCompleted {
		msg := readMessage(t, conn)
		if msg.Type != "job_update" {
			t.Fatalf("expected job_update, got %q", msg.Type)
		}
		if msg.JobID != id {
			t.Fatalf("update for unknown job %s", msg.JobID)
		}
		if msg.Status == string(entity.StatusCompleted) {
			if msg.Progress != 100 {
				t.Fatalf("completed with progress %d", msg.Progress)
			}
			sawCompleted = true
		}
	}
}

func TestWSMultipleClients(t *testing.T) {
	a := newApp(t)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	c1 := dialWS(t, srv)
	c2 := dialWS(t, srv)
	readMessage(t, c1)
	readMessage(t, c2)

	_, env := a.do(t, "POST", "/api/download", `{"url":"u1","profile":"gytmdl"}`)
	var id string
	_ = json.Unmarshal(env.Data, &id)
	<-a.runner.started
	a.runner.release <- struct{}{}

	for _, conn := range []*websocket.Conn{c1, c2} {
		msg := readMessage(t, conn)
		if msg.Type != "job_update" || msg.JobID != id {
			t.Fatalf("expected update for %s, got %+v", id, msg)
		}
	}
}
