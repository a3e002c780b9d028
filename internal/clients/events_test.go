package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ws "rentledger/internal/transport/websocket"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, hub *ws.Hub) (*websocket.Conn, func()) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r)
	}))

	wsURL := "ws" + server.URL[4:]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		server.Close()
		t.Fatalf("Failed to connect: %v", err)
	}

	// give the hub time to register the connection
	time.Sleep(100 * time.Millisecond)

	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func messageData(t *testing.T, m ws.Message) map[string]interface{} {
	t.Helper()

	dataBytes, err := json.Marshal(m.Data)
	if err != nil {
		t.Fatalf("Failed to marshal data: %v", err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		t.Fatalf("Failed to unmarshal data: %v", err)
	}
	return data
}

func TestEventsClient_NotifyCollectionChanged(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	conn, done := dialTestHub(t, hub)
	defer done()

	client := NewEventsClient(hub)

	err := client.NotifyCollectionChanged(context.Background(), CollectionTenants, "updated", "tenant-1")
	if err != nil {
		t.Fatalf("Failed to notify: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var received ws.Message
	err = conn.ReadJSON(&received)
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	if received.Type != "collection_changed" {
		t.Errorf("Expected type 'collection_changed', got '%s'", received.Type)
	}
	if received.Collection != CollectionTenants {
		t.Errorf("Expected collection 'tenants', got '%s'", received.Collection)
	}

	data := messageData(t, received)
	if data["action"] != "updated" {
		t.Errorf("Expected action 'updated', got '%v'", data["action"])
	}
	if data["id"] != "tenant-1" {
		t.Errorf("Expected id 'tenant-1', got '%v'", data["id"])
	}
}

func TestEventsClient_NotifyReportProgress(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	conn, done := dialTestHub(t, hub)
	defer done()

	client := NewEventsClient(hub)

	err := client.NotifyReportProgress(context.Background(), "report-123", 50.5, "")
	if err != nil {
		t.Fatalf("Failed to notify progress: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var received ws.Message
	err = conn.ReadJSON(&received)
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	if received.Type != "report_progress" {
		t.Errorf("Expected type 'report_progress', got '%s'", received.Type)
	}

	data := messageData(t, received)
	if data["id"] != "report-123" {
		t.Errorf("Expected id 'report-123', got '%v'", data["id"])
	}
	if data["progress"].(float64) != 50.5 {
		t.Errorf("Expected progress 50.5, got %v", data["progress"])
	}
	if _, ok := data["stage"]; ok {
		t.Errorf("Expected no stage field when stage is empty, got %v", data["stage"])
	}
}

func TestEventsClient_NotifyReportComplete(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	conn, done := dialTestHub(t, hub)
	defer done()

	client := NewEventsClient(hub)

	err := client.NotifyReportComplete(context.Background(), "report-123", "https://example.com/file.xlsx", "tenants_20260101.xlsx")
	if err != nil {
		t.Fatalf("Failed to notify complete: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var received ws.Message
	err = conn.ReadJSON(&received)
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	if received.Type != "report_complete" {
		t.Errorf("Expected type 'report_complete', got '%s'", received.Type)
	}

	data := messageData(t, received)
	if data["id"] != "report-123" {
		t.Errorf("Expected id 'report-123', got '%v'", data["id"])
	}
	if data["url"] != "https://example.com/file.xlsx" {
		t.Errorf("Expected url 'https://example.com/file.xlsx', got '%v'", data["url"])
	}
	if data["filename"] != "tenants_20260101.xlsx" {
		t.Errorf("Expected filename 'tenants_20260101.xlsx', got '%v'", data["filename"])
	}
}

func TestEventsClient_NotifyReportFailed(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	conn, done := dialTestHub(t, hub)
	defer done()

	client := NewEventsClient(hub)

	err := client.NotifyReportFailed(context.Background(), "report-123", "upload failed")
	if err != nil {
		t.Fatalf("Failed to notify failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var received ws.Message
	err = conn.ReadJSON(&received)
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	if received.Type != "report_failed" {
		t.Errorf("Expected type 'report_failed', got '%s'", received.Type)
	}

	data := messageData(t, received)
	if data["id"] != "report-123" {
		t.Errorf("Expected id 'report-123', got '%v'", data["id"])
	}
	if data["message"] != "upload failed" {
		t.Errorf("Expected message 'upload failed', got '%v'", data["message"])
	}
}

func TestEventsClient_NilHub(t *testing.T) {
	client := NewEventsClient(nil)

	// All notifications are best-effort no-ops without a hub.
	if err := client.NotifyCollectionChanged(context.Background(), CollectionPayments, "created", "p1"); err != nil {
		t.Errorf("Should not return error with nil hub, got: %v", err)
	}
	if err := client.NotifyReportProgress(context.Background(), "report-123", 50.5, ""); err != nil {
		t.Errorf("Should not return error with nil hub, got: %v", err)
	}
	if err := client.NotifyReportComplete(context.Background(), "report-123", "https://example.com/file.xlsx", "file.xlsx"); err != nil {
		t.Errorf("Should not return error with nil hub, got: %v", err)
	}
	if err := client.NotifyReportFailed(context.Background(), "report-123", "boom"); err != nil {
		t.Errorf("Should not return error with nil hub, got: %v", err)
	}
}
