package clients

import (
	"context"

	ws "rentledger/internal/transport/websocket"
)

// Collection names carried on change events. Clients refetch the named
// collection when they see one.
const (
	CollectionTenants         = "tenants"
	CollectionPayments        = "payments"
	CollectionPendingPayments = "pendingPayments"
	CollectionCharges         = "monthlyCharges"
	CollectionProperties      = "properties"
	CollectionExpenses        = "expenses"
	CollectionSettings        = "settings"
)

type EventsClient struct {
	hub *ws.Hub
}

func NewEventsClient(hub *ws.Hub) *EventsClient {
	return &EventsClient{
		hub: hub,
	}
}

// NotifyCollectionChanged tells connected dashboards that documents in
// a collection changed. The event carries the action and the affected
// document id; clients refetch rather than patch locally.
func (c *EventsClient) NotifyCollectionChanged(ctx context.Context, collection, action, id string) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type:       "collection_changed",
		Collection: collection,
		Data: map[string]interface{}{
			"action": action,
			"id":     id,
		},
	}

	c.hub.Broadcast(message)
	return nil
}

func (c *EventsClient) NotifyReportProgress(
	ctx context.Context,
	reportID string,
	progress float64,
	stage string,
) error {
	if c.hub == nil {
		return nil
	}

	data := map[string]interface{}{
		"id":       reportID,
		"progress": progress,
	}
	if stage != "" {
		data["stage"] = stage
	}

	message := &ws.Message{
		Type: "report_progress",
		Data: data,
	}

	c.hub.Broadcast(message)
	return nil
}

func (c *EventsClient) NotifyReportComplete(
	ctx context.Context,
	reportID string,
	url string,
	filename string,
) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type: "report_complete",
		Data: map[string]interface{}{
			"id":       reportID,
			"url":      url,
			"filename": filename,
		},
	}

	c.hub.Broadcast(message)
	return nil
}

// NotifyReportFailed pushes the failure message so the dashboard can
// surface it next to the report entry.
func (c *EventsClient) NotifyReportFailed(ctx context.Context, reportID string, errMsg string) error {
	if c.hub == nil {
		return nil
	}

	message := &ws.Message{
		Type: "report_failed",
		Data: map[string]interface{}{
			"id":      reportID,
			"message": errMsg,
		},
	}

	c.hub.Broadcast(message)
	return nil
}
