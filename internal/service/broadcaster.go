package service

// Admin live feed event types
const (
	EventLeadSubmitted   = "lead_submitted"
	EventCatalogReplaced = "catalog_replaced"
	EventContentUpdated  = "content_updated"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToAdmins(msgType string, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToAdmins(string, interface{}) {}
