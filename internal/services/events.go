package services

import (
	"log"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Routing keys of published rental events.
const (
	EventsExchange        = ""
	EventRentalCheckedOut = "rental.checked_out"
	EventRentalReturned   = "rental.returned"
)

// EventPublisher publishes a message to the broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// RentalEvent is the payload of every rental event.
type RentalEvent struct {
	Type       string    `json:"type"`
	RentalID   uint      `json:"rental_id"`
	UserID     uint      `json:"user_id"`
	BookID     uint      `json:"book_id"`
	DueAt      time.Time `json:"due_at"`
	Fee        int64     `json:"charge,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent is best effort: the rental has already been committed, so a
// broker failure is logged and never returned.
func publishEvent(publisher EventPublisher, event RentalEvent) {
	if publisher == nil {
		return
	}
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for rental %d: %v", event.Type, event.RentalID, err)
		return
	}
	if err := publisher.Publish(EventsExchange, event.Type, body); err != nil {
		log.Printf("Warning: failed to publish %s event for rental %d: %v", event.Type, event.RentalID, err)
		return
	}
	log.Printf("Published %s event for rental %d", event.Type, event.RentalID)
}
