// Package queue defines the domain events published to the message broker
// and the background consumer that journals them.
package queue

// QueueName is the durable queue every domain event is routed to.
const QueueName = "paillette.events"

// Event types.
const (
	ShowCreated         = "show.created"
	ShowRebuilt         = "show.rebuilt"
	ShowDeleted         = "show.deleted"
	AvailabilityChanged = "availability.changed"
	PasswordReset       = "password.reset"
)

// Event is published after the transaction it describes has committed.  It
// carries enough for a consumer to journal the change without querying the
// database.
type Event struct {
	Type     string `json:"type"`
	ActorID  uint64 `json:"actor_id,omitempty"`
	ShowID   uint64 `json:"show_id,omitempty"`
	ShowCode string `json:"show_code,omitempty"`
	ArtistID uint64 `json:"artist_id,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Detail   string `json:"detail,omitempty"`
	At       string `json:"at"`
}
