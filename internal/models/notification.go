package models

import (
	"math"
	"time"

	json "github.com/goccy/go-json"
)

// Payload is the user-visible content of a push notification.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotificationRecord is one received push notification as the backend and the
// local cache file describe it. Two records are the same notification when their
// IDs match, whatever the rest of their content.
type NotificationRecord struct {
	ID       string
	Topic    string
	Posted   time.Time
	Category *string
	Payload  Payload
}

type notificationWire struct {
	ID       string  `json:"id"`
	Topic    string  `json:"topic"`
	Posted   float64 `json:"posted"`
	Category *string `json:"category,omitempty"`
	Payload  Payload `json:"payload"`
}

func (n NotificationRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(notificationWire{
		ID:       n.ID,
		Topic:    n.Topic,
		Posted:   EpochSeconds(n.Posted),
		Category: n.Category,
		Payload:  n.Payload,
	})
}

func (n *NotificationRecord) UnmarshalJSON(data []byte) error {
	var w notificationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.ID = w.ID
	n.Topic = w.Topic
	n.Posted = FromEpochSeconds(w.Posted)
	n.Category = w.Category
	n.Payload = w.Payload
	return nil
}

// Equal reports whether two records identify the same notification.
func (n NotificationRecord) Equal(other NotificationRecord) bool {
	return n.ID == other.ID
}

// EpochSeconds converts t to fractional seconds since the Unix epoch, the
// representation used on the wire and in the cache file.
func EpochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func FromEpochSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9)))
}
