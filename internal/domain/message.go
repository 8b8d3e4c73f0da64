package domain

import "time"

type MessageChannel string

const ChannelWhatsApp MessageChannel = "whatsapp"

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// Message is one inbound or outbound exchange on a messaging channel
type Message struct {
	ID            int64
	Channel       MessageChannel
	Direction     MessageDirection
	ExternalID    *string // provider message id, unique per channel
	From          string
	To            string
	Body          string
	ProfileName   string
	ReservationID *int64
	Payload       map[string]string // raw provider fields
	CreatedAt     time.Time
}
