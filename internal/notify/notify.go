// Package notify publishes domain events for out-of-process consumers
// (mail or push fan-out). Publishing is best effort: request handling never
// depends on it.
package notify

import (
	"context"
	"time"
)

const RoutingMessageCreated = "message.created"

// MessageCreated is emitted once per stored message.
type MessageCreated struct {
	MessageID       string    `json:"messageId"`
	PropertyID      string    `json:"propertyId"`
	RecipientUserID string    `json:"recipientUserId"`
	SenderName      string    `json:"senderName"`
	SenderEmail     string    `json:"senderEmail,omitempty"`
	FromAgent       bool      `json:"fromAgent"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                                { return nil }

// Default is replaced by main when RabbitMQ is configured.
var Default Publisher = Noop{}
