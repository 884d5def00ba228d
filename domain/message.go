// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. ID and CreatedAt are
// assigned by the message store at persistence time.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Room      string    `json:"room"`
	Sender    Identity  `json:"sender"`
	Content   string    `json:"text"`
	CreatedAt time.Time `json:"timestamp"`
}
