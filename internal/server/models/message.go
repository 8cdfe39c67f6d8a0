// Package models holds the records and views shared by the server layers.
package models

import "time"

// Message is the creation view of a message: identifiers and timestamp,
// no joined user data.
type Message struct {
	ID           int64     `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// MessageDetail is a message with both parties denormalized.
type MessageDetail struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser UserRef    `json:"from_user"`
	ToUser   UserRef    `json:"to_user"`
}

// Parties returns the sender and recipient usernames.
func (m *MessageDetail) Parties() (from, to string) {
	return m.FromUser.Username, m.ToUser.Username
}

// SentMessage is an entry of a sender's history: the recipient is
// denormalized.
type SentMessage struct {
	ID     int64      `json:"id"`
	Body   string     `json:"body"`
	SentAt time.Time  `json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`
	ToUser UserRef    `json:"to_user"`
}

// ReceivedMessage is an entry of a recipient's history: the sender is
// denormalized.
type ReceivedMessage struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser UserRef    `json:"from_user"`
}

// ReadReceipt is the result of marking a message read.
type ReadReceipt struct {
	ID     int64     `json:"id"`
	ReadAt time.Time `json:"read_at"`
}
