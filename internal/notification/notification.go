package notification

import (
	userDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/user"
)

// Message is a single notification addressed to a portal client.
type Message struct {
	ClientID int64
	Subject  string
	Body     string
}

// Sender delivers a message over a concrete channel.
type Sender interface {
	Send(msg Message) error
}

// Directory resolves a client id to a contactable user.
type Directory interface {
	GetByID(id int64) (*userDatamodel.User, error)
}
