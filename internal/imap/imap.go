package imap

import (
	"github.com/emersion/go-imap"
)

type Client interface {
	Connect(server string) error
	Login(user, password string) error
	SelectMailbox(name string) error
	SearchFrom(sender string) ([]uint32, error)
	FetchMessage(uid uint32) (*imap.Message, error)
	Close() error
}
