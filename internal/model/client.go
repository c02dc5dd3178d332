package model

import (
	"fmt"
	"strings"
)

// NoEmail is stored when a client does not supply an email address.
const NoEmail = "N/A"

// ClientID identifies a registered client.
type ClientID int

// Client is a person or group that books rooms. Only the contact details
// may change after registration.
type Client struct {
	id    ClientID
	name  string
	phone string
	email string
}

// NewClient validates and builds a client. An empty email is recorded as NoEmail.
func NewClient(id ClientID, name, phone, email string) (*Client, error) {
	if id < 1 {
		return nil, fmt.Errorf("%w: client id cannot be less than 1", ErrInvalidArgument)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: client name cannot be empty", ErrInvalidArgument)
	}
	c := &Client{id: id, name: name}
	if err := c.SetPhone(phone); err != nil {
		return nil, err
	}
	c.SetEmail(email)
	return c, nil
}

// Accessors for the client's identity and contact details.

func (c *Client) ID() ClientID   { return c.id }
func (c *Client) Name() string   { return c.name }
func (c *Client) Phone() string  { return c.phone }
func (c *Client) Email() string  { return c.email }
func (c *Client) HasEmail() bool { return c.email != NoEmail }

// Clone returns an independent copy of the client.
func (c *Client) Clone() *Client {
	cp := *c
	return &cp
}

// SetPhone replaces the contact phone number.
func (c *Client) SetPhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("%w: client phone number cannot be empty", ErrInvalidArgument)
	}
	c.phone = phone
	return nil
}

// SetEmail replaces the contact email. An empty value clears it back to NoEmail.
func (c *Client) SetEmail(email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		email = NoEmail
	}
	c.email = email
}
