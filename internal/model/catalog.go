package model

import "time"

// Package is a purchased offering (invoice) for a client, composed of
// components. Position preserves the client's package ordering for display.
type Package struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Component is one deliverable unit within a package.
type Component struct {
	ID        string    `json:"id"`
	PackageID string    `json:"package_id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
