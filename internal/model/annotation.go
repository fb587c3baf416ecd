package model

import "time"

// Role identifies who created a client-scoped attachment.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Comment is a note on a progress step, optionally carrying an uploaded
// attachment. Immutable once created except for deletion.
type Comment struct {
	ID             string    `json:"id"`
	StepID         string    `json:"step_id"`
	Author         string    `json:"author"`
	Text           string    `json:"text,omitempty"`
	AttachmentURL  string    `json:"attachment_url,omitempty"`
	AttachmentType string    `json:"attachment_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AttachedFile is a file attached to the client as a whole, independent of
// any step. The bytes live in object storage; StorageKey locates them so the
// object can be cleaned up when the record is deleted.
type AttachedFile struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	StorageKey  string    `json:"-"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedBy  Role      `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClientLink is an external link attached to the client.
type ClientLink struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedBy Role      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
