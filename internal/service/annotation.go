package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"progressapi/internal/model"
	"progressapi/internal/repository"
	"progressapi/internal/storage"
)

// uploadURLExpiry bounds how long an issued upload target stays valid.
const uploadURLExpiry = 15 * time.Minute

// CommentInput is what a caller supplies when commenting on a step. Text
// and attachment are individually optional but at least one must be
// present. Attachments are uploaded by the caller beforehand via an upload
// target; only the resulting URL and content type arrive here.
type CommentInput struct {
	Author         string `json:"author"`
	Text           string `json:"text"`
	AttachmentURL  string `json:"attachment_url"`
	AttachmentType string `json:"attachment_type"`
}

// FileInput describes an already-uploaded client file.
type FileInput struct {
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	StorageKey  string     `json:"storage_key"`
	Size        int64      `json:"size"`
	ContentType string     `json:"content_type"`
	UploadedBy  model.Role `json:"uploaded_by"`
}

// LinkInput describes an external link to attach to a client.
type LinkInput struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	CreatedBy model.Role `json:"created_by"`
}

// AnnotationService manages comments scoped to a step and files/links
// scoped to a client, plus upload target issuance for attachments.
type AnnotationService interface {
	AddComment(ctx context.Context, stepID string, in CommentInput) (*model.Comment, error)
	DeleteComment(ctx context.Context, stepID, commentID string) error

	ListClientFiles(ctx context.Context, clientID string) ([]model.AttachedFile, error)
	AddClientFile(ctx context.Context, clientID string, in FileInput) (*model.AttachedFile, error)
	DeleteClientFile(ctx context.Context, id string) error

	ListClientLinks(ctx context.Context, clientID string) ([]model.ClientLink, error)
	AddClientLink(ctx context.Context, clientID string, in LinkInput) (*model.ClientLink, error)
	DeleteClientLink(ctx context.Context, id string) error

	// RequestUploadTarget reserves an object key and returns a presigned
	// upload URL plus the public URL the object will be served from. The
	// caller performs the byte upload itself.
	RequestUploadTarget(ctx context.Context, fileName, contentType string) (*storage.UploadTarget, error)
}

type annotationService struct {
	steps    repository.StepRepository
	comments repository.CommentRepository
	files    repository.FileRepository
	links    repository.LinkRepository
	store    storage.Storage
	now      func() time.Time
}

// NewAnnotationService constructs the annotation subsystem.
func NewAnnotationService(
	steps repository.StepRepository,
	comments repository.CommentRepository,
	files repository.FileRepository,
	links repository.LinkRepository,
	store storage.Storage,
) AnnotationService {
	return &annotationService{
		steps:    steps,
		comments: comments,
		files:    files,
		links:    links,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *annotationService) AddComment(ctx context.Context, stepID string, in CommentInput) (*model.Comment, error) {
	if stepID == "" {
		return nil, ErrIDRequired
	}
	if in.Author == "" {
		return nil, ErrAuthorRequired
	}
	if in.Text == "" && in.AttachmentURL == "" {
		return nil, ErrEmptyComment
	}

	// The step must exist; comments are never orphaned.
	if _, err := s.steps.FindByID(ctx, stepID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c := &model.Comment{
		ID:             uuid.New().String(),
		StepID:         stepID,
		Author:         in.Author,
		Text:           in.Text,
		AttachmentURL:  in.AttachmentURL,
		AttachmentType: in.AttachmentType,
		CreatedAt:      s.now(),
	}
	return s.comments.Create(ctx, c)
}

func (s *annotationService) DeleteComment(ctx context.Context, stepID, commentID string) error {
	if stepID == "" || commentID == "" {
		return ErrIDRequired
	}
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// A comment id under a different step is treated as absent, not as a
	// cross-step delete.
	if c.StepID != stepID {
		return ErrNotFound
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *annotationService) ListClientFiles(ctx context.Context, clientID string) ([]model.AttachedFile, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	return s.files.ListByClient(ctx, clientID)
}

func (s *annotationService) AddClientFile(ctx context.Context, clientID string, in FileInput) (*model.AttachedFile, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	if in.URL == "" {
		return nil, ErrURLRequired
	}
	f := &model.AttachedFile{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Name:        in.Name,
		URL:         in.URL,
		StorageKey:  in.StorageKey,
		Size:        in.Size,
		ContentType: in.ContentType,
		UploadedBy:  in.UploadedBy,
		CreatedAt:   s.now(),
	}
	if f.UploadedBy == "" {
		f.UploadedBy = model.RoleAdmin
	}
	return s.files.Create(ctx, f)
}

func (s *annotationService) DeleteClientFile(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	f, err := s.files.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}
	// Best-effort object cleanup; the record is already gone and an
	// orphaned object is harmless.
	if f.StorageKey != "" {
		if err := s.store.Delete(ctx, f.StorageKey); err != nil {
			logOrphanedObject(f.StorageKey, err)
		}
	}
	return nil
}

func (s *annotationService) ListClientLinks(ctx context.Context, clientID string) ([]model.ClientLink, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	return s.links.ListByClient(ctx, clientID)
}

func (s *annotationService) AddClientLink(ctx context.Context, clientID string, in LinkInput) (*model.ClientLink, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.URL == "" {
		return nil, ErrURLRequired
	}
	l := &model.ClientLink{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Title:     in.Title,
		URL:       in.URL,
		CreatedBy: in.CreatedBy,
		CreatedAt: s.now(),
	}
	if l.CreatedBy == "" {
		l.CreatedBy = model.RoleAdmin
	}
	return s.links.Create(ctx, l)
}

func (s *annotationService) DeleteClientLink(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.links.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.links.Delete(ctx, id)
}

func (s *annotationService) RequestUploadTarget(ctx context.Context, fileName, contentType string) (*storage.UploadTarget, error) {
	if fileName == "" {
		return nil, ErrNameRequired
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	// Object names are UUID + original extension so collisions and path
	// tricks in user-supplied names cannot matter.
	ext := filepath.Ext(fileName)
	key := filepath.ToSlash(filepath.Join("uploads", uuid.New().String()+ext))

	uploadURL, err := s.store.PresignPut(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &storage.UploadTarget{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: s.store.PublicURL(key),
		ExpiresAt: s.now().Add(uploadURLExpiry),
	}, nil
}

func logOrphanedObject(key string, err error) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": "warn",
		"msg":   "attachment object left orphaned",
		"key":   key,
		"error": err.Error(),
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
