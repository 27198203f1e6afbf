package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"projectflow/dto"
	"projectflow/model"
	"projectflow/storage"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultMaxUploadBytes caps a single uploaded file.
const DefaultMaxUploadBytes = 10 << 20

// sniffLen is how much of a file is read for content type detection.
const sniffLen = 3072

type AttachmentService struct {
	db       *gorm.DB
	store    storage.ObjectStorage
	maxBytes int64
	log      *zap.Logger
}

func NewAttachmentService(db *gorm.DB, store storage.ObjectStorage, maxBytes int64, log *zap.Logger) *AttachmentService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &AttachmentService{db: db, store: store, maxBytes: maxBytes, log: log}
}

// objectKey places files under "<owner>s/attachments/<uuid>.<ext>".
func objectKey(owner model.Owner, ext string) string {
	key := fmt.Sprintf("%ss/attachments/%s", strings.ToLower(string(owner.Type)), uuid.NewString())
	if ext != "" {
		key += "." + ext
	}
	return key
}

func (s *AttachmentService) List(ctx context.Context, owner model.Owner) ([]model.Attachment, error) {
	if err := requireOwner(ctx, s.db, owner); err != nil {
		return nil, err
	}
	var attachments []model.Attachment
	if err := QueryFor(ctx, s.db, owner, &attachments); err != nil {
		return nil, fmt.Errorf("failed to fetch attachments: %w", err)
	}
	return attachments, nil
}

// Upload stores each file and records an attachment for it. Sizes are
// checked for the whole batch before anything is written. A storage
// failure part way through keeps the files already stored and returns
// them along with a *StorageError.
func (s *AttachmentService) Upload(ctx context.Context, p Principal, owner model.Owner, files []dto.UploadFile) ([]model.Attachment, error) {
	if err := requireOwner(ctx, s.db, owner); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, invalid("files", "at least one file is required")
	}
	verr := &ValidationError{}
	for i, f := range files {
		if f.Size > s.maxBytes {
			verr.Fields = append(verr.Fields, FieldError{
				Field:   fmt.Sprintf("files.%d", i),
				Message: fmt.Sprintf("%s is larger than %s", f.Name, humanize.IBytes(uint64(s.maxBytes))),
			})
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	created := make([]model.Attachment, 0, len(files))
	for _, f := range files {
		a, err := s.storeOne(ctx, p, owner, f)
		if err != nil {
			return created, err
		}
		created = append(created, *a)
	}

	s.log.Info("attachments uploaded", zap.Stringer("owner", owner), zap.Int("count", len(created)))
	return created, nil
}

func (s *AttachmentService) storeOne(ctx context.Context, p Principal, owner model.Owner, f dto.UploadFile) (*model.Attachment, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, &StorageError{Op: "read", Path: f.Name, Err: err}
	}
	head = head[:n]
	detected := mimetype.Detect(head)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
	key, err := s.store.Store(ctx, objectKey(owner, ext), io.MultiReader(bytes.NewReader(head), f.Content))
	if err != nil {
		return nil, &StorageError{Op: "store", Path: f.Name, Err: err}
	}

	clientType := f.MimeType
	if clientType == "" {
		clientType = detected.String()
	}
	a := &model.Attachment{
		Name:      f.Name,
		Path:      key,
		URL:       s.store.URL(key),
		Type:      detected.String(),
		MimeType:  clientType,
		Size:      f.Size,
		Extension: ext,
		UserID:    p.UserID,
	}
	if err := AttachTo(ctx, s.db, owner, a); err != nil {
		if _, derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Warn("failed to remove object after insert error", zap.String("path", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to record attachment %s: %w", f.Name, err)
	}
	return a, nil
}

// find loads an attachment and checks it belongs to owner.
func (s *AttachmentService) find(ctx context.Context, owner model.Owner, id uint) (*model.Attachment, error) {
	var a model.Attachment
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, lookupErr("attachment", err)
	}
	if a.Owner() != owner {
		return nil, notFound("attachment")
	}
	return &a, nil
}

// Download opens the stored file of an attachment. The caller closes it.
func (s *AttachmentService) Download(ctx context.Context, owner model.Owner, id uint) (*model.Attachment, io.ReadCloser, error) {
	a, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Download(ctx, a.Path)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, nil, notFound("file")
		}
		return nil, nil, &StorageError{Op: "download", Path: a.Name, Err: err}
	}
	return a, rc, nil
}

// Delete removes the stored file when present, then the attachment row.
func (s *AttachmentService) Delete(ctx context.Context, owner model.Owner, id uint) error {
	a, err := s.find(ctx, owner, id)
	if err != nil {
		return err
	}
	if _, err := s.store.Delete(ctx, a.Path); err != nil {
		return &StorageError{Op: "delete", Path: a.Name, Err: err}
	}
	if err := s.db.WithContext(ctx).Delete(&model.Attachment{}, a.ID).Error; err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	s.log.Info("attachment deleted", zap.Uint("attachment_id", a.ID), zap.Stringer("owner", owner))
	return nil
}
