package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
	"yoohoo/internal/storage"
)

const (
	// MaxDocumentSize is the upload ceiling for one document.
	MaxDocumentSize = 10 << 20
	documentURLTTL  = 15 * time.Minute
	sniffLen        = 512
)

var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
}

// UploadInput describes an uploaded compliance document.
type UploadInput struct {
	Type           string
	InsuranceType  string
	CoverageAmount int64
	ExpiresAt      *time.Time
	FileName       string
	ContentType    string
	Size           int64
	Body           io.Reader
}

// DocumentService manages compliance document files and their review.
type DocumentService interface {
	Upload(ctx context.Context, uid string, in UploadInput) (*model.Document, error)
	List(ctx context.Context, uid string) ([]model.Document, error)
	Delete(ctx context.Context, uid string, id uuid.UUID) error
	ListPending(ctx context.Context) ([]model.Document, error)
	Review(ctx context.Context, adminID, uid string, id uuid.UUID, status model.ReviewStatus, notes string) (*model.Document, error)
}

type documentService struct {
	repo  repository.DocumentRepository
	store storage.DocumentStore
	log   *zap.Logger
	now   func() time.Time
}

// NewDocumentService builds a DocumentService. store may be nil when object
// storage is not configured; uploads then fail with 503.
func NewDocumentService(repo repository.DocumentRepository, store storage.DocumentStore, log *zap.Logger) DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &documentService{repo: repo, store: store, log: log, now: time.Now}
}

func (s *documentService) Upload(ctx context.Context, uid string, in UploadInput) (*model.Document, error) {
	if s.store == nil {
		return nil, apperrors.ErrStorageNotConfigured
	}
	docType := strings.TrimSpace(in.Type)
	if docType == "" || len(docType) > 64 {
		return nil, apperrors.Invalid("Document type is required")
	}
	if in.Size <= 0 {
		return nil, apperrors.Invalid("File is empty")
	}
	if in.Size > MaxDocumentSize {
		return nil, apperrors.Invalid("File exceeds the 10 MB limit")
	}
	if docType == model.DocumentTypeInsurance && strings.TrimSpace(in.InsuranceType) == "" {
		return nil, apperrors.Invalid("insuranceType is required for insurance documents")
	}
	if in.CoverageAmount < 0 {
		return nil, apperrors.Invalid("coverageAmount must not be negative")
	}
	declared := strings.ToLower(strings.TrimSpace(strings.Split(in.ContentType, ";")[0]))
	if declared != "" && !allowedDocumentTypes[declared] {
		return nil, apperrors.Invalid("Unsupported file type").WithMeta("contentType", in.ContentType)
	}
	detected, body, err := sniffContentType(in.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalid, "Failed to read file")
	}
	ct := strings.Split(detected.String(), ";")[0]
	if !allowedDocumentTypes[ct] {
		return nil, apperrors.Invalid("Unsupported file type").WithMeta("detectedType", ct)
	}
	if declared != "" && !detected.Is(declared) {
		return nil, apperrors.Invalid("File content does not match its declared type").
			WithMeta("contentType", declared).
			WithMeta("detectedType", ct)
	}

	doc := &model.Document{
		ID:             uuid.New(),
		UserID:         uid,
		Type:           docType,
		InsuranceType:  strings.TrimSpace(in.InsuranceType),
		CoverageAmount: in.CoverageAmount,
		FileName:       in.FileName,
		ContentType:    ct,
		Size:           in.Size,
		Status:         model.ReviewPending,
		ExpiresAt:      in.ExpiresAt,
	}
	doc.ObjectKey = storage.ObjectKey(uid, doc.ID.String(), in.FileName)

	if err := s.store.Put(ctx, doc.ObjectKey, body, in.Size, ct); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Failed to store document")
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		if rmErr := s.store.Remove(ctx, doc.ObjectKey); rmErr != nil {
			s.log.Warn("remove orphaned document object", zap.String("key", doc.ObjectKey), zap.Error(rmErr))
		}
		return nil, err
	}
	s.sign(ctx, doc)
	return doc, nil
}

// sniffContentType detects the media type from the first bytes of r and
// returns a reader that still yields the whole stream.
func sniffContentType(r io.Reader) (*mimetype.MIME, io.Reader, error) {
	if r == nil {
		return nil, nil, io.ErrUnexpectedEOF
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, nil, err
	}
	head = head[:n]
	return mimetype.Detect(head), io.MultiReader(bytes.NewReader(head), r), nil
}

func (s *documentService) sign(ctx context.Context, doc *model.Document) {
	if s.store == nil || doc.ObjectKey == "" {
		return
	}
	u, err := s.store.PresignedURL(ctx, doc.ObjectKey, documentURLTTL)
	if err != nil {
		s.log.Warn("presign document", zap.String("document_id", doc.ID.String()), zap.Error(err))
		return
	}
	doc.URL = u
}

func (s *documentService) signAll(ctx context.Context, docs []model.Document) []model.Document {
	for i := range docs {
		s.sign(ctx, &docs[i])
	}
	return docs
}

func (s *documentService) List(ctx context.Context, uid string) ([]model.Document, error) {
	docs, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.signAll(ctx, docs), nil
}

func (s *documentService) Delete(ctx context.Context, uid string, id uuid.UUID) error {
	doc, err := s.repo.FindForUser(ctx, uid, id)
	if err != nil {
		return notFound(err, apperrors.ErrDocumentNotFound)
	}
	if doc.Status != model.ReviewPending {
		return apperrors.ErrDocumentNotPending
	}
	if err := s.repo.Delete(ctx, doc); err != nil {
		return err
	}
	if s.store != nil && doc.ObjectKey != "" {
		if err := s.store.Remove(ctx, doc.ObjectKey); err != nil {
			s.log.Warn("remove document object", zap.String("key", doc.ObjectKey), zap.Error(err))
		}
	}
	return nil
}

func (s *documentService) ListPending(ctx context.Context) ([]model.Document, error) {
	docs, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return s.signAll(ctx, docs), nil
}

func (s *documentService) Review(ctx context.Context, adminID, uid string, id uuid.UUID, status model.ReviewStatus, notes string) (*model.Document, error) {
	if status != model.ReviewApproved && status != model.ReviewRejected {
		return nil, apperrors.Invalid("status must be approved or rejected")
	}
	doc, err := s.repo.FindForUser(ctx, uid, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrDocumentNotFound)
	}
	now := s.now()
	doc.Status = status
	doc.ReviewNotes = notes
	doc.ReviewedBy = adminID
	doc.ReviewedAt = &now
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
