package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
)

const samplePDF = "%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n"

// pngHeader is the eight-byte PNG signature followed by an IHDR chunk.
const pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"

func pdfUpload() UploadInput {
	return UploadInput{
		Type:        "first_aid_cert",
		FileName:    "cert.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(samplePDF)),
		Body:        strings.NewReader(samplePDF),
	}
}

func TestDocumentService_Upload(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		svc := NewDocumentService(new(MockDocumentRepository), nil, nil)
		_, err := svc.Upload(context.Background(), "u1", pdfUpload())
		assert.ErrorIs(t, err, apperrors.ErrStorageNotConfigured)
	})

	invalid := []struct {
		name   string
		mutate func(in *UploadInput)
	}{
		{"missing type", func(in *UploadInput) { in.Type = " " }},
		{"empty file", func(in *UploadInput) { in.Size = 0 }},
		{"too large", func(in *UploadInput) { in.Size = MaxDocumentSize + 1 }},
		{"unsupported content type", func(in *UploadInput) { in.ContentType = "application/zip" }},
		{"insurance without type", func(in *UploadInput) { in.Type = model.DocumentTypeInsurance }},
		{"negative coverage", func(in *UploadInput) { in.CoverageAmount = -1 }},
		{"executable labelled as pdf", func(in *UploadInput) {
			in.Body = strings.NewReader("MZ\x90\x00\x03\x00\x00\x00\x04\x00\x00\x00\xff\xff")
		}},
		{"plain text labelled as pdf", func(in *UploadInput) { in.Body = strings.NewReader("just some notes") }},
		{"png labelled as pdf", func(in *UploadInput) { in.Body = strings.NewReader(pngHeader) }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDocumentService(new(MockDocumentRepository), new(MockDocumentStore), nil)
			in := pdfUpload()
			tt.mutate(&in)
			_, err := svc.Upload(context.Background(), "u1", in)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid), "got %v", err)
		})
	}

	t.Run("stores object and row", func(t *testing.T) {
		repo := new(MockDocumentRepository)
		store := new(MockDocumentStore)
		store.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(r io.Reader) bool {
			b, err := io.ReadAll(r)
			return err == nil && string(b) == samplePDF
		}), int64(len(samplePDF)), "application/pdf").Return(nil)
		store.On("PresignedURL", mock.Anything, mock.AnythingOfType("string"), documentURLTTL).Return("https://files/cert.pdf", nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).Return(nil)
		svc := NewDocumentService(repo, store, nil)

		in := pdfUpload()
		in.ContentType = "Application/PDF; charset=binary"
		doc, err := svc.Upload(context.Background(), "u1", in)
		require.NoError(t, err)
		assert.Equal(t, model.ReviewPending, doc.Status)
		assert.Equal(t, "application/pdf", doc.ContentType)
		assert.Equal(t, "https://files/cert.pdf", doc.URL)
		assert.NotEmpty(t, doc.ObjectKey)
	})

	t.Run("undeclared type is taken from content", func(t *testing.T) {
		repo := new(MockDocumentRepository)
		store := new(MockDocumentStore)
		store.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, int64(len(pngHeader)), "image/png").Return(nil)
		store.On("PresignedURL", mock.Anything, mock.AnythingOfType("string"), documentURLTTL).Return("", errors.New("offline"))
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).Return(nil)
		svc := NewDocumentService(repo, store, nil)

		in := pdfUpload()
		in.FileName = "card.png"
		in.ContentType = ""
		in.Size = int64(len(pngHeader))
		in.Body = strings.NewReader(pngHeader)
		doc, err := svc.Upload(context.Background(), "u1", in)
		require.NoError(t, err)
		assert.Equal(t, "image/png", doc.ContentType)
		assert.Empty(t, doc.URL)
	})

	t.Run("removes object when row insert fails", func(t *testing.T) {
		repo := new(MockDocumentRepository)
		store := new(MockDocumentStore)
		store.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, int64(len(samplePDF)), "application/pdf").Return(nil)
		store.On("Remove", mock.Anything, mock.AnythingOfType("string")).Return(nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).Return(errors.New("db down"))
		svc := NewDocumentService(repo, store, nil)

		_, err := svc.Upload(context.Background(), "u1", pdfUpload())
		require.Error(t, err)
		store.AssertCalled(t, "Remove", mock.Anything, mock.AnythingOfType("string"))
	})
}

func TestDocumentService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("not found", func(t *testing.T) {
		repo := new(MockDocumentRepository)
		repo.On("FindForUser", mock.Anything, "u1", id).Return(nil, gorm.ErrRecordNotFound)
		svc := NewDocumentService(repo, nil, nil)
		assert.ErrorIs(t, svc.Delete(context.Background(), "u1", id), apperrors.ErrDocumentNotFound)
	})

	t.Run("reviewed documents are kept", func(t *testing.T) {
		repo := new(MockDocumentRepository)
		repo.On("FindForUser", mock.Anything, "u1", id).Return(&model.Document{ID: id, Status: model.ReviewApproved}, nil)
		svc := NewDocumentService(repo, nil, nil)
		assert.ErrorIs(t, svc.Delete(context.Background(), "u1", id), apperrors.ErrDocumentNotPending)
	})

	t.Run("pending document removed with its object", func(t *testing.T) {
		repo := new(MockDocumentRepository)
		store := new(MockDocumentStore)
		doc := &model.Document{ID: id, Status: model.ReviewPending, ObjectKey: "documents/u1/x.pdf"}
		repo.On("FindForUser", mock.Anything, "u1", id).Return(doc, nil)
		repo.On("Delete", mock.Anything, doc).Return(nil)
		store.On("Remove", mock.Anything, "documents/u1/x.pdf").Return(errors.New("gone"))
		svc := NewDocumentService(repo, store, nil)

		require.NoError(t, svc.Delete(context.Background(), "u1", id))
		store.AssertExpectations(t)
	})
}

func TestDocumentService_Review(t *testing.T) {
	id := uuid.New()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := new(MockDocumentRepository)
	doc := &model.Document{ID: id, UserID: "u1", Status: model.ReviewPending}
	repo.On("FindForUser", mock.Anything, "u1", id).Return(doc, nil)
	repo.On("Update", mock.Anything, doc).Return(nil)
	svc := NewDocumentService(repo, nil, nil).(*documentService)
	svc.now = func() time.Time { return now }

	_, err := svc.Review(context.Background(), "admin", "u1", id, model.ReviewPending, "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))

	got, err := svc.Review(context.Background(), "admin", "u1", id, model.ReviewApproved, "looks good")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, got.Status)
	assert.Equal(t, "admin", got.ReviewedBy)
	assert.Equal(t, now, *got.ReviewedAt)
}

func TestLiabilityService_Accept(t *testing.T) {
	exchangeID := uuid.New()

	tests := []struct {
		name    string
		in      WaiverInput
		wantErr bool
	}{
		{"unknown risk level", WaiverInput{SkillCategory: "Yoga", RiskLevel: "wild"}, true},
		{"missing category", WaiverInput{SkillCategory: " ", RiskLevel: "low"}, true},
		{"high risk without contact", WaiverInput{SkillCategory: "Boxing", RiskLevel: "high"}, true},
		{"high risk with partial contact", WaiverInput{
			SkillCategory:    "Boxing",
			RiskLevel:        "high",
			EmergencyContact: &model.EmergencyContact{Name: "Mom"},
		}, true},
		{"bad exchange id", WaiverInput{SkillCategory: "Yoga", RiskLevel: "medium", ExchangeID: "x"}, true},
		{"high risk with contact", WaiverInput{
			SkillCategory:    "Boxing",
			RiskLevel:        "high",
			EmergencyContact: &model.EmergencyContact{Name: "Mom", Phone: "555-0100"},
			ExchangeID:       exchangeID.String(),
		}, false},
		{"low risk", WaiverInput{SkillCategory: "Spanish", RiskLevel: "low"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			waivers := new(MockWaiverRepository)
			waivers.On("Create", mock.Anything, mock.AnythingOfType("*model.LiabilityWaiver")).Return(nil)
			svc := NewLiabilityService(waivers)

			w, err := svc.Accept(context.Background(), "u1", tt.in)
			if tt.wantErr {
				assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid), "got %v", err)
				waivers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, WaiverVersion, w.Version)
			assert.Equal(t, "u1", w.UserID)
		})
	}
}

func TestLiabilityService_Check(t *testing.T) {
	svc := NewLiabilityService(nil)

	_, err := svc.Check("  ")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))

	c, err := svc.Check("Kickboxing")
	require.NoError(t, err)
	assert.Equal(t, "Martial Arts", c.Category)
	assert.True(t, c.WaiverRequired)

	c, err = svc.Check("Python programming")
	require.NoError(t, err)
	assert.Equal(t, "Technical", c.Category)
	assert.False(t, c.WaiverRequired)
}

func TestLiabilityService_List(t *testing.T) {
	waivers := new(MockWaiverRepository)
	waivers.On("ListByUser", mock.Anything, "u1").Return(nil, nil)
	svc := NewLiabilityService(waivers)

	out, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
