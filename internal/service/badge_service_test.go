package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
)

func TestBadgeService_Types(t *testing.T) {
	svc := NewBadgeService(nil, nil)
	assert.Len(t, svc.Types(""), 6)
	assert.Contains(t, svc.Types("physical-training"), "safety-certified")
	assert.NotContains(t, svc.Types("physical-training"), "licensed-professional")
}

func TestBadgeService_Request(t *testing.T) {
	docID := uuid.New()

	tests := []struct {
		name    string
		in      BadgeRequestInput
		setup   func(b *MockBadgeRepository, d *MockDocumentRepository)
		wantErr error
		code    apperrors.Code
	}{
		{
			name: "unknown badge type",
			in:   BadgeRequestInput{BadgeType: "astronaut", DocumentIDs: []string{docID.String()}},
			code: apperrors.CodeInvalid,
		},
		{
			name: "no documents",
			in:   BadgeRequestInput{BadgeType: "safety-certified"},
			code: apperrors.CodeInvalid,
		},
		{
			name: "pending request exists",
			in:   BadgeRequestInput{BadgeType: "safety-certified", DocumentIDs: []string{docID.String()}},
			setup: func(b *MockBadgeRepository, d *MockDocumentRepository) {
				b.On("HasPendingRequest", mock.Anything, "u1", "safety-certified").Return(true, nil)
				b.On("HasBadge", mock.Anything, "u1", "safety-certified").Return(false, nil)
			},
			wantErr: apperrors.ErrBadgeAlreadyExists,
		},
		{
			name: "badge already earned",
			in:   BadgeRequestInput{BadgeType: "safety-certified", DocumentIDs: []string{docID.String()}},
			setup: func(b *MockBadgeRepository, d *MockDocumentRepository) {
				b.On("HasPendingRequest", mock.Anything, "u1", "safety-certified").Return(false, nil)
				b.On("HasBadge", mock.Anything, "u1", "safety-certified").Return(true, nil)
			},
			wantErr: apperrors.ErrBadgeAlreadyExists,
		},
		{
			name: "malformed document id",
			in:   BadgeRequestInput{BadgeType: "safety-certified", DocumentIDs: []string{"nope"}},
			setup: func(b *MockBadgeRepository, d *MockDocumentRepository) {
				b.On("HasPendingRequest", mock.Anything, "u1", "safety-certified").Return(false, nil)
				b.On("HasBadge", mock.Anything, "u1", "safety-certified").Return(false, nil)
			},
			wantErr: apperrors.ErrInvalidDocuments,
		},
		{
			name: "document belongs to someone else",
			in:   BadgeRequestInput{BadgeType: "safety-certified", DocumentIDs: []string{docID.String()}},
			setup: func(b *MockBadgeRepository, d *MockDocumentRepository) {
				b.On("HasPendingRequest", mock.Anything, "u1", "safety-certified").Return(false, nil)
				b.On("HasBadge", mock.Anything, "u1", "safety-certified").Return(false, nil)
				d.On("FindManyForUser", mock.Anything, "u1", []uuid.UUID{docID}).Return([]model.Document{}, nil)
			},
			wantErr: apperrors.ErrInvalidDocuments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badges := new(MockBadgeRepository)
			docs := new(MockDocumentRepository)
			if tt.setup != nil {
				tt.setup(badges, docs)
			}
			svc := NewBadgeService(badges, docs)

			_, err := svc.Request(context.Background(), "u1", tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
		})
	}

	t.Run("creates pending request", func(t *testing.T) {
		badges := new(MockBadgeRepository)
		docs := new(MockDocumentRepository)
		badges.On("HasPendingRequest", mock.Anything, "u1", "safety-certified").Return(false, nil)
		badges.On("HasBadge", mock.Anything, "u1", "safety-certified").Return(false, nil)
		docs.On("FindManyForUser", mock.Anything, "u1", []uuid.UUID{docID}).Return([]model.Document{{ID: docID}}, nil)
		badges.On("CreateRequest", mock.Anything, mock.AnythingOfType("*model.BadgeRequest")).Return(nil)
		svc := NewBadgeService(badges, docs)

		req, err := svc.Request(context.Background(), "u1", BadgeRequestInput{
			BadgeType:   "safety-certified",
			DocumentIDs: []string{docID.String(), docID.String()},
			Notes:       " CPR card ",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ReviewPending, req.Status)
		assert.Equal(t, []string{docID.String()}, req.DocumentIDs)
		assert.Equal(t, "CPR card", req.Notes)
	})
}

func TestBadgeService_Mine(t *testing.T) {
	badges := new(MockBadgeRepository)
	svc := NewBadgeService(badges, nil)
	badges.On("ListBadgesByUser", mock.Anything, "u1", false).Return([]model.UserBadge{{BadgeType: "expert-level"}}, nil)
	badges.On("ListRequestsByUser", mock.Anything, "u1", model.ReviewPending).Return(nil, nil)

	mine, err := svc.Mine(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, mine.TotalBadges)
	assert.Equal(t, 0, mine.PendingCount)
	assert.NotNil(t, mine.PendingRequests)
}

func TestBadgeService_Requirements(t *testing.T) {
	t.Run("required category", func(t *testing.T) {
		badges := new(MockBadgeRepository)
		svc := NewBadgeService(badges, nil)
		badges.On("ListBadgesByUser", mock.Anything, "u1", false).Return([]model.UserBadge{{BadgeType: "safety-certified"}}, nil)
		badges.On("ListRequestsByUser", mock.Anything, "u1", model.ReviewPending).Return([]model.BadgeRequest{{BadgeType: "insured-provider"}}, nil)

		got, err := svc.Requirements(context.Background(), "physical-training", "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.RequiredCount)
		assert.Equal(t, 1, got.EarnedRequired)
		assert.Equal(t, 33, got.ComplianceScore)

		status := map[string]string{}
		for _, b := range got.Badges {
			status[b.Key] = b.Status
			assert.True(t, b.Required)
		}
		assert.Equal(t, "earned", status["safety-certified"])
		assert.Equal(t, "pending", status["insured-provider"])
		assert.Equal(t, "", status["expert-level"])
	})

	t.Run("nothing required", func(t *testing.T) {
		svc := NewBadgeService(nil, nil)
		got, err := svc.Requirements(context.Background(), "technology", "")
		require.NoError(t, err)
		assert.Equal(t, 0, got.RequiredCount)
		assert.Equal(t, 100, got.ComplianceScore)
	})
}

func TestBadgeService_Review(t *testing.T) {
	reqID := uuid.New()

	t.Run("invalid action", func(t *testing.T) {
		svc := NewBadgeService(new(MockBadgeRepository), nil)
		_, err := svc.Review(context.Background(), "admin", reqID, BadgeReviewInput{Action: "maybe"})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
	})

	t.Run("unknown request", func(t *testing.T) {
		badges := new(MockBadgeRepository)
		badges.On("FindRequest", mock.Anything, reqID).Return(nil, gorm.ErrRecordNotFound)
		svc := NewBadgeService(badges, nil)
		_, err := svc.Review(context.Background(), "admin", reqID, BadgeReviewInput{Action: "approve"})
		assert.ErrorIs(t, err, apperrors.ErrBadgeRequestNotFound)
	})

	t.Run("approve awards public badge", func(t *testing.T) {
		badges := new(MockBadgeRepository)
		req := &model.BadgeRequest{ID: reqID, UserID: "u1", BadgeType: "expert-level", Status: model.ReviewPending}
		badges.On("FindRequest", mock.Anything, reqID).Return(req, nil)
		badges.On("Approve", mock.Anything, req, mock.MatchedBy(func(b *model.UserBadge) bool {
			return b.Public && b.UserID == "u1" && b.BadgeType == "expert-level" && b.ApprovedBy == "admin"
		})).Return(nil)
		svc := NewBadgeService(badges, nil)

		got, err := svc.Review(context.Background(), "admin", reqID, BadgeReviewInput{Action: "approve", ReviewNotes: "ok"})
		require.NoError(t, err)
		assert.Equal(t, model.ReviewApproved, got.Status)
		badges.AssertExpectations(t)
	})

	t.Run("reject", func(t *testing.T) {
		badges := new(MockBadgeRepository)
		req := &model.BadgeRequest{ID: reqID, UserID: "u1", BadgeType: "expert-level", Status: model.ReviewPending}
		badges.On("FindRequest", mock.Anything, reqID).Return(req, nil)
		badges.On("UpdateRequest", mock.Anything, req).Return(nil)
		svc := NewBadgeService(badges, nil)

		got, err := svc.Review(context.Background(), "admin", reqID, BadgeReviewInput{Action: "reject"})
		require.NoError(t, err)
		assert.Equal(t, model.ReviewRejected, got.Status)
	})
}
