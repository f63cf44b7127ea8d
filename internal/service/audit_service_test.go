package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kvitto/internal/domain"
	"kvitto/internal/port"
	"kvitto/internal/service"
	"kvitto/mocks"
)

func TestAuditRecord_ServerAssignsIDAndTimestamp(t *testing.T) {
	repo := new(mocks.MockAuditLogRepo)
	svc := service.NewAuditService(repo)

	before := time.Now().UTC()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditLogEntry) bool {
		return e.ID != uuid.Nil &&
			!e.TimestampUTC.Before(before) &&
			e.TimestampUTC.Location() == time.UTC
	})).Return(nil)

	err := svc.Record(context.Background(), service.RecordAuditInput{
		Action:     domain.AuditReceiptCreated,
		EntityType: domain.EntityReceipt,
		EntityID:   uuid.New().String(),
		ActorID:    uuid.New(),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuditRecord_EmptyMetaStoredAsNil(t *testing.T) {
	repo := new(mocks.MockAuditLogRepo)
	svc := service.NewAuditService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditLogEntry) bool {
		return e.IPAddress == nil && e.UserAgent == nil
	})).Return(nil)

	err := svc.Record(context.Background(), service.RecordAuditInput{
		Action:     domain.AuditCommentAdded,
		EntityType: domain.EntityComment,
		EntityID:   "x",
		ActorID:    uuid.New(),
	})
	require.NoError(t, err)
}

func TestAuditRecord_MetaCaptured(t *testing.T) {
	repo := new(mocks.MockAuditLogRepo)
	svc := service.NewAuditService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditLogEntry) bool {
		return e.IPAddress != nil && *e.IPAddress == "10.0.0.7" &&
			e.UserAgent != nil && *e.UserAgent == "curl/8.0"
	})).Return(nil)

	err := svc.Record(context.Background(), service.RecordAuditInput{
		Action:     domain.AuditStatusChanged,
		EntityType: domain.EntityReceipt,
		EntityID:   "y",
		ActorID:    uuid.New(),
		Meta:       service.RequestMeta{IPAddress: "10.0.0.7", UserAgent: "curl/8.0"},
	})
	require.NoError(t, err)
}

func TestAuditList_DefaultsLimit(t *testing.T) {
	repo := new(mocks.MockAuditLogRepo)
	svc := service.NewAuditService(repo)

	repo.On("List", mock.Anything, port.AuditFilter{}, 0, 50).Return([]domain.AuditLogEntry{}, nil)

	_, err := svc.List(context.Background(), port.AuditFilter{}, 0, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuditListForUser_CapsAtHundred(t *testing.T) {
	repo := new(mocks.MockAuditLogRepo)
	svc := service.NewAuditService(repo)
	userID := uuid.New()

	repo.On("ListByActor", mock.Anything, userID, 100).Return([]domain.AuditLogEntry{}, nil)

	entries, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	repo.AssertExpectations(t)
}
