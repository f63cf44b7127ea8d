package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kvitto/internal/domain"
	"kvitto/internal/service"
	"kvitto/mocks"
)

type commentServiceMocks struct {
	commentRepo *mocks.MockCommentRepo
	receiptRepo *mocks.MockReceiptRepo
	userRepo    *mocks.MockUserRepo
	audit       *mocks.MockAuditService
	email       *mocks.MockEmailSender
}

func newCommentService() (service.CommentService, *commentServiceMocks) {
	m := &commentServiceMocks{
		commentRepo: new(mocks.MockCommentRepo),
		receiptRepo: new(mocks.MockReceiptRepo),
		userRepo:    new(mocks.MockUserRepo),
		audit:       new(mocks.MockAuditService),
		email:       new(mocks.MockEmailSender),
	}
	svc := service.NewCommentService(m.commentRepo, m.receiptRepo, m.userRepo, m.audit, m.email)
	return svc, m
}

func TestCommentAdd_EmptyText(t *testing.T) {
	svc, _ := newCommentService()

	_, err := svc.Add(context.Background(), service.AddCommentInput{
		ReceiptID:   uuid.New(),
		AuthorID:    uuid.New(),
		CommentText: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyComment)
}

func TestCommentAdd_TooLong(t *testing.T) {
	svc, _ := newCommentService()

	_, err := svc.Add(context.Background(), service.AddCommentInput{
		ReceiptID:   uuid.New(),
		AuthorID:    uuid.New(),
		CommentText: strings.Repeat("a", domain.MaxCommentLength+1),
	})
	assert.ErrorIs(t, err, domain.ErrCommentTooLong)
}

func TestCommentAdd_ReceiptNotFound(t *testing.T) {
	svc, m := newCommentService()
	receiptID := uuid.New()

	m.receiptRepo.On("GetByID", mock.Anything, receiptID).Return(nil, domain.ErrReceiptNotFound)

	_, err := svc.Add(context.Background(), service.AddCommentInput{
		ReceiptID:   receiptID,
		AuthorID:    uuid.New(),
		CommentText: "hello",
	})
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
}

func TestCommentAdd_ParentOnOtherReceiptRejected(t *testing.T) {
	svc, m := newCommentService()
	author := testMember()
	rec := &domain.Receipt{ID: uuid.New(), OwnerID: author.ID}
	parentID := uuid.New()

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.userRepo.On("GetByID", mock.Anything, author.ID).Return(author, nil)
	m.commentRepo.On("GetByID", mock.Anything, parentID).Return(&domain.ReceiptComment{
		ID:        parentID,
		ReceiptID: uuid.New(), // different receipt
	}, nil)

	_, err := svc.Add(context.Background(), service.AddCommentInput{
		ReceiptID:       rec.ID,
		AuthorID:        author.ID,
		CommentText:     "reply",
		ParentCommentID: &parentID,
	})
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	m.commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentAdd_ReplyToDeletedParentAllowed(t *testing.T) {
	svc, m := newCommentService()
	author := testMember()
	admin := testAdmin()
	rec := &domain.Receipt{ID: uuid.New(), OwnerID: author.ID, FileName: "r.pdf"}
	parentID := uuid.New()

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.userRepo.On("GetByID", mock.Anything, author.ID).Return(author, nil)
	m.commentRepo.On("GetByID", mock.Anything, parentID).Return(&domain.ReceiptComment{
		ID:        parentID,
		ReceiptID: rec.ID,
		IsDeleted: true,
	}, nil)
	m.commentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.audit.On("Record", mock.Anything, mock.Anything).Return(nil)
	m.userRepo.On("FirstAdmin", mock.Anything).Return(admin, nil)
	m.email.On("SendCommentNotification", mock.Anything, admin.Email, admin.Username, "r.pdf", author.Username, "reply", false).Return(nil)

	c, err := svc.Add(context.Background(), service.AddCommentInput{
		ReceiptID:       rec.ID,
		AuthorID:        author.ID,
		CommentText:     "reply",
		ParentCommentID: &parentID,
	})
	require.NoError(t, err)
	assert.Equal(t, &parentID, c.ParentCommentID)
}

func TestCommentAdd_AdminRoleSnapshotAndOwnerNotified(t *testing.T) {
	svc, m := newCommentService()
	admin := testAdmin()
	owner := testMember()
	rec := &domain.Receipt{ID: uuid.New(), OwnerID: owner.ID, FileName: "r.pdf"}

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.userRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	m.userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
	m.commentRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.ReceiptComment) bool {
		return c.IsAdminComment && c.AuthorID == admin.ID
	})).Return(nil)
	m.audit.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordAuditInput) bool {
		return in.Action == domain.AuditCommentAdded && in.TargetUserID != nil && *in.TargetUserID == owner.ID
	})).Return(nil)
	m.email.On("SendCommentNotification", mock.Anything, owner.Email, owner.Username, "r.pdf", admin.Username, "please fix", true).Return(nil)

	c, err := svc.Add(context.Background(), service.AddCommentInput{
		ReceiptID:   rec.ID,
		AuthorID:    admin.ID,
		CommentText: "please fix",
	})
	require.NoError(t, err)
	assert.True(t, c.IsAdminComment)
	m.email.AssertExpectations(t)
}

func TestCommentAdd_MemberNotifiesFirstAdmin(t *testing.T) {
	svc, m := newCommentService()
	member := testMember()
	admin := testAdmin()
	rec := &domain.Receipt{ID: uuid.New(), OwnerID: member.ID, FileName: "r.pdf"}

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.userRepo.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	m.userRepo.On("FirstAdmin", mock.Anything).Return(admin, nil)
	m.commentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.audit.On("Record", mock.Anything, mock.Anything).Return(nil)
	m.email.On("SendCommentNotification", mock.Anything, admin.Email, admin.Username, "r.pdf", member.Username, "done", false).Return(nil)

	_, err := svc.Add(context.Background(), service.AddCommentInput{
		ReceiptID:   rec.ID,
		AuthorID:    member.ID,
		CommentText: "done",
	})
	require.NoError(t, err)
	m.email.AssertExpectations(t)
}

func TestCommentAdd_NotificationFailureIsolated(t *testing.T) {
	svc, m := newCommentService()
	member := testMember()
	rec := &domain.Receipt{ID: uuid.New(), OwnerID: member.ID}

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.userRepo.On("GetByID", mock.Anything, member.ID).Return(member, nil)
	m.userRepo.On("FirstAdmin", mock.Anything).Return(nil, errors.New("no admin"))
	m.commentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Add(context.Background(), service.AddCommentInput{
		ReceiptID:   rec.ID,
		AuthorID:    member.ID,
		CommentText: "hello",
	})
	assert.NoError(t, err)
}

func TestListForReceipt_BuildsThread(t *testing.T) {
	svc, m := newCommentService()
	receiptID := uuid.New()
	rootA := domain.ReceiptComment{ID: uuid.New(), ReceiptID: receiptID, CreatedAt: time.Now().Add(-2 * time.Hour)}
	rootB := domain.ReceiptComment{ID: uuid.New(), ReceiptID: receiptID, CreatedAt: time.Now().Add(-time.Hour)}
	replyA1 := domain.ReceiptComment{ID: uuid.New(), ReceiptID: receiptID, ParentCommentID: &rootA.ID}
	replyA1a := domain.ReceiptComment{ID: uuid.New(), ReceiptID: receiptID, ParentCommentID: &replyA1.ID}

	m.commentRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]domain.ReceiptComment{rootA, rootB, replyA1, replyA1a}, nil)

	nodes, err := svc.ListForReceipt(context.Background(), receiptID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, rootA.ID, nodes[0].ID)
	require.Len(t, nodes[0].Replies, 1)
	require.Len(t, nodes[0].Replies[0].Replies, 1)
	assert.Equal(t, replyA1a.ID, nodes[0].Replies[0].Replies[0].ID)
	assert.Empty(t, nodes[1].Replies)
}

func TestListForReceipt_OrphanReplyPromotedToTopLevel(t *testing.T) {
	svc, m := newCommentService()
	receiptID := uuid.New()
	deletedParentID := uuid.New()
	orphan := domain.ReceiptComment{ID: uuid.New(), ReceiptID: receiptID, ParentCommentID: &deletedParentID}

	m.commentRepo.On("ListByReceipt", mock.Anything, receiptID).
		Return([]domain.ReceiptComment{orphan}, nil)

	nodes, err := svc.ListForReceipt(context.Background(), receiptID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, orphan.ID, nodes[0].ID)
}

func TestSoftDelete_MissingCommentReturnsFalse(t *testing.T) {
	svc, m := newCommentService()
	id := uuid.New()

	m.commentRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrCommentNotFound)

	ok, err := svc.SoftDelete(context.Background(), id, uuid.New(), service.RequestMeta{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSoftDelete_AlreadyDeletedReturnsFalse(t *testing.T) {
	svc, m := newCommentService()
	id := uuid.New()

	m.commentRepo.On("GetByID", mock.Anything, id).Return(&domain.ReceiptComment{ID: id, IsDeleted: true}, nil)

	ok, err := svc.SoftDelete(context.Background(), id, uuid.New(), service.RequestMeta{})
	require.NoError(t, err)
	assert.False(t, ok)
	m.commentRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSoftDelete_MarksAndAudits(t *testing.T) {
	svc, m := newCommentService()
	deleter := uuid.New()
	c := &domain.ReceiptComment{ID: uuid.New(), ReceiptID: uuid.New(), AuthorID: uuid.New()}

	m.commentRepo.On("GetByID", mock.Anything, c.ID).Return(c, nil)
	m.commentRepo.On("SoftDelete", mock.Anything, c.ID, deleter, mock.AnythingOfType("time.Time")).Return(nil)
	m.audit.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordAuditInput) bool {
		return in.Action == domain.AuditCommentDeleted && in.ActorID == deleter
	})).Return(nil)

	ok, err := svc.SoftDelete(context.Background(), c.ID, deleter, service.RequestMeta{})
	require.NoError(t, err)
	assert.True(t, ok)
	m.audit.AssertExpectations(t)
}

func TestCountRecentForOwner_SevenDayWindow(t *testing.T) {
	svc, m := newCommentService()
	ownerID := uuid.New()

	m.commentRepo.On("CountRecentForOwner", mock.Anything, ownerID, mock.MatchedBy(func(since time.Time) bool {
		expected := time.Now().UTC().Add(-7 * 24 * time.Hour)
		return since.Sub(expected).Abs() < time.Minute
	})).Return(4, nil)

	n, err := svc.CountRecentForOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
