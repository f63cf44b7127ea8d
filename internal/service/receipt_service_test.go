package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kvitto/internal/config"
	"kvitto/internal/domain"
	"kvitto/internal/port"
	"kvitto/internal/service"
	"kvitto/mocks"
)

func testS3Config() *config.S3Config {
	return &config.S3Config{
		Bucket:        "test-bucket",
		MaxFileSizeMB: 20,
		PresignExpiry: 3600,
	}
}

type receiptServiceMocks struct {
	receiptRepo *mocks.MockReceiptRepo
	commentRepo *mocks.MockCommentRepo
	userRepo    *mocks.MockUserRepo
	storage     *mocks.MockObjectStorage
	analyzer    *mocks.MockReceiptAnalyzer
	audit       *mocks.MockAuditService
	email       *mocks.MockEmailSender
}

func newReceiptService() (service.ReceiptService, *receiptServiceMocks) {
	m := &receiptServiceMocks{
		receiptRepo: new(mocks.MockReceiptRepo),
		commentRepo: new(mocks.MockCommentRepo),
		userRepo:    new(mocks.MockUserRepo),
		storage:     new(mocks.MockObjectStorage),
		analyzer:    new(mocks.MockReceiptAnalyzer),
		audit:       new(mocks.MockAuditService),
		email:       new(mocks.MockEmailSender),
	}
	svc := service.NewReceiptService(
		m.receiptRepo, m.commentRepo, m.userRepo,
		m.storage, m.analyzer, m.audit, m.email,
		testS3Config(),
	)
	return svc, m
}

func testAdmin() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Username: "admin",
		Role:     domain.RoleAdmin,
	}
}

func testMember() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    "member@example.com",
		Username: "member",
		Role:     domain.RoleMember,
	}
}

func validCreateInput(ownerID uuid.UUID) service.CreateReceiptInput {
	return service.CreateReceiptInput{
		OwnerID:       ownerID,
		FileBytes:     []byte("%PDF-1.4 fake"),
		FileName:      "lunch.pdf",
		ReceiptDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		DeclaredPrice: 42.50,
	}
}

func TestReceiptCreate_InvalidPrice(t *testing.T) {
	svc, m := newReceiptService()

	for _, price := range []float64{0, -1, 1000000} {
		input := validCreateInput(uuid.New())
		input.DeclaredPrice = price

		_, err := svc.Create(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice, "price %v", price)
	}
	m.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestReceiptCreate_PriceBoundaryAccepted(t *testing.T) {
	svc, m := newReceiptService()
	owner := testMember()

	input := validCreateInput(owner.ID)
	input.DeclaredPrice = domain.MaxDeclaredPrice

	m.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	m.analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(&domain.OCRResult{}, nil)
	m.receiptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.audit.On("Record", mock.Anything, mock.Anything).Return(nil)
	m.userRepo.On("FirstAdmin", mock.Anything).Return(testAdmin(), nil)
	m.userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
	m.email.On("SendNewReceiptNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rec, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxDeclaredPrice, rec.DeclaredPrice)
}

func TestReceiptCreate_EmptyFile(t *testing.T) {
	svc, _ := newReceiptService()

	input := validCreateInput(uuid.New())
	input.FileBytes = nil

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)
}

func TestReceiptCreate_UnsupportedFileType(t *testing.T) {
	svc, _ := newReceiptService()

	input := validCreateInput(uuid.New())
	input.FileName = "script.exe"

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestReceiptCreate_UploadFailureAbortsBeforeDB(t *testing.T) {
	svc, m := newReceiptService()

	m.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := svc.Create(context.Background(), validCreateInput(uuid.New()))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	m.receiptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptCreate_OCRFailureStillCreates(t *testing.T) {
	svc, m := newReceiptService()
	owner := testMember()

	m.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	m.analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("ocr timeout"))
	m.receiptRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Receipt) bool {
		return r.OcrGrossAmount == nil && r.OcrConfidence == nil
	})).Return(nil)
	m.audit.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordAuditInput) bool {
		return in.Action == domain.AuditReceiptCreated
	})).Return(nil)
	m.userRepo.On("FirstAdmin", mock.Anything).Return(testAdmin(), nil)
	m.userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
	m.email.On("SendNewReceiptNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rec, err := svc.Create(context.Background(), validCreateInput(owner.ID))
	require.NoError(t, err)
	assert.Nil(t, rec.OcrGrossAmount)
	assert.Equal(t, domain.StatusOpen, rec.Status)
	assert.Nil(t, rec.StatusChangedAt)
	m.audit.AssertNumberOfCalls(t, "Record", 1)
}

func TestReceiptCreate_OCRFieldsPopulated(t *testing.T) {
	svc, m := newReceiptService()
	owner := testMember()

	gross := 42.50
	conf := 0.97
	merchant := "Kafe Oslo"
	m.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	m.analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(&domain.OCRResult{
		GrossAmount:  &gross,
		Confidence:   &conf,
		MerchantName: &merchant,
	}, nil)
	m.receiptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.audit.On("Record", mock.Anything, mock.Anything).Return(nil)
	m.userRepo.On("FirstAdmin", mock.Anything).Return(testAdmin(), nil)
	m.userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
	m.email.On("SendNewReceiptNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rec, err := svc.Create(context.Background(), validCreateInput(owner.ID))
	require.NoError(t, err)
	require.NotNil(t, rec.OcrGrossAmount)
	assert.Equal(t, 42.50, *rec.OcrGrossAmount)
	assert.Equal(t, "Kafe Oslo", *rec.OcrMerchant)
}

func TestReceiptCreate_AuditFailureDoesNotFailCreation(t *testing.T) {
	svc, m := newReceiptService()
	owner := testMember()

	m.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	m.analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(&domain.OCRResult{}, nil)
	m.receiptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("ledger unavailable"))
	m.userRepo.On("FirstAdmin", mock.Anything).Return(nil, errors.New("no admin"))
	m.userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)

	_, err := svc.Create(context.Background(), validCreateInput(owner.ID))
	assert.NoError(t, err)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, m := newReceiptService()
	id := uuid.New()

	m.receiptRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrReceiptNotFound)

	err := svc.UpdateStatus(context.Background(), id, domain.StatusClosed, uuid.New(), service.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, _ := newReceiptService()

	err := svc.UpdateStatus(context.Background(), uuid.New(), domain.ReceiptStatus("archived"), uuid.New(), service.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateStatus_RecordsOldAndNewStatus(t *testing.T) {
	svc, m := newReceiptService()
	admin := testAdmin()
	owner := testMember()
	rec := &domain.Receipt{ID: uuid.New(), OwnerID: owner.ID, FileName: "r.pdf", Status: domain.StatusOpen}

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.receiptRepo.On("UpdateStatus", mock.Anything, rec.ID, domain.StatusInReview, mock.AnythingOfType("time.Time")).Return(nil)
	m.userRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	m.userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
	m.audit.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordAuditInput) bool {
		return in.Action == domain.AuditStatusChanged &&
			in.DetailsJSON != nil &&
			in.TargetUserID != nil && *in.TargetUserID == owner.ID
	})).Return(nil)
	m.email.On("SendStatusChangeNotification", mock.Anything, owner.Email, owner.Username, "r.pdf", "open", "in_review").Return(nil)

	err := svc.UpdateStatus(context.Background(), rec.ID, domain.StatusInReview, admin.ID, service.RequestMeta{})
	require.NoError(t, err)
	m.audit.AssertExpectations(t)
	m.email.AssertExpectations(t)
}

func TestUpdateStatus_NotifierFailureIsolated(t *testing.T) {
	svc, m := newReceiptService()
	admin := testAdmin()
	owner := testMember()
	rec := &domain.Receipt{ID: uuid.New(), OwnerID: owner.ID, FileName: "r.pdf", Status: domain.StatusOpen}

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.receiptRepo.On("UpdateStatus", mock.Anything, rec.ID, domain.StatusClosed, mock.AnythingOfType("time.Time")).Return(nil)
	m.userRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	m.userRepo.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
	m.audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("ledger down"))
	m.email.On("SendStatusChangeNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err := svc.UpdateStatus(context.Background(), rec.ID, domain.StatusClosed, admin.ID, service.RequestMeta{})
	assert.NoError(t, err)
}

func TestDelete_CascadesCommentsAndRecordsCount(t *testing.T) {
	svc, m := newReceiptService()
	admin := testAdmin()
	rec := &domain.Receipt{
		ID: uuid.New(), OwnerID: uuid.New(), FileName: "old.pdf",
		S3Bucket: "test-bucket", S3Key: "receipts/x/y.pdf", DeclaredPrice: 10,
	}

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.commentRepo.On("DeleteByReceipt", mock.Anything, rec.ID).Return(3, nil)
	m.storage.On("Delete", mock.Anything, "test-bucket", "receipts/x/y.pdf").Return(nil)
	m.receiptRepo.On("Delete", mock.Anything, rec.ID).Return(nil)
	m.userRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	m.audit.On("Record", mock.Anything, mock.MatchedBy(func(in service.RecordAuditInput) bool {
		return in.Action == domain.AuditReceiptDeleted &&
			in.DetailsJSON != nil && *in.DetailsJSON != "" &&
			in.ActorEmail != nil && *in.ActorEmail == admin.Email
	})).Return(nil)

	err := svc.Delete(context.Background(), rec.ID, admin.ID, service.RequestMeta{})
	require.NoError(t, err)
	m.audit.AssertExpectations(t)
}

func TestDelete_MissingBlobIsNotFatal(t *testing.T) {
	svc, m := newReceiptService()
	admin := testAdmin()
	rec := &domain.Receipt{ID: uuid.New(), OwnerID: uuid.New(), S3Bucket: "b", S3Key: "k"}

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.commentRepo.On("DeleteByReceipt", mock.Anything, rec.ID).Return(0, nil)
	m.storage.On("Delete", mock.Anything, "b", "k").Return(errors.New("no such key"))
	m.receiptRepo.On("Delete", mock.Anything, rec.ID).Return(nil)
	m.userRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	m.audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	err := svc.Delete(context.Background(), rec.ID, admin.ID, service.RequestMeta{})
	assert.NoError(t, err)
}

func TestDelete_SecondDeleteNotFound(t *testing.T) {
	svc, m := newReceiptService()
	id := uuid.New()

	m.receiptRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrReceiptNotFound)

	err := svc.Delete(context.Background(), id, uuid.New(), service.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)
}

func TestDownloadURL(t *testing.T) {
	svc, m := newReceiptService()
	rec := &domain.Receipt{ID: uuid.New(), S3Bucket: "b", S3Key: "k"}

	m.receiptRepo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	m.storage.On("GetPresignedURL", mock.Anything, "b", "k", int64(3600)).Return("https://signed.example/k", nil)

	url, err := svc.DownloadURL(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/k", url)
}
