package service

import (
	"context"
	"log"
	"time"

	"kvitto/internal/export"
	"kvitto/internal/port"
)

// ResetResult reports how many rows a full data reset removed per table.
type ResetResult struct {
	Comments     int `json:"comments"`
	Receipts     int `json:"receipts"`
	AuditEntries int `json:"audit_entries"`
}

// ExportFile is a rendered audit export ready to stream to the client.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SettingsService backs the admin settings page: audit export downloads and
// the destructive full data reset. User accounts survive a reset.
type SettingsService interface {
	ResetData(ctx context.Context) (*ResetResult, error)
	ExportAuditCSV(ctx context.Context) (*ExportFile, error)
	ExportAuditXLSX(ctx context.Context) (*ExportFile, error)
	AuditCount(ctx context.Context) (int, error)
}

type settingsService struct {
	maintenance port.MaintenanceRepository
	auditRepo   port.AuditLogRepository
	now         func() time.Time
}

// NewSettingsService creates a new SettingsService implementation.
func NewSettingsService(maintenance port.MaintenanceRepository, auditRepo port.AuditLogRepository) SettingsService {
	return &settingsService{maintenance: maintenance, auditRepo: auditRepo, now: time.Now}
}

// ResetData wipes comments, receipts and the audit ledger in one transaction.
// The wipe itself leaves no audit trace since the ledger is part of what is
// being cleared.
func (s *settingsService) ResetData(ctx context.Context) (*ResetResult, error) {
	comments, receipts, auditEntries, err := s.maintenance.ResetData(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("settingsService.ResetData: wiped %d comments, %d receipts, %d audit entries",
		comments, receipts, auditEntries)
	return &ResetResult{Comments: comments, Receipts: receipts, AuditEntries: auditEntries}, nil
}

func (s *settingsService) ExportAuditCSV(ctx context.Context) (*ExportFile, error) {
	entries, err := s.auditRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName:    export.FileName("audit_export", "csv", s.now()),
		ContentType: "text/csv; charset=utf-8",
		Data:        export.AuditCSV(entries),
	}, nil
}

func (s *settingsService) ExportAuditXLSX(ctx context.Context) (*ExportFile, error) {
	entries, err := s.auditRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	data, err := export.AuditXLSX(entries)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		FileName:    export.FileName("audit_export", "xlsx", s.now()),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func (s *settingsService) AuditCount(ctx context.Context) (int, error) {
	return s.auditRepo.Count(ctx)
}
