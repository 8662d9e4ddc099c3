package services

import (
	"context"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

// AuditSvcFacade runs correctness audits over a business's ledger.
type AuditSvcFacade interface {
	// RunAudit scans the ledger for the given window, applies auto-fixes
	// when requested, and persists an immutable audit run record.
	// Concurrent runs over the same business are rejected with
	// ErrAuditInProgress.
	RunAudit(ctx context.Context, businessID string, req dto.RunAuditRequest, userID string) (*domain.AuditRun, error)

	// ListRuns retrieves recent audit runs.
	ListRuns(ctx context.Context, businessID string, limit int) ([]domain.AuditRun, error)

	// ReportExternalBalance records an externally observed settlement
	// balance for the reconciliation check.
	ReportExternalBalance(ctx context.Context, businessID string, req dto.ExternalBalanceRequest, userID string) error
}
