package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/models"
)

// ToModelAuditRun converts a domain AuditRun to a model row.
// Issues are mapped separately since they live in their own table.
func ToModelAuditRun(d domain.AuditRun) models.AuditRun {
	return models.AuditRun{
		RunID:       d.RunID,
		BusinessID:  d.BusinessID,
		WindowStart: d.WindowStart,
		WindowEnd:   d.WindowEnd,
		StartedAt:   d.StartedAt,
		FinishedAt:  d.FinishedAt,
		TotalIssues: d.TotalIssues,
		AutoFixed:   d.AutoFixed,
		Remaining:   d.Remaining,
		Status:      models.AuditStatus(d.Status),
		TriggeredBy: d.TriggeredBy,
	}
}

// ToDomainAuditRun converts a model AuditRun row to the domain type.
// Issues must be attached by the caller.
func ToDomainAuditRun(m models.AuditRun) domain.AuditRun {
	return domain.AuditRun{
		RunID:       m.RunID,
		BusinessID:  m.BusinessID,
		WindowStart: m.WindowStart,
		WindowEnd:   m.WindowEnd,
		StartedAt:   m.StartedAt,
		FinishedAt:  m.FinishedAt,
		TotalIssues: m.TotalIssues,
		AutoFixed:   m.AutoFixed,
		Remaining:   m.Remaining,
		Status:      domain.AuditStatus(m.Status),
		TriggeredBy: m.TriggeredBy,
	}
}

// ToModelAuditIssue converts a domain Issue to a model row.
func ToModelAuditIssue(d domain.Issue) (models.AuditIssue, error) {
	var voucherIDsJSON []byte
	if len(d.VoucherIDs) > 0 {
		var err error
		voucherIDsJSON, err = json.Marshal(d.VoucherIDs)
		if err != nil {
			return models.AuditIssue{}, fmt.Errorf("failed to marshal voucher IDs: %w", err)
		}
	}
	return models.AuditIssue{
		IssueID:     d.IssueID,
		RunID:       d.RunID,
		Kind:        models.IssueKind(d.Kind),
		Severity:    models.IssueSeverity(d.Severity),
		VoucherIDs:  voucherIDsJSON,
		AccountID:   d.AccountID,
		Detail:      d.Detail,
		Expected:    d.Expected,
		Actual:      d.Actual,
		AutoFixable: d.AutoFixable,
		FixApplied:  d.FixApplied,
		FixDetail:   d.FixDetail,
	}, nil
}

// ToDomainAuditIssue converts a model AuditIssue row to the domain type.
func ToDomainAuditIssue(m models.AuditIssue) (domain.Issue, error) {
	var voucherIDs []string
	if len(m.VoucherIDs) > 0 {
		if err := json.Unmarshal(m.VoucherIDs, &voucherIDs); err != nil {
			return domain.Issue{}, fmt.Errorf("failed to unmarshal voucher IDs: %w", err)
		}
	}
	return domain.Issue{
		IssueID:     m.IssueID,
		RunID:       m.RunID,
		Kind:        domain.IssueKind(m.Kind),
		Severity:    domain.IssueSeverity(m.Severity),
		VoucherIDs:  voucherIDs,
		AccountID:   m.AccountID,
		Detail:      m.Detail,
		Expected:    m.Expected,
		Actual:      m.Actual,
		AutoFixable: m.AutoFixable,
		FixApplied:  m.FixApplied,
		FixDetail:   m.FixDetail,
	}, nil
}

// ToDomainAuditIssueSlice converts model issue rows to domain issues.
func ToDomainAuditIssueSlice(ms []models.AuditIssue) ([]domain.Issue, error) {
	ds := make([]domain.Issue, len(ms))
	for i, m := range ms {
		d, err := ToDomainAuditIssue(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToModelExternalBalance converts a domain ExternalBalance to a model row.
func ToModelExternalBalance(d domain.ExternalBalance) models.ExternalBalance {
	return models.ExternalBalance{
		BusinessID: d.BusinessID,
		AccountID:  d.AccountID,
		AsOf:       d.AsOf,
		Balance:    d.Balance,
		ReportedBy: d.ReportedBy,
		ReportedAt: d.ReportedAt,
	}
}

// ToDomainExternalBalance converts a model ExternalBalance row to the domain type.
func ToDomainExternalBalance(m models.ExternalBalance) domain.ExternalBalance {
	return domain.ExternalBalance{
		BusinessID: m.BusinessID,
		AccountID:  m.AccountID,
		AsOf:       m.AsOf,
		Balance:    m.Balance,
		ReportedBy: m.ReportedBy,
		ReportedAt: m.ReportedAt,
	}
}

// ToDomainExternalBalanceSlice converts model balance rows to domain balances.
func ToDomainExternalBalanceSlice(ms []models.ExternalBalance) []domain.ExternalBalance {
	ds := make([]domain.ExternalBalance, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExternalBalance(m)
	}
	return ds
}
