package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/models"
)

// ToModelAccountingPeriod converts a domain AccountingPeriod to a model row.
// Statement IDs are serialized to JSON for storage.
func ToModelAccountingPeriod(d domain.AccountingPeriod) (models.AccountingPeriod, error) {
	var idsJSON []byte
	if len(d.StatementIDs) > 0 {
		var err error
		idsJSON, err = json.Marshal(d.StatementIDs)
		if err != nil {
			return models.AccountingPeriod{}, fmt.Errorf("failed to marshal statement IDs: %w", err)
		}
	}
	return models.AccountingPeriod{
		PeriodID:     d.PeriodID,
		BusinessID:   d.BusinessID,
		PeriodType:   models.PeriodType(d.PeriodType),
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Status:       models.PeriodStatus(d.Status),
		ClosedAt:     d.ClosedAt,
		ClosedBy:     d.ClosedBy,
		StatementIDs: idsJSON,
		ReopenCount:  d.ReopenCount,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainAccountingPeriod converts a model AccountingPeriod row to the domain type.
func ToDomainAccountingPeriod(m models.AccountingPeriod) (domain.AccountingPeriod, error) {
	var ids []string
	if len(m.StatementIDs) > 0 {
		if err := json.Unmarshal(m.StatementIDs, &ids); err != nil {
			return domain.AccountingPeriod{}, fmt.Errorf("failed to unmarshal statement IDs: %w", err)
		}
	}
	return domain.AccountingPeriod{
		PeriodID:     m.PeriodID,
		BusinessID:   m.BusinessID,
		PeriodType:   domain.PeriodType(m.PeriodType),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Status:       domain.PeriodStatus(m.Status),
		ClosedAt:     m.ClosedAt,
		ClosedBy:     m.ClosedBy,
		StatementIDs: ids,
		ReopenCount:  m.ReopenCount,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainAccountingPeriodSlice converts model period rows to domain periods.
func ToDomainAccountingPeriodSlice(ms []models.AccountingPeriod) ([]domain.AccountingPeriod, error) {
	ds := make([]domain.AccountingPeriod, len(ms))
	for i, m := range ms {
		d, err := ToDomainAccountingPeriod(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToModelStatement converts a domain Statement to a model Statement
func ToModelStatement(d domain.Statement) models.Statement {
	return models.Statement{
		StatementID:   d.StatementID,
		BusinessID:    d.BusinessID,
		PeriodID:      d.PeriodID,
		StatementType: models.StatementType(d.StatementType),
		Status:        models.StatementStatus(d.Status),
		GeneratedAt:   d.GeneratedAt,
		GeneratedBy:   d.GeneratedBy,
		Body:          d.Body,
	}
}

// ToDomainStatement converts a model Statement to a domain Statement
func ToDomainStatement(m models.Statement) domain.Statement {
	return domain.Statement{
		StatementID:   m.StatementID,
		BusinessID:    m.BusinessID,
		PeriodID:      m.PeriodID,
		StatementType: domain.StatementType(m.StatementType),
		Status:        domain.StatementStatus(m.Status),
		GeneratedAt:   m.GeneratedAt,
		GeneratedBy:   m.GeneratedBy,
		Body:          m.Body,
	}
}

// ToDomainStatementSlice converts a slice of model Statements to domain Statements
func ToDomainStatementSlice(ms []models.Statement) []domain.Statement {
	ds := make([]domain.Statement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatement(m)
	}
	return ds
}
