package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher.
// The tax breakdown is serialized to JSON for storage.
func ToModelVoucher(d domain.Voucher) (models.Voucher, error) {
	var taxJSON []byte
	if d.Tax != nil {
		var err error
		taxJSON, err = json.Marshal(d.Tax)
		if err != nil {
			return models.Voucher{}, fmt.Errorf("failed to marshal tax breakdown: %w", err)
		}
	}
	return models.Voucher{
		VoucherID:          d.VoucherID,
		BusinessID:         d.BusinessID,
		VoucherType:        models.VoucherType(d.VoucherType),
		VoucherNumber:      d.VoucherNumber,
		VoucherDate:        d.VoucherDate,
		Narration:          d.Narration,
		Source:             models.EntrySource(d.Source),
		Status:             models.VoucherStatus(d.Status),
		Amount:             d.Amount,
		CounterpartyName:   d.CounterpartyName,
		CounterpartyGSTIN:  d.CounterpartyGSTIN,
		DocumentNo:         d.DocumentNo,
		Tax:                taxJSON,
		OriginalVoucherID:  d.OriginalVoucherID,
		ReversingVoucherID: d.ReversingVoucherID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainVoucher converts a model Voucher to a domain Voucher.
func ToDomainVoucher(m models.Voucher) (domain.Voucher, error) {
	var tax *domain.TaxBreakdown
	if len(m.Tax) > 0 {
		tax = &domain.TaxBreakdown{}
		if err := json.Unmarshal(m.Tax, tax); err != nil {
			return domain.Voucher{}, fmt.Errorf("failed to unmarshal tax breakdown: %w", err)
		}
	}
	return domain.Voucher{
		VoucherID:          m.VoucherID,
		BusinessID:         m.BusinessID,
		VoucherType:        domain.VoucherType(m.VoucherType),
		VoucherNumber:      m.VoucherNumber,
		VoucherDate:        m.VoucherDate,
		Narration:          m.Narration,
		Source:             domain.EntrySource(m.Source),
		Status:             domain.VoucherStatus(m.Status),
		Amount:             m.Amount,
		CounterpartyName:   m.CounterpartyName,
		CounterpartyGSTIN:  m.CounterpartyGSTIN,
		DocumentNo:         m.DocumentNo,
		Tax:                tax,
		OriginalVoucherID:  m.OriginalVoucherID,
		ReversingVoucherID: m.ReversingVoucherID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainVoucherSlice converts a slice of model Vouchers to domain Vouchers.
func ToDomainVoucherSlice(ms []models.Voucher) ([]domain.Voucher, error) {
	ds := make([]domain.Voucher, len(ms))
	for i, m := range ms {
		d, err := ToDomainVoucher(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToModelLedgerLine converts a domain LedgerLine to a model LedgerLine
func ToModelLedgerLine(d domain.LedgerLine) models.LedgerLine {
	return models.LedgerLine{
		LineID:         d.LineID,
		VoucherID:      d.VoucherID,
		AccountID:      d.AccountID,
		Amount:         d.Amount,
		Side:           models.EntrySide(d.Side),
		PostingDate:    d.PostingDate,
		Notes:          d.Notes,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		RunningBalance: d.RunningBalance,
	}
}

// ToDomainLedgerLine converts a model LedgerLine to a domain LedgerLine
func ToDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:         m.LineID,
		VoucherID:      m.VoucherID,
		AccountID:      m.AccountID,
		Amount:         m.Amount,
		Side:           domain.EntrySide(m.Side),
		PostingDate:    m.PostingDate,
		Notes:          m.Notes,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		RunningBalance: m.RunningBalance,
	}
}

// ToDomainLedgerLineSlice converts a slice of model LedgerLines to domain LedgerLines
func ToDomainLedgerLineSlice(ms []models.LedgerLine) []domain.LedgerLine {
	ds := make([]domain.LedgerLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerLine(m)
	}
	return ds
}
