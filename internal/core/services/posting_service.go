package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/bahikhata/bahikhata_backend/internal/utils/accounting"
	"github.com/bahikhata/bahikhata_backend/internal/utils/gst"
	"github.com/bahikhata/bahikhata_backend/internal/utils/validation"
	"github.com/shopspring/decimal"
)

var (
	ErrUnbalancedPosting  = errors.New("ledger lines do not balance to zero")
	ErrVoucherMinLines    = errors.New("voucher must have at least two ledger lines")
	ErrVoucherMinAccounts = errors.New("voucher must affect at least two different accounts")
	ErrNarrationMissing   = errors.New("voucher narration is required")
	ErrUnknownVoucherType = errors.New("no posting rule registered for voucher type")
	ErrAlreadyReversed    = errors.New("voucher has already been reversed")
)

// Well-known ledger account shapes. The posting rules create these lazily
// on first reference; user-visible names stay stable afterwards.
var (
	cashAccount      = accountSpec{"Cash", domain.Asset, domain.ClassReal, domain.SubTypeCash}
	bankAccount      = accountSpec{"Bank", domain.Asset, domain.ClassReal, domain.SubTypeBank}
	salesAccount     = accountSpec{"Sales", domain.Revenue, domain.ClassNominal, domain.SubTypeDirectIncome}
	purchasesAccount = accountSpec{"Purchases", domain.Expense, domain.ClassNominal, domain.SubTypeDirectExpense}
	gstOutputAccount = accountSpec{"GST Output", domain.Liability, domain.ClassPersonal, domain.SubTypeTaxPayable}
	gstInputAccount  = accountSpec{"GST Input", domain.Asset, domain.ClassPersonal, domain.SubTypeTaxCredit}
	gstRCMAccount    = accountSpec{"GST Payable (RCM)", domain.Liability, domain.ClassPersonal, domain.SubTypeTaxPayable}
	roundOffAccount  = accountSpec{"Round Off", domain.Expense, domain.ClassNominal, domain.SubTypeOperatingExpense}
)

// accountSpec names an account together with the shape used when it has to
// be created on first reference.
type accountSpec struct {
	name        string
	accountType domain.AccountType
	class       domain.AccountClass
	subType     domain.AccountSubType
}

// legSpec is one side of a posting before accounts are resolved.
type legSpec struct {
	account accountSpec
	amount  decimal.Decimal
	side    domain.EntrySide
	notes   string
}

// postingRule derives the ledger legs for one voucher type. Adding a
// voucher type means adding a rule to the table, not a new code branch.
type postingRule func(req dto.CreateVoucherRequest) ([]legSpec, error)

// postingService converts classified voucher requests and transaction
// intents into balanced ledger postings.
type postingService struct {
	voucherRepo portsrepo.VoucherRepositoryWithTx
	accountSvc  portssvc.AccountSvcFacade
	rateSvc     portssvc.TaxRateResolverSvc
	closingSvc  portssvc.ClosingSvcFacade

	rules map[domain.VoucherType]postingRule

	supplierState string
}

// NewPostingService creates a new PostingSvcFacade.
func NewPostingService(voucherRepo portsrepo.VoucherRepositoryWithTx, accountSvc portssvc.AccountSvcFacade, rateSvc portssvc.TaxRateResolverSvc, closingSvc portssvc.ClosingSvcFacade, supplierState string) portssvc.PostingSvcFacade {
	s := &postingService{
		voucherRepo:   voucherRepo,
		accountSvc:    accountSvc,
		rateSvc:       rateSvc,
		closingSvc:    closingSvc,
		supplierState: supplierState,
	}
	s.rules = map[domain.VoucherType]postingRule{
		domain.VoucherSales:      s.salesRule,
		domain.VoucherPurchase:   s.purchaseRule,
		domain.VoucherPayment:    s.paymentRule,
		domain.VoucherReceipt:    s.receiptRule,
		domain.VoucherJournal:    s.journalRule,
		domain.VoucherContra:     s.contraRule,
		domain.VoucherCreditNote: s.creditNoteRule,
		domain.VoucherDebitNote:  s.debitNoteRule,
	}
	return s
}

// Ensure postingService implements the portssvc.PostingSvcFacade interface
var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// settlementAccount picks the account absorbing the money movement for a
// payment mode. CREDIT settles against the counterparty's personal ledger.
func settlementAccount(mode domain.PaymentMode, counterparty string, receivable bool) (accountSpec, error) {
	switch mode {
	case domain.PayCash, "":
		return cashAccount, nil
	case domain.PayBank:
		return bankAccount, nil
	case domain.PayCredit:
		if counterparty == "" {
			return accountSpec{}, fmt.Errorf("%w: counterparty name is required for credit settlement", apperrors.ErrValidation)
		}
		if receivable {
			return accountSpec{counterparty, domain.Asset, domain.ClassPersonal, domain.SubTypeReceivable}, nil
		}
		return accountSpec{counterparty, domain.Liability, domain.ClassPersonal, domain.SubTypePayable}, nil
	}
	return accountSpec{}, fmt.Errorf("%w: unknown payment mode %q", apperrors.ErrValidation, mode)
}

// taxLegs returns the GST legs of an invoice-shaped voucher: the tax
// component leg and, when the breakdown carries one, the round-off leg.
func taxLegs(tax *domain.TaxBreakdown, taxAccount accountSpec, taxSide domain.EntrySide) []legSpec {
	if tax == nil {
		return nil
	}
	legs := []legSpec{}
	if total := tax.Components.Total(); total.IsPositive() {
		legs = append(legs, legSpec{account: taxAccount, amount: total, side: taxSide})
	}
	if !tax.RoundOff.IsZero() {
		// A positive round-off inflates the gross side, so it books on
		// the side opposite the settlement leg's counterweight.
		side := taxSide
		amount := tax.RoundOff
		if amount.IsNegative() {
			amount = amount.Neg()
			if side == domain.Debit {
				side = domain.Credit
			} else {
				side = domain.Debit
			}
		}
		legs = append(legs, legSpec{account: roundOffAccount, amount: amount, side: side, notes: "round off"})
	}
	return legs
}

// grossOf computes the settlement-side value of an invoice voucher.
func grossOf(req dto.CreateVoucherRequest) decimal.Decimal {
	if req.Tax != nil {
		return req.Tax.GrossTotal()
	}
	return req.TaxableValue
}

func (s *postingService) salesRule(req dto.CreateVoucherRequest) ([]legSpec, error) {
	settle, err := settlementAccount(req.PaymentMode, req.CounterpartyName, true)
	if err != nil {
		return nil, err
	}
	legs := []legSpec{
		{account: settle, amount: grossOf(req), side: domain.Debit},
		{account: salesAccount, amount: req.TaxableValue, side: domain.Credit},
	}
	return append(legs, taxLegs(req.Tax, gstOutputAccount, domain.Credit)...), nil
}

func (s *postingService) purchaseRule(req dto.CreateVoucherRequest) ([]legSpec, error) {
	settle, err := settlementAccount(req.PaymentMode, req.CounterpartyName, false)
	if err != nil {
		return nil, err
	}
	if req.Tax != nil && req.Tax.ReverseCharge {
		// Under reverse charge the supplier is paid the base only; the
		// recipient books both the credit and the liability.
		taxTotal := req.Tax.Components.Total()
		return []legSpec{
			{account: purchasesAccount, amount: req.TaxableValue, side: domain.Debit},
			{account: gstInputAccount, amount: taxTotal, side: domain.Debit, notes: "reverse charge"},
			{account: gstRCMAccount, amount: taxTotal, side: domain.Credit, notes: "reverse charge"},
			{account: settle, amount: req.TaxableValue, side: domain.Credit},
		}, nil
	}
	legs := []legSpec{
		{account: purchasesAccount, amount: req.TaxableValue, side: domain.Debit},
	}
	legs = append(legs, taxLegs(req.Tax, gstInputAccount, domain.Debit)...)
	return append(legs, legSpec{account: settle, amount: grossOf(req), side: domain.Credit}), nil
}

func (s *postingService) paymentRule(req dto.CreateVoucherRequest) ([]legSpec, error) {
	settle, err := settlementAccount(req.PaymentMode, req.CounterpartyName, false)
	if err != nil {
		return nil, err
	}
	if settle.subType != domain.SubTypeCash && settle.subType != domain.SubTypeBank {
		return nil, fmt.Errorf("%w: payment vouchers settle from cash or bank", apperrors.ErrValidation)
	}
	target, err := s.paymentTarget(req)
	if err != nil {
		return nil, err
	}
	return []legSpec{
		{account: target, amount: grossOf(req), side: domain.Debit},
		{account: settle, amount: grossOf(req), side: domain.Credit},
	}, nil
}

// paymentTarget picks the debit side of a payment: the named expense head,
// or the counterparty's payable ledger when paying off a supplier.
func (s *postingService) paymentTarget(req dto.CreateVoucherRequest) (accountSpec, error) {
	if req.AccountName != "" {
		return accountSpec{req.AccountName, domain.Expense, domain.ClassNominal, domain.SubTypeOperatingExpense}, nil
	}
	if req.CounterpartyName != "" {
		return accountSpec{req.CounterpartyName, domain.Liability, domain.ClassPersonal, domain.SubTypePayable}, nil
	}
	return accountSpec{}, fmt.Errorf("%w: payment vouchers need an expense account name or a counterparty", apperrors.ErrValidation)
}

func (s *postingService) receiptRule(req dto.CreateVoucherRequest) ([]legSpec, error) {
	settle, err := settlementAccount(req.PaymentMode, req.CounterpartyName, true)
	if err != nil {
		return nil, err
	}
	if settle.subType != domain.SubTypeCash && settle.subType != domain.SubTypeBank {
		return nil, fmt.Errorf("%w: receipt vouchers settle into cash or bank", apperrors.ErrValidation)
	}
	var source accountSpec
	switch {
	case req.CounterpartyName != "":
		source = accountSpec{req.CounterpartyName, domain.Asset, domain.ClassPersonal, domain.SubTypeReceivable}
	case req.AccountName != "":
		source = accountSpec{req.AccountName, domain.Revenue, domain.ClassNominal, domain.SubTypeOtherIncome}
	default:
		return nil, fmt.Errorf("%w: receipt vouchers need a counterparty or an income account name", apperrors.ErrValidation)
	}
	return []legSpec{
		{account: settle, amount: grossOf(req), side: domain.Debit},
		{account: source, amount: grossOf(req), side: domain.Credit},
	}, nil
}

// journalRule passes caller-supplied lines through. Lines naming an
// unknown account are created lazily with a nominal shape per side.
func (s *postingService) journalRule(req dto.CreateVoucherRequest) ([]legSpec, error) {
	if len(req.Lines) < 2 {
		return nil, ErrVoucherMinLines
	}
	legs := make([]legSpec, 0, len(req.Lines))
	for _, l := range req.Lines {
		spec := accountSpec{name: l.AccountName}
		if l.AccountID == "" {
			if l.AccountName == "" {
				return nil, fmt.Errorf("%w: each line needs an account ID or name", apperrors.ErrValidation)
			}
			if l.Side == domain.Debit {
				spec = accountSpec{l.AccountName, domain.Expense, domain.ClassNominal, domain.SubTypeOperatingExpense}
			} else {
				spec = accountSpec{l.AccountName, domain.Revenue, domain.ClassNominal, domain.SubTypeOtherIncome}
			}
		} else {
			spec = accountSpec{name: l.AccountID}
		}
		legs = append(legs, legSpec{account: spec, amount: l.Amount, side: l.Side, notes: l.Notes})
	}
	return legs, nil
}

// contraRule moves money between settlement accounts, cash <-> bank.
func (s *postingService) contraRule(req dto.CreateVoucherRequest) ([]legSpec, error) {
	if len(req.Lines) != 2 {
		return nil, fmt.Errorf("%w: contra vouchers need exactly two lines", apperrors.ErrValidation)
	}
	legs := make([]legSpec, 0, 2)
	for _, l := range req.Lines {
		var spec accountSpec
		switch strings.ToLower(l.AccountName) {
		case "cash":
			spec = cashAccount
		case "bank":
			spec = bankAccount
		default:
			return nil, fmt.Errorf("%w: contra lines move between Cash and Bank", apperrors.ErrValidation)
		}
		legs = append(legs, legSpec{account: spec, amount: l.Amount, side: l.Side, notes: l.Notes})
	}
	return legs, nil
}

// creditNoteRule unwinds a sale: sales returns debit revenue and output
// tax, and give the value back to the counterparty.
func (s *postingService) creditNoteRule(req dto.CreateVoucherRequest) ([]legSpec, error) {
	settle, err := settlementAccount(req.PaymentMode, req.CounterpartyName, true)
	if err != nil {
		return nil, err
	}
	legs := []legSpec{
		{account: salesAccount, amount: req.TaxableValue, side: domain.Debit},
	}
	legs = append(legs, taxLegs(req.Tax, gstOutputAccount, domain.Debit)...)
	return append(legs, legSpec{account: settle, amount: grossOf(req), side: domain.Credit}), nil
}

// debitNoteRule unwinds a purchase.
func (s *postingService) debitNoteRule(req dto.CreateVoucherRequest) ([]legSpec, error) {
	settle, err := settlementAccount(req.PaymentMode, req.CounterpartyName, false)
	if err != nil {
		return nil, err
	}
	legs := []legSpec{
		{account: settle, amount: grossOf(req), side: domain.Debit},
		{account: purchasesAccount, amount: req.TaxableValue, side: domain.Credit},
	}
	return append(legs, taxLegs(req.Tax, gstInputAccount, domain.Credit)...), nil
}

// CreateVoucher converts a classified voucher request into a balanced line
// set and persists it atomically.
func (s *postingService) CreateVoucher(ctx context.Context, businessID string, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Narration == "" {
		return nil, ErrNarrationMissing
	}
	if req.CounterpartyGSTIN != "" {
		if err := validation.ValidateGSTIN(req.CounterpartyGSTIN); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
	}

	// Postings dated inside a closing or closed period are rejected
	if err := s.closingSvc.EnsurePostable(ctx, businessID, req.Date); err != nil {
		return nil, err
	}

	rule, ok := s.rules[req.VoucherType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVoucherType, req.VoucherType)
	}
	legs, err := rule(req)
	if err != nil {
		return nil, err
	}
	if len(legs) < 2 {
		return nil, ErrVoucherMinLines
	}

	now := time.Now().UTC()
	voucherID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	// Resolve legs into lines, creating referenced accounts on first use
	lines := make([]domain.LedgerLine, 0, len(legs))
	accountTypes := make(map[string]domain.AccountType)
	accountSet := make(map[string]bool)
	for _, leg := range legs {
		if leg.amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: line amount must be positive for account %q", apperrors.ErrValidation, leg.account.name)
		}
		account, err := s.resolveLegAccount(ctx, businessID, leg.account, userID)
		if err != nil {
			return nil, err
		}
		accountTypes[account.AccountID] = account.AccountType
		accountSet[account.AccountID] = true
		lines = append(lines, domain.LedgerLine{
			LineID:      uuid.NewString(),
			VoucherID:   voucherID,
			AccountID:   account.AccountID,
			Amount:      leg.amount,
			Side:        leg.side,
			PostingDate: req.Date,
			Notes:       leg.notes,
			AuditFields: audit,
		})
	}
	if len(accountSet) < 2 {
		return nil, ErrVoucherMinAccounts
	}

	// Double-entry check: debits must equal credits exactly
	voucher := domain.Voucher{
		VoucherID:         voucherID,
		BusinessID:        businessID,
		VoucherType:       req.VoucherType,
		VoucherDate:       req.Date,
		Narration:         req.Narration,
		Source:            req.Source,
		Status:            domain.Posted,
		CounterpartyName:  req.CounterpartyName,
		CounterpartyGSTIN: req.CounterpartyGSTIN,
		DocumentNo:        req.DocumentNo,
		Tax:               req.Tax,
		Lines:             lines,
		AuditFields:       audit,
	}
	if imbalance := voucher.Imbalance(); !imbalance.IsZero() {
		return nil, fmt.Errorf("%w: debits differ from credits by %s", ErrUnbalancedPosting, imbalance)
	}
	voucher.Amount = voucher.TotalDebits()

	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	number, err := s.voucherRepo.SaveVoucher(ctx, voucher, lines, balanceChanges)
	if err != nil {
		logger.Error("Failed to save voucher", slog.String("error", err.Error()), slog.String("business_id", businessID))
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}
	voucher.VoucherNumber = number

	logger.Info("Voucher posted",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("voucher_type", string(voucher.VoucherType)),
		slog.Int64("voucher_number", number),
		slog.String("business_id", businessID),
	)
	return &voucher, nil
}

// resolveLegAccount turns an account spec into a persisted account. A spec
// with a zero shape refers to an existing account by ID.
func (s *postingService) resolveLegAccount(ctx context.Context, businessID string, spec accountSpec, userID string) (*domain.Account, error) {
	if spec.accountType == "" {
		account, err := s.accountSvc.GetAccountByID(ctx, businessID, spec.name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve account %q: %w", spec.name, err)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.AccountID)
		}
		return account, nil
	}
	return s.accountSvc.EnsureAccount(ctx, businessID, spec.name, spec.accountType, spec.class, spec.subType, userID)
}

// PostIntent converts a structured transaction intent into a voucher:
// resolves the applicable rate, computes the tax breakdown and posts the
// result through the voucher rules.
func (s *postingService) PostIntent(ctx context.Context, intent dto.TransactionIntent, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if intent.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: intent amount must be positive", apperrors.ErrValidation)
	}
	if intent.CounterpartyGSTIN != "" {
		if err := validation.ValidateGSTIN(intent.CounterpartyGSTIN); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
	}

	voucherType, err := intentVoucherType(intent.IntentType)
	if err != nil {
		return nil, err
	}

	req := dto.CreateVoucherRequest{
		VoucherType:       voucherType,
		Date:              intent.Date,
		Narration:         intentNarration(intent),
		Source:            domain.EntrySource(intent.Source),
		PaymentMode:       domain.PaymentMode(intent.PaymentMode),
		CounterpartyName:  intent.CounterpartyName,
		CounterpartyGSTIN: intent.CounterpartyGSTIN,
		DocumentNo:        intent.DocumentNo,
		AccountName:       intent.Category,
		TaxableValue:      intent.Amount,
	}

	if intent.GSTApplicable {
		breakdown, err := s.computeTax(ctx, intent)
		if err != nil {
			return nil, err
		}
		req.Tax = breakdown
		req.TaxableValue = breakdown.TaxableValue
	}

	voucher, err := s.CreateVoucher(ctx, intent.BusinessID, req, userID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Intent posted", slog.String("intent_type", intent.IntentType), slog.String("voucher_id", voucher.VoucherID))
	return voucher, nil
}

// computeTax resolves the rate and derives the full tax breakdown for an
// intent, including the explicit round-off remainder.
func (s *postingService) computeTax(ctx context.Context, intent dto.TransactionIntent) (*domain.TaxBreakdown, error) {
	jurisdiction := s.jurisdictionFor(intent)

	decision, err := s.rateSvc.Resolve(ctx, domain.RateQuery{
		Category:      intent.Category,
		HSNCode:       intent.ClassificationCode,
		Jurisdiction:  jurisdiction,
		Regime:        domain.RegimeRegular,
		Override:      intent.GSTRate,
		ReverseCharge: intent.ReverseCharge,
	})
	if err != nil {
		return nil, err
	}

	var ext gst.Extraction
	if intent.AmountIncludesTax {
		ext, err = gst.ExtractFromGross(intent.Amount, decision.Rate)
	} else {
		ext, err = gst.AddToBase(intent.Amount, decision.Rate)
	}
	if err != nil {
		return nil, err
	}

	components := gst.SplitComponents(ext.Tax, decision.SplitTax)
	base := gst.Round(ext.Base)

	// When the caller hands us the money actually exchanged, the rounded
	// parts may miss it by a paisa; the remainder books as an explicit
	// round-off line instead of silently vanishing.
	roundOff := decimal.Zero
	if intent.AmountIncludesTax {
		parts := []decimal.Decimal{base, components.CGST, components.SGST, components.IGST}
		roundOff = gst.RoundOffAmount(parts, gst.Round(intent.Amount))
	}

	return &domain.TaxBreakdown{
		TaxableValue:  base,
		Rate:          decision.Rate,
		Levy:          decision.Levy,
		Components:    components,
		RoundOff:      roundOff,
		HSNCode:       intent.ClassificationCode,
		Quantity:      intent.Quantity,
		Jurisdiction:  jurisdiction,
		ReverseCharge: intent.ReverseCharge,
	}, nil
}

// jurisdictionFor determines the supply jurisdiction. The place of supply
// falls back to the counterparty's GSTIN state, then to the supplier's own
// state (an intra-state sale over the counter).
func (s *postingService) jurisdictionFor(intent dto.TransactionIntent) domain.JurisdictionPair {
	place := intent.PlaceOfSupply
	if place == "" && intent.CounterpartyGSTIN != "" {
		if code, err := validation.GSTINStateCode(intent.CounterpartyGSTIN); err == nil {
			place = code
		}
	}
	if place == "" {
		place = s.supplierState
	}
	return domain.JurisdictionPair{SupplierState: s.supplierState, PlaceOfSupply: place}
}

func intentVoucherType(intentType string) (domain.VoucherType, error) {
	switch intentType {
	case "SALE":
		return domain.VoucherSales, nil
	case "PURCHASE":
		return domain.VoucherPurchase, nil
	case "EXPENSE":
		return domain.VoucherPayment, nil
	case "RECEIPT":
		return domain.VoucherReceipt, nil
	}
	return "", fmt.Errorf("%w: unknown intent type %q", apperrors.ErrValidation, intentType)
}

func intentNarration(intent dto.TransactionIntent) string {
	if intent.Narration != "" {
		return intent.Narration
	}
	label := intent.IntentType
	switch intent.IntentType {
	case "SALE":
		label = "Sale"
	case "PURCHASE":
		label = "Purchase"
	case "EXPENSE":
		label = "Expense"
	case "RECEIPT":
		label = "Receipt"
	}
	if intent.CounterpartyName != "" {
		return label + " - " + intent.CounterpartyName
	}
	return label
}

// GetVoucherByID retrieves a voucher with its lines.
func (s *postingService) GetVoucherByID(ctx context.Context, businessID, voucherID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find voucher by ID", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		}
		return nil, err
	}
	if voucher.BusinessID != businessID {
		// Obscure existence across businesses
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.voucherRepo.FindLinesByVoucherID(ctx, voucherID)
	if err != nil {
		logger.Error("Failed to fetch lines for voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to retrieve lines for voucher %s: %w", voucherID, apperrors.ErrInternal)
	}
	voucher.Lines = lines
	return voucher, nil
}

// ListVouchers retrieves a paginated voucher listing.
func (s *postingService) ListVouchers(ctx context.Context, businessID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	vouchers, nextToken, err := s.voucherRepo.ListVouchersByBusiness(ctx, businessID, params.Limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list vouchers from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve vouchers: %w", err)
	}

	// When lines are requested, fetch them in one batch for all vouchers
	var linesMap map[string][]domain.LedgerLine
	if params.IncludeLines && len(vouchers) > 0 {
		voucherIDs := make([]string, len(vouchers))
		for i, v := range vouchers {
			voucherIDs[i] = v.VoucherID
		}
		linesMap, err = s.voucherRepo.FindLinesByVoucherIDs(ctx, voucherIDs)
		if err != nil {
			logger.Warn("Failed to fetch lines for vouchers", slog.String("error", err.Error()))
			// Continue without lines rather than failing the whole request
		}
	}

	responses := make([]dto.VoucherResponse, len(vouchers))
	for i := range vouchers {
		if linesMap != nil {
			vouchers[i].Lines = linesMap[vouchers[i].VoucherID]
		}
		responses[i] = dto.ToVoucherResponse(&vouchers[i])
	}

	return &dto.ListVouchersResponse{Vouchers: responses, NextToken: nextToken}, nil
}

// ListLinesByAccount retrieves a paginated account statement.
func (s *postingService) ListLinesByAccount(ctx context.Context, businessID, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	lines, nextToken, err := s.voucherRepo.ListLinesByAccount(ctx, businessID, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list lines by account from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve account statement: %w", err)
	}

	return &dto.ListLinesResponse{Lines: dto.ToLineResponses(lines), NextToken: nextToken}, nil
}

// ReverseVoucher posts a reversing voucher for a posted voucher and links
// the two. Reversals are themselves dated on the original voucher date.
func (s *postingService) ReverseVoucher(ctx context.Context, businessID, voucherID, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to fetch original voucher for reversal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve original voucher: %w", err)
	}
	if original.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: voucher status is %s, expected POSTED", apperrors.ErrConflict, original.Status)
	}
	if original.OriginalVoucherID != nil {
		return nil, fmt.Errorf("%w: cannot reverse a voucher that is itself a reversal", apperrors.ErrConflict)
	}
	if original.ReversingVoucherID != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyReversed, voucherID)
	}

	// The reversing posting is still a posting; a locked period blocks it
	if err := s.closingSvc.EnsurePostable(ctx, businessID, original.VoucherDate); err != nil {
		return nil, err
	}

	originalLines, err := s.voucherRepo.FindLinesByVoucherID(ctx, voucherID)
	if err != nil {
		logger.Error("Failed to fetch original lines for reversal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve original lines: %w", err)
	}

	now := time.Now().UTC()
	newVoucherID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	reversingLines := make([]domain.LedgerLine, len(originalLines))
	accountIDs := make([]string, 0, len(originalLines))
	for i, orig := range originalLines {
		accountIDs = append(accountIDs, orig.AccountID)
		newSide := domain.Credit
		if orig.Side == domain.Credit {
			newSide = domain.Debit
		}
		reversingLines[i] = domain.LedgerLine{
			LineID:      uuid.NewString(),
			VoucherID:   newVoucherID,
			AccountID:   orig.AccountID,
			Amount:      orig.Amount,
			Side:        newSide,
			PostingDate: orig.PostingDate,
			Notes:       orig.Notes,
			AuditFields: audit,
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, businessID, uniqueStrings(accountIDs))
	if err != nil {
		logger.Error("Failed to fetch accounts for reversal balance calculation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get account details for reversal: %w", err)
	}
	accountTypes := make(map[string]domain.AccountType, len(accountsMap))
	for id, acc := range accountsMap {
		accountTypes[id] = acc.AccountType
	}

	balanceChanges, err := accounting.BalanceChanges(reversingLines, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate signed amounts for reversal: %w", err)
	}

	reversingVoucher := domain.Voucher{
		VoucherID:         newVoucherID,
		BusinessID:        businessID,
		VoucherType:       original.VoucherType,
		VoucherDate:       original.VoucherDate,
		Narration:         fmt.Sprintf("Reversal of voucher #%d: %s", original.VoucherNumber, original.Narration),
		Source:            domain.SourceManual,
		Status:            domain.Posted,
		Amount:            original.Amount,
		CounterpartyName:  original.CounterpartyName,
		CounterpartyGSTIN: original.CounterpartyGSTIN,
		DocumentNo:        original.DocumentNo,
		Tax:               original.Tax,
		OriginalVoucherID: &original.VoucherID,
		AuditFields:       audit,
	}

	number, err := s.voucherRepo.SaveVoucher(ctx, reversingVoucher, reversingLines, balanceChanges)
	if err != nil {
		logger.Error("Failed to save reversing voucher", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversing voucher: %w", err)
	}
	reversingVoucher.VoucherNumber = number

	if err := s.voucherRepo.UpdateVoucherStatusAndLinks(ctx, original.VoucherID, domain.Reversed, &newVoucherID, original.OriginalVoucherID, userID, now); err != nil {
		logger.Error("Failed to update original voucher status after reversal",
			slog.String("original_voucher_id", original.VoucherID),
			slog.String("reversing_voucher_id", newVoucherID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update original voucher status: %w", err)
	}

	logger.Info("Voucher reversed", slog.String("original_voucher_id", voucherID), slog.String("reversing_voucher_id", newVoucherID))
	return &reversingVoucher, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
