package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taxdesk/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	profileID, err := s.parseTaxProfileID(req.TaxProfileID)
	if err != nil {
		return domain.Invoice{}, err
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return domain.Invoice{}, err
	}

	status := domain.InvoiceStatusDraft
	if raw := strings.TrimSpace(req.Status); raw != "" {
		parsed, ok := domain.ParseStatus(raw)
		if !ok {
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
		status = parsed
	}

	exists, err := s.repo.TaxProfileExists(ctx, s.db, profileID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !exists {
		return domain.Invoice{}, domain.ErrTaxProfileNotFound
	}

	now := time.Now().UTC()
	issuedAt := now
	if req.IssuedAt != nil {
		issuedAt = req.IssuedAt.UTC()
	}

	invoice := domain.Invoice{
		ID:           s.genID.Generate(),
		TaxProfileID: profileID,
		Amount:       amount,
		Status:       status,
		IssuedAt:     issuedAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	return invoice, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	fields := map[string]any{}
	if req.TaxProfileID != nil {
		profileID, err := s.parseTaxProfileID(*req.TaxProfileID)
		if err != nil {
			return domain.Invoice{}, err
		}
		exists, err := s.repo.TaxProfileExists(ctx, s.db, profileID)
		if err != nil {
			return domain.Invoice{}, err
		}
		if !exists {
			return domain.Invoice{}, domain.ErrTaxProfileNotFound
		}
		fields["tax_profile_id"] = profileID
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return domain.Invoice{}, err
		}
		fields["amount"] = amount
	}
	if req.Status != nil {
		status, ok := domain.ParseStatus(strings.TrimSpace(*req.Status))
		if !ok {
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
		fields["status"] = status
	}
	if req.IssuedAt != nil {
		fields["issued_at"] = req.IssuedAt.UTC()
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if existing == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		if err := s.repo.Update(ctx, s.db, id, fields); err != nil {
			return domain.Invoice{}, err
		}
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if updated == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteInvoiceRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.log.Info("invoice deleted", zap.String("invoice_id", id.String()))
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter := domain.ListInvoiceFilter{
		Email: strings.TrimSpace(req.Email),
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.MinAmount); raw != "" {
		amount, err := parseAmount(raw)
		if err != nil {
			return domain.ListInvoiceResponse{}, err
		}
		filter.MinAmount = &amount
	}
	if raw := strings.TrimSpace(req.MaxAmount); raw != "" {
		amount, err := parseAmount(raw)
		if err != nil {
			return domain.ListInvoiceResponse{}, err
		}
		filter.MaxAmount = &amount
	}
	page := req.Page.Normalize()

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	total, err := s.repo.Count(ctx, s.db, filter)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		invoices = append(invoices, *item)
	}

	return domain.ListInvoiceResponse{Items: invoices, Total: total}, nil
}

// parseAmount accepts decimal text with at most two fraction digits, the
// precision of the amount column. Anything finer would be silently rounded
// by the store, so it is rejected instead.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	if amount.Exponent() < -2 {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return amount, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func (s *Service) parseTaxProfileID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidTaxProfileID
	}
	return id, nil
}
