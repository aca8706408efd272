package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tax identification numbers: 5-30 chars, alphanumeric plus hyphens,
// case-insensitive.
var taxIDNumberPattern = regexp.MustCompile(`^[A-Za-z0-9-]{5,30}$`)

const (
	addressMinLen = 10
	addressMaxLen = 255
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
		log:   p.Log.Named("taxprofile.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTaxProfileRequest) (domain.TaxProfile, error) {
	accountID, err := s.parseAccountID(req.AccountID)
	if err != nil {
		return domain.TaxProfile{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.TaxProfile{}, domain.ErrInvalidName
	}

	taxID := strings.TrimSpace(req.TaxIDNumber)
	if !taxIDNumberPattern.MatchString(taxID) {
		return domain.TaxProfile{}, domain.ErrInvalidTaxIDNumber
	}

	address := strings.TrimSpace(req.Address)
	if len(address) < addressMinLen || len(address) > addressMaxLen {
		return domain.TaxProfile{}, domain.ErrInvalidAddress
	}

	exists, err := s.repo.AccountExists(ctx, s.db, accountID)
	if err != nil {
		return domain.TaxProfile{}, err
	}
	if !exists {
		return domain.TaxProfile{}, domain.ErrAccountNotFound
	}

	now := time.Now().UTC()
	profile := domain.TaxProfile{
		ID:          s.genID.Generate(),
		AccountID:   accountID,
		Name:        name,
		TaxIDNumber: taxID,
		Address:     address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &profile); err != nil {
		return domain.TaxProfile{}, err
	}

	return profile, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetTaxProfileRequest) (domain.TaxProfile, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.TaxProfile{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.TaxProfile{}, err
	}
	if item == nil {
		return domain.TaxProfile{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTaxProfileRequest) (domain.TaxProfile, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.TaxProfile{}, err
	}

	fields := map[string]any{}
	if req.AccountID != nil {
		accountID, err := s.parseAccountID(*req.AccountID)
		if err != nil {
			return domain.TaxProfile{}, err
		}
		exists, err := s.repo.AccountExists(ctx, s.db, accountID)
		if err != nil {
			return domain.TaxProfile{}, err
		}
		if !exists {
			return domain.TaxProfile{}, domain.ErrAccountNotFound
		}
		fields["account_id"] = accountID
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.TaxProfile{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.TaxIDNumber != nil {
		taxID := strings.TrimSpace(*req.TaxIDNumber)
		if !taxIDNumberPattern.MatchString(taxID) {
			return domain.TaxProfile{}, domain.ErrInvalidTaxIDNumber
		}
		fields["tax_id_number"] = taxID
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if len(address) < addressMinLen || len(address) > addressMaxLen {
			return domain.TaxProfile{}, domain.ErrInvalidAddress
		}
		fields["address"] = address
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.TaxProfile{}, err
	}
	if existing == nil {
		return domain.TaxProfile{}, domain.ErrNotFound
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		if err := s.repo.Update(ctx, s.db, id, fields); err != nil {
			return domain.TaxProfile{}, err
		}
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.TaxProfile{}, err
	}
	if updated == nil {
		return domain.TaxProfile{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteTaxProfileRequest) error {
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

	s.log.Info("tax profile deleted", zap.String("tax_profile_id", id.String()))
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListTaxProfileRequest) (domain.ListTaxProfileResponse, error) {
	filter := domain.ListTaxProfileFilter{
		Name:        strings.TrimSpace(req.Name),
		TaxIDNumber: strings.TrimSpace(req.TaxIDNumber),
	}
	if raw := strings.TrimSpace(req.AccountID); raw != "" {
		accountID, err := s.parseAccountID(raw)
		if err != nil {
			return domain.ListTaxProfileResponse{}, err
		}
		filter.AccountID = accountID.String()
	}
	page := req.Page.Normalize()

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListTaxProfileResponse{}, err
	}

	total, err := s.repo.Count(ctx, s.db, filter)
	if err != nil {
		return domain.ListTaxProfileResponse{}, err
	}

	profiles := make([]domain.TaxProfile, 0, len(items))
	for _, item := range items {
		profiles = append(profiles, *item)
	}

	return domain.ListTaxProfileResponse{Items: profiles, Total: total}, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func (s *Service) parseAccountID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidAccountID
	}
	return id, nil
}
