package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/internal/auth/password"
	"github.com/smallbiznis/taxdesk/pkg/db"
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
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAccountRequest) (domain.Account, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Account{}, domain.ErrInvalidEmail
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Account{}, domain.ErrInvalidName
	}

	if len(req.Password) < 8 {
		return domain.Account{}, domain.ErrInvalidPassword
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.Account{}, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &account); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return domain.Account{}, domain.ErrEmailTaken
		}
		return domain.Account{}, err
	}

	return account, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetAccountRequest) (domain.Account, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Account{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Account{}, err
	}
	if item == nil {
		return domain.Account{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateAccountRequest) (domain.Account, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Account{}, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Account{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return domain.Account{}, domain.ErrInvalidPassword
		}
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return domain.Account{}, err
		}
		fields["password_hash"] = hash
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Account{}, err
	}
	if existing == nil {
		return domain.Account{}, domain.ErrNotFound
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		if err := s.repo.Update(ctx, s.db, id, fields); err != nil {
			return domain.Account{}, err
		}
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Account{}, err
	}
	if updated == nil {
		return domain.Account{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteAccountRequest) error {
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

	s.log.Info("account deleted", zap.String("account_id", id.String()))
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListAccountRequest) (domain.ListAccountResponse, error) {
	filter := domain.ListAccountFilter{
		Email: strings.TrimSpace(req.Email),
		Name:  strings.TrimSpace(req.Name),
	}
	page := req.Page.Normalize()

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListAccountResponse{}, err
	}

	// Count is a second read with the same predicate; under concurrent
	// writes the total can drift by a row relative to items.
	total, err := s.repo.Count(ctx, s.db, filter)
	if err != nil {
		return domain.ListAccountResponse{}, err
	}

	accounts := make([]domain.Account, 0, len(items))
	for _, item := range items {
		accounts = append(accounts, *item)
	}

	return domain.ListAccountResponse{Items: accounts, Total: total}, nil
}

func (s *Service) Authenticate(ctx context.Context, req domain.AuthenticateRequest) (domain.Account, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return domain.Account{}, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.Account{}, err
	}
	if account == nil || !password.Verify(req.Password, account.PasswordHash) {
		return domain.Account{}, domain.ErrInvalidCredentials
	}

	return *account, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
