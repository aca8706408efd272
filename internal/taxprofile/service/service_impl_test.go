package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
	"github.com/smallbiznis/taxdesk/internal/taxprofile/repository"
	"github.com/smallbiznis/taxdesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func setupService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&accountdomain.Account{}, &domain.TaxProfile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node := mustNode(t)
	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, conn, node
}

func seedAccount(t *testing.T, conn *gorm.DB, node *snowflake.Node, email string) accountdomain.Account {
	t.Helper()
	now := time.Now().UTC()
	account := accountdomain.Account{
		ID:           node.Generate(),
		Email:        email,
		PasswordHash: "x",
		Name:         "Owner",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := conn.Create(&account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

func TestCreateProfile(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	owner := seedAccount(t, conn, node, "owner@example.com")

	profile, err := svc.Create(ctx, domain.CreateTaxProfileRequest{
		AccountID:   owner.ID.String(),
		Name:        "Freelance",
		TaxIDNumber: "DE-1234567",
		Address:     "1 Long Enough Street, Springfield",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if profile.AccountID != owner.ID {
		t.Fatalf("expected owner %d, got %d", owner.ID, profile.AccountID)
	}
}

func TestCreateProfileValidation(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	owner := seedAccount(t, conn, node, "owner@example.com")
	ownerID := owner.ID.String()

	cases := []struct {
		name string
		req  domain.CreateTaxProfileRequest
		want error
	}{
		{"bad account id", domain.CreateTaxProfileRequest{AccountID: "abc", Name: "N", TaxIDNumber: "12345", Address: "1 Long Enough Street"}, domain.ErrInvalidAccountID},
		{"unknown account", domain.CreateTaxProfileRequest{AccountID: "424242", Name: "N", TaxIDNumber: "12345", Address: "1 Long Enough Street"}, domain.ErrAccountNotFound},
		{"blank name", domain.CreateTaxProfileRequest{AccountID: ownerID, Name: " ", TaxIDNumber: "12345", Address: "1 Long Enough Street"}, domain.ErrInvalidName},
		{"tax id too short", domain.CreateTaxProfileRequest{AccountID: ownerID, Name: "N", TaxIDNumber: "1234", Address: "1 Long Enough Street"}, domain.ErrInvalidTaxIDNumber},
		{"tax id bad chars", domain.CreateTaxProfileRequest{AccountID: ownerID, Name: "N", TaxIDNumber: "12_345", Address: "1 Long Enough Street"}, domain.ErrInvalidTaxIDNumber},
		{"address too short", domain.CreateTaxProfileRequest{AccountID: ownerID, Name: "N", TaxIDNumber: "12345", Address: "short"}, domain.ErrInvalidAddress},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestUpdateProfileReassignsOwner(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	first := seedAccount(t, conn, node, "first@example.com")
	second := seedAccount(t, conn, node, "second@example.com")

	profile, err := svc.Create(ctx, domain.CreateTaxProfileRequest{
		AccountID:   first.ID.String(),
		Name:        "Shop",
		TaxIDNumber: "TAX-98765",
		Address:     "42 Commerce Avenue, Metropolis",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newOwner := second.ID.String()
	updated, err := svc.Update(ctx, domain.UpdateTaxProfileRequest{
		ID:        profile.ID.String(),
		AccountID: &newOwner,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AccountID != second.ID {
		t.Fatalf("expected new owner %d, got %d", second.ID, updated.AccountID)
	}
	if updated.TaxIDNumber != "TAX-98765" {
		t.Fatalf("partial update touched tax id: %q", updated.TaxIDNumber)
	}

	ghost := "99999999"
	if _, err := svc.Update(ctx, domain.UpdateTaxProfileRequest{ID: profile.ID.String(), AccountID: &ghost}); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected account not found, got %v", err)
	}
}

func TestListProfilesByOwnerAndTaxID(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	first := seedAccount(t, conn, node, "first@example.com")
	second := seedAccount(t, conn, node, "second@example.com")

	seed := []domain.CreateTaxProfileRequest{
		{AccountID: first.ID.String(), Name: "Consulting", TaxIDNumber: "AA-11111", Address: "1 First Street, Springfield"},
		{AccountID: first.ID.String(), Name: "Retail", TaxIDNumber: "BB-22222", Address: "2 Second Street, Springfield"},
		{AccountID: second.ID.String(), Name: "Consulting", TaxIDNumber: "AA-33333", Address: "3 Third Street, Springfield"},
	}
	for _, req := range seed {
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}

	byOwner, err := svc.List(ctx, domain.ListTaxProfileRequest{AccountID: first.ID.String()})
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if byOwner.Total != 2 {
		t.Fatalf("expected 2 profiles for first owner, got %d", byOwner.Total)
	}

	byTaxID, err := svc.List(ctx, domain.ListTaxProfileRequest{TaxIDNumber: "aa-"})
	if err != nil {
		t.Fatalf("list by tax id: %v", err)
	}
	if byTaxID.Total != 2 {
		t.Fatalf("expected 2 AA profiles, got %d", byTaxID.Total)
	}

	both, err := svc.List(ctx, domain.ListTaxProfileRequest{AccountID: first.ID.String(), TaxIDNumber: "aa-"})
	if err != nil {
		t.Fatalf("list by both: %v", err)
	}
	if both.Total != 1 {
		t.Fatalf("AND-composed filters expected 1 match, got %d", both.Total)
	}

	if _, err := svc.List(ctx, domain.ListTaxProfileRequest{AccountID: "abc"}); !errors.Is(err, domain.ErrInvalidAccountID) {
		t.Fatalf("expected invalid account id, got %v", err)
	}
}
