package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/internal/invoice/domain"
	"github.com/smallbiznis/taxdesk/internal/invoice/repository"
	taxprofiledomain "github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
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
	err = conn.AutoMigrate(
		&accountdomain.Account{},
		&taxprofiledomain.TaxProfile{},
		&domain.Invoice{},
	)
	if err != nil {
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

func seedOwner(t *testing.T, conn *gorm.DB, node *snowflake.Node, email string) taxprofiledomain.TaxProfile {
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
	profile := taxprofiledomain.TaxProfile{
		ID:          node.Generate(),
		AccountID:   account.ID,
		Name:        "Profile",
		TaxIDNumber: "TAX-12345",
		Address:     "1 Long Enough Street, Springfield",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := conn.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

func TestCreateInvoiceAmountRoundTrip(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	profile := seedOwner(t, conn, node, "owner@example.com")

	for _, raw := range []string{"100.55", "100.50", "0.01", "250"} {
		created, err := svc.Create(ctx, domain.CreateInvoiceRequest{
			TaxProfileID: profile.ID.String(),
			Amount:       raw,
		})
		if err != nil {
			t.Fatalf("create %q: %v", raw, err)
		}

		got, err := svc.GetByID(ctx, domain.GetInvoiceRequest{ID: created.ID.String()})
		if err != nil {
			t.Fatalf("get %q: %v", raw, err)
		}
		if !got.Amount.Equal(created.Amount) {
			t.Fatalf("amount %q did not round-trip: stored %s", raw, got.Amount)
		}
	}
}

func TestCreateInvoiceDefaults(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	profile := seedOwner(t, conn, node, "owner@example.com")

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		TaxProfileID: profile.ID.String(),
		Amount:       "19.99",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.InvoiceStatusDraft {
		t.Fatalf("expected draft default, got %q", created.Status)
	}
	if created.IssuedAt.IsZero() {
		t.Fatal("expected issued_at to default to now")
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	profile := seedOwner(t, conn, node, "owner@example.com")
	profileID := profile.ID.String()

	cases := []struct {
		name string
		req  domain.CreateInvoiceRequest
		want error
	}{
		{"bad profile id", domain.CreateInvoiceRequest{TaxProfileID: "abc", Amount: "10"}, domain.ErrInvalidTaxProfileID},
		{"unknown profile", domain.CreateInvoiceRequest{TaxProfileID: "424242", Amount: "10"}, domain.ErrTaxProfileNotFound},
		{"not a number", domain.CreateInvoiceRequest{TaxProfileID: profileID, Amount: "ten"}, domain.ErrInvalidAmount},
		{"too many decimals", domain.CreateInvoiceRequest{TaxProfileID: profileID, Amount: "10.999"}, domain.ErrInvalidAmount},
		{"bad status", domain.CreateInvoiceRequest{TaxProfileID: profileID, Amount: "10", Status: "archived"}, domain.ErrInvalidStatus},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestListInvoiceFilters(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	alpha := seedOwner(t, conn, node, "alpha@example.com")
	beta := seedOwner(t, conn, node, "beta@example.com")

	seed := []domain.CreateInvoiceRequest{
		{TaxProfileID: alpha.ID.String(), Amount: "50.00", Status: "draft"},
		{TaxProfileID: alpha.ID.String(), Amount: "150.00", Status: "sent"},
		{TaxProfileID: beta.ID.String(), Amount: "150.00", Status: "paid"},
		{TaxProfileID: beta.ID.String(), Amount: "300.00", Status: "sent"},
	}
	for _, req := range seed {
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}

	byStatus, err := svc.List(ctx, domain.ListInvoiceRequest{Status: "sent"})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if byStatus.Total != 2 {
		t.Fatalf("expected 2 sent invoices, got %d", byStatus.Total)
	}

	// Owner email matched through tax_profiles -> accounts.
	byEmail, err := svc.List(ctx, domain.ListInvoiceRequest{Email: "ALPHA"})
	if err != nil {
		t.Fatalf("list by email: %v", err)
	}
	if byEmail.Total != 2 {
		t.Fatalf("expected 2 alpha invoices, got %d", byEmail.Total)
	}

	byRange, err := svc.List(ctx, domain.ListInvoiceRequest{MinAmount: "100", MaxAmount: "200"})
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if byRange.Total != 2 {
		t.Fatalf("expected 2 invoices in [100,200], got %d", byRange.Total)
	}

	combined, err := svc.List(ctx, domain.ListInvoiceRequest{Email: "beta", Status: "sent", MinAmount: "100"})
	if err != nil {
		t.Fatalf("list combined: %v", err)
	}
	if combined.Total != 1 {
		t.Fatalf("AND-composed filters expected 1 match, got %d", combined.Total)
	}

	if _, err := svc.List(ctx, domain.ListInvoiceRequest{Status: "archived"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := svc.List(ctx, domain.ListInvoiceRequest{MinAmount: "ten"}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestListInvoicesNewestFirst(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	profile := seedOwner(t, conn, node, "owner@example.com")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		issued := base.AddDate(0, 0, i)
		if _, err := svc.Create(ctx, domain.CreateInvoiceRequest{
			TaxProfileID: profile.ID.String(),
			Amount:       "10.00",
			IssuedAt:     &issued,
		}); err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}

	resp, err := svc.List(ctx, domain.ListInvoiceRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 invoices, got %d", len(resp.Items))
	}
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i].IssuedAt.After(resp.Items[i-1].IssuedAt) {
			t.Fatalf("invoices not ordered newest first at index %d", i)
		}
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	svc, conn, node := setupService(t)
	ctx := context.Background()
	profile := seedOwner(t, conn, node, "owner@example.com")

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		TaxProfileID: profile.ID.String(),
		Amount:       "75.25",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := conn.Where("id = ?", profile.AccountID).Delete(&accountdomain.Account{}).Error; err != nil {
		t.Fatalf("delete account: %v", err)
	}

	var profiles int64
	if err := conn.Model(&taxprofiledomain.TaxProfile{}).Count(&profiles).Error; err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if profiles != 0 {
		t.Fatalf("expected profiles cascade, %d left", profiles)
	}

	if _, err := svc.GetByID(ctx, domain.GetInvoiceRequest{ID: created.ID.String()}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected invoice gone after cascade, got %v", err)
	}
}
