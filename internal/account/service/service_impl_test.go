package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/internal/account/repository"
	"github.com/smallbiznis/taxdesk/pkg/db"
	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
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

func setupService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: mustNode(t),
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func TestCreateAndAuthenticate(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateAccountRequest{
		Email:    "ana@example.com",
		Password: "correct horse",
		Name:     "Ana",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected generated id, got %d", created.ID)
	}
	if created.PasswordHash == "correct horse" {
		t.Fatal("password stored in the clear")
	}

	got, err := svc.Authenticate(ctx, domain.AuthenticateRequest{
		Email:    "ana@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected account %d, got %d", created.ID, got.ID)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.CreateAccountRequest{
		Email:    "ana@example.com",
		Password: "correct horse",
		Name:     "Ana",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Authenticate(ctx, domain.AuthenticateRequest{
		Email:    "ana@example.com",
		Password: "wrong horse",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	_, err = svc.Authenticate(ctx, domain.AuthenticateRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	req := domain.CreateAccountRequest{
		Email:    "dup@example.com",
		Password: "password1",
		Name:     "First",
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}

	req.Name = "Second"
	if _, err := svc.Create(ctx, req); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateAccountRequest
		want error
	}{
		{"missing email", domain.CreateAccountRequest{Password: "password1", Name: "A"}, domain.ErrInvalidEmail},
		{"not an email", domain.CreateAccountRequest{Email: "nope", Password: "password1", Name: "A"}, domain.ErrInvalidEmail},
		{"short password", domain.CreateAccountRequest{Email: "a@b.co", Password: "short", Name: "A"}, domain.ErrInvalidPassword},
		{"blank name", domain.CreateAccountRequest{Email: "a@b.co", Password: "password1", Name: "  "}, domain.ErrInvalidName},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateAccountRequest{
		Email:    "ana@example.com",
		Password: "password1",
		Name:     "Ana",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Ana Maria"
	updated, err := svc.Update(ctx, domain.UpdateAccountRequest{
		ID:   created.ID.String(),
		Name: &name,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ana Maria" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.Email != created.Email {
		t.Fatalf("email changed on partial update: %q", updated.Email)
	}

	// Empty patch is a no-op, not an error.
	same, err := svc.Update(ctx, domain.UpdateAccountRequest{ID: created.ID.String()})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if same.Name != "Ana Maria" {
		t.Fatalf("no-op update mutated name: %q", same.Name)
	}

	pw := "new password"
	if _, err := svc.Update(ctx, domain.UpdateAccountRequest{ID: created.ID.String(), Password: &pw}); err != nil {
		t.Fatalf("password update: %v", err)
	}
	if _, err := svc.Authenticate(ctx, domain.AuthenticateRequest{Email: "ana@example.com", Password: pw}); err != nil {
		t.Fatalf("authenticate after password change: %v", err)
	}
}

func TestDeleteIsIdempotentPerRow(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateAccountRequest{
		Email:    "gone@example.com",
		Password: "password1",
		Name:     "Gone",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, domain.DeleteAccountRequest{ID: created.ID.String()}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, domain.DeleteAccountRequest{ID: created.ID.String()}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListFiltersAndTotal(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, domain.CreateAccountRequest{
			Email:    fmt.Sprintf("user%d@alpha.test", i),
			Password: "password1",
			Name:     fmt.Sprintf("Alpha User %d", i),
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := svc.Create(ctx, domain.CreateAccountRequest{
		Email:    "solo@beta.test",
		Password: "password1",
		Name:     "Beta Solo",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	all, err := svc.List(ctx, domain.ListAccountRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 4 || len(all.Items) != 4 {
		t.Fatalf("expected 4 accounts, got total=%d items=%d", all.Total, len(all.Items))
	}

	// Substring match is case-insensitive on both email and name.
	byEmail, err := svc.List(ctx, domain.ListAccountRequest{Email: "ALPHA"})
	if err != nil {
		t.Fatalf("list by email: %v", err)
	}
	if byEmail.Total != 3 {
		t.Fatalf("expected 3 alpha accounts, got %d", byEmail.Total)
	}

	byBoth, err := svc.List(ctx, domain.ListAccountRequest{Email: "alpha", Name: "user 1"})
	if err != nil {
		t.Fatalf("list by both: %v", err)
	}
	if byBoth.Total != 1 {
		t.Fatalf("AND-composed filters expected 1 match, got %d", byBoth.Total)
	}

	// Total counts all matches even when the page window is smaller.
	paged, err := svc.List(ctx, domain.ListAccountRequest{
		Page: pagination.Pagination{Page: 1, Limit: 2},
	})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if paged.Total != 4 || len(paged.Items) != 2 {
		t.Fatalf("expected total=4 items=2, got total=%d items=%d", paged.Total, len(paged.Items))
	}
}

func TestGetByIDInvalid(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, domain.GetAccountRequest{ID: "not-a-number"}); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	if _, err := svc.GetByID(ctx, domain.GetAccountRequest{ID: "123456789"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
