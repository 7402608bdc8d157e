package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fineko/fineko-api/internal/core/domain"
	"github.com/fineko/fineko-api/internal/core/ports"
)

func boolPtr(b bool) *bool { return &b }

func TestCompanyService_CreateCompanyAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)

	res, err := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "  Acme  ")
	if err != nil {
		t.Fatalf("CreateCompanyAndLogin: %v", err)
	}
	if res.Company.Name != "Acme" || res.Company.OwnerID != login.User.ID {
		t.Fatalf("unexpected company: %+v", res.Company)
	}

	ms, _ := h.db.Memberships().ListByUser(ctx, login.User.ID)
	if len(ms) != 1 || ms[0].Status != domain.MembershipOwner || ms[0].CompanyID != res.Company.ID {
		t.Fatalf("expected owner membership, got %+v", ms)
	}

	claims, err := h.codec.Verify(res.Credential.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != login.User.ID || claims.CompanyID != res.Company.ID {
		t.Fatalf("credential for wrong pair: %+v", claims)
	}
	if res.Credential.ExpiresAt.Sub(res.Credential.IssuedAt) != 24*time.Hour {
		t.Fatalf("expected 24h lifetime")
	}
}

func TestCompanyService_CreateUsesSessionRememberMe(t *testing.T) {
	h := newHarness(t)
	login := h.loginIvan(t, true)

	res, err := h.companies.CreateCompanyAndLogin(context.Background(), login.TempToken, "Acme")
	if err != nil {
		t.Fatalf("CreateCompanyAndLogin: %v", err)
	}
	if res.Credential.ExpiresAt.Sub(res.Credential.IssuedAt) != 30*24*time.Hour {
		t.Fatalf("expected 30 day lifetime")
	}
}

func TestCompanyService_CreateTwiceMakesTwoCompanies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)

	first, err := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.Company.ID == second.Company.ID {
		t.Fatalf("expected two distinct companies")
	}

	for _, res := range []*ports.CredentialResult{first, second} {
		claims, err := h.codec.Verify(res.Credential.Token)
		if err != nil || claims.CompanyID != res.Company.ID {
			t.Fatalf("credential does not match its company: %+v %v", claims, err)
		}
	}

	choice, err := h.companies.ListForTempToken(ctx, login.TempToken)
	if err != nil {
		t.Fatalf("ListForTempToken: %v", err)
	}
	if len(choice.Companies) != 2 || choice.Next != ports.NextChoose {
		t.Fatalf("expected 2 companies and choose, got %d %s", len(choice.Companies), choice.Next)
	}
}

func TestCompanyService_CreateValidatesName(t *testing.T) {
	h := newHarness(t)
	login := h.loginIvan(t, false)

	for _, name := range []string{"", "   ", strings.Repeat("x", domain.MaxCompanyNameLength+1)} {
		_, err := h.companies.CreateCompanyAndLogin(context.Background(), login.TempToken, name)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", name, err)
		}
	}
}

func TestCompanyService_ListNextStep(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)

	choice, err := h.companies.ListForTempToken(ctx, login.TempToken)
	if err != nil {
		t.Fatalf("ListForTempToken: %v", err)
	}
	if choice.Next != ports.NextCreate || choice.UserID != login.User.ID {
		t.Fatalf("expected create for a new user, got %+v", choice)
	}

	if _, err := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme"); err != nil {
		t.Fatalf("create: %v", err)
	}
	choice, _ = h.companies.ListForTempToken(ctx, login.TempToken)
	if choice.Next != ports.NextSelect || len(choice.Companies) != 1 {
		t.Fatalf("expected select with one company, got %+v", choice)
	}
}

func TestCompanyService_SelectRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)
	created, _ := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme")

	res, err := h.companies.SelectCompany(ctx, ports.SelectCompanyInput{
		TempToken:  login.TempToken,
		CompanyID:  created.Company.ID,
		RememberMe: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("SelectCompany: %v", err)
	}

	claims, err := h.codec.Verify(res.Credential.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != login.User.ID || claims.CompanyID != created.Company.ID || !claims.RememberMe {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if res.User.ID != login.User.ID || res.Company.Name != "Acme" {
		t.Fatalf("unexpected result identity: %+v %+v", res.User, res.Company)
	}

	h.clock.advance(30*24*time.Hour - time.Second)
	if _, err := h.codec.Verify(res.Credential.Token); err != nil {
		t.Fatalf("expected valid one second before expiry, got %v", err)
	}
	h.clock.advance(time.Second)
	if _, err := h.codec.Verify(res.Credential.Token); !errors.Is(err, domain.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestCompanyService_SelectCarriesSessionRememberMe(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, true)
	created, _ := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme")

	res, err := h.companies.SelectCompany(ctx, ports.SelectCompanyInput{TempToken: login.TempToken, CompanyID: created.Company.ID})
	if err != nil {
		t.Fatalf("SelectCompany: %v", err)
	}
	claims, _ := h.codec.Verify(res.Credential.Token)
	if !claims.RememberMe {
		t.Fatalf("expected rememberMe carried from the session")
	}

	res, _ = h.companies.SelectCompany(ctx, ports.SelectCompanyInput{TempToken: login.TempToken, CompanyID: created.Company.ID, RememberMe: boolPtr(false)})
	claims, _ = h.codec.Verify(res.Credential.Token)
	if claims.RememberMe {
		t.Fatalf("explicit rememberMe=false must win")
	}
}

func TestCompanyService_SelectWithoutMembershipIsForbidden(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	owner := h.loginIvan(t, false)
	acme, _ := h.companies.CreateCompanyAndLogin(ctx, owner.TempToken, "Acme")

	stranger, err := h.login.LoginWithExternalIdentity(ctx, domain.ExternalIdentity{ExternalID: "999", FirstName: "Eve"}, false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = h.companies.SelectCompany(ctx, ports.SelectCompanyInput{TempToken: stranger.TempToken, CompanyID: acme.Company.ID})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCompanyService_SelectRequiresCompanyID(t *testing.T) {
	h := newHarness(t)
	login := h.loginIvan(t, false)

	_, err := h.companies.SelectCompany(context.Background(), ports.SelectCompanyInput{TempToken: login.TempToken})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCompanyService_TempTokenExpires(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)

	h.clock.advance(5 * time.Minute)

	if _, err := h.companies.ListForTempToken(ctx, login.TempToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated on list, got %v", err)
	}
	if _, err := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated on create, got %v", err)
	}
	if _, err := h.companies.SelectCompany(ctx, ports.SelectCompanyInput{TempToken: login.TempToken, CompanyID: "x"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated on select, got %v", err)
	}
}

func TestCompanyService_GroupLinkCodeIsNotATempToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)
	acme, _ := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme")

	code, err := h.links.CreateLinkCode(ctx, login.User.ID, acme.Company.ID)
	if err != nil {
		t.Fatalf("CreateLinkCode: %v", err)
	}
	if _, err := h.companies.ListForTempToken(ctx, code.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected a link code to be rejected as temp token, got %v", err)
	}
}

func TestCompanyService_SwitchCompany(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)
	acme, _ := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Acme")
	globex, _ := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, "Globex")

	res, err := h.companies.SwitchCompany(ctx, login.User.ID, globex.Company.ID, false)
	if err != nil {
		t.Fatalf("SwitchCompany: %v", err)
	}
	claims, _ := h.codec.Verify(res.Credential.Token)
	if claims.CompanyID != globex.Company.ID {
		t.Fatalf("expected credential for Globex, got %s", claims.CompanyID)
	}

	other, _ := h.login.LoginWithExternalIdentity(ctx, domain.ExternalIdentity{ExternalID: "777", FirstName: "Eve"}, false)
	if _, err := h.companies.SwitchCompany(ctx, other.User.ID, acme.Company.ID, false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCompanyService_ListAllClampsPaging(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	login := h.loginIvan(t, false)
	for _, name := range []string{"A", "B", "C"} {
		if _, err := h.companies.CreateCompanyAndLogin(ctx, login.TempToken, name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		h.clock.advance(time.Second)
	}

	page, total, err := h.companies.ListAll(ctx, -5, 0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if total != 3 || len(page) != 3 || page[0].Name != "A" {
		t.Fatalf("unexpected page: total=%d len=%d", total, len(page))
	}
}
