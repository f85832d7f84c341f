package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/config"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGateApp mounts CheckAccess behind a stub that injects the auth context
func newGateApp(authCtx *AuthContext, route string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if authCtx != nil {
			c.Locals(authContextKey, authCtx)
		}
		return c.Next()
	})
	app.Get("/"+route, CheckAccess(route), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func gateStatus(t *testing.T, authCtx *AuthContext, route string) int {
	t.Helper()
	app := newGateApp(authCtx, route)
	resp, err := app.Test(httptest.NewRequest("GET", "/"+route, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp.StatusCode
}

func trialCtx(active bool) *AuthContext {
	return &AuthContext{
		Admin:   &models.Admin{Role: domain.RoleSuperAdmin},
		Account: &models.Account{AccountType: domain.AccountTypeTrial, AccountStatus: domain.AccountStatusActive},
		State: domain.AccountState{
			IsTrialActive:   active,
			IsTrialEnded:    !active,
			EffectiveRoutes: []string{},
		},
	}
}

func subscriptionCtx(role string, ended bool, routes []string) *AuthContext {
	status := domain.AccountStatusActive
	if ended {
		status = domain.AccountStatusInactive
	}
	return &AuthContext{
		Admin:   &models.Admin{Role: role, AllowedRoutes: models.StringList(routes)},
		Account: &models.Account{AccountType: domain.AccountTypeSubscription, AccountStatus: status},
		State: domain.AccountState{
			IsSubscriptionEnded: ended,
			EffectiveRoutes:     effectiveForTest(ended, routes),
		},
	}
}

func effectiveForTest(ended bool, routes []string) []string {
	if ended {
		return []string{}
	}
	return routes
}

func TestGateTrialFreeRoutes(t *testing.T) {
	active := trialCtx(true)
	for _, route := range []string{"dashboard", "people", "company", "lead"} {
		assert.Equal(t, fiber.StatusOK, gateStatus(t, active, route), route)
	}
	// paid-only routes stay closed during trial
	assert.Equal(t, fiber.StatusForbidden, gateStatus(t, active, "invoice"))
	assert.Equal(t, fiber.StatusForbidden, gateStatus(t, active, "whatsapp"))
}

func TestGateExpiredTrial(t *testing.T) {
	expired := trialCtx(false)
	// free routes survive expiry, nothing else opens
	assert.Equal(t, fiber.StatusOK, gateStatus(t, expired, "people"))
	assert.Equal(t, fiber.StatusForbidden, gateStatus(t, expired, "invoice"))
}

func TestGateSuperAdminBypass(t *testing.T) {
	ctx := subscriptionCtx(domain.RoleSuperAdmin, false, nil)
	// not on any allowlist, but a paying Super Admin reaches everything
	assert.Equal(t, fiber.StatusOK, gateStatus(t, ctx, "invoice"))
	assert.Equal(t, fiber.StatusOK, gateStatus(t, ctx, "whatsapp"))
}

func TestGateSuperAdminExpiredSubscription(t *testing.T) {
	ctx := subscriptionCtx(domain.RoleSuperAdmin, true, []string{"invoice"})
	assert.Equal(t, fiber.StatusForbidden, gateStatus(t, ctx, "invoice"))
	// free routes remain reachable after expiry
	assert.Equal(t, fiber.StatusOK, gateStatus(t, ctx, "dashboard"))
}

func TestGateAdminAllowlist(t *testing.T) {
	ctx := subscriptionCtx(domain.RoleAdmin, false, []string{"company"})
	assert.Equal(t, fiber.StatusOK, gateStatus(t, ctx, "company"))
	assert.Equal(t, fiber.StatusForbidden, gateStatus(t, ctx, "invoice"))
	// lead is a free route but the trial is not running and the allowlist
	// does not include it; rule d still lets it through
	assert.Equal(t, fiber.StatusOK, gateStatus(t, ctx, "lead"))
}

func TestGateFulltimeInactive(t *testing.T) {
	ctx := &AuthContext{
		Admin:   &models.Admin{Role: domain.RoleAdmin, AllowedRoutes: models.StringList{"whatsapp"}},
		Account: &models.Account{AccountType: domain.AccountTypeFulltime, AccountStatus: domain.AccountStatusInactive},
		State:   domain.AccountState{EffectiveRoutes: []string{}},
	}
	assert.Equal(t, fiber.StatusForbidden, gateStatus(t, ctx, "whatsapp"))
}

func TestGateMissingAuthContext(t *testing.T) {
	assert.Equal(t, fiber.StatusUnauthorized, gateStatus(t, nil, "company"))
}

func TestRequireSuperAdmin(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(authContextKey, &AuthContext{Admin: &models.Admin{Role: domain.RoleAdmin}})
		return c.Next()
	})
	app.Get("/admin", RequireSuperAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

type fakeOrgLoader struct {
	orgs map[uint]*models.Organization
}

func (f *fakeOrgLoader) GetByID(ctx context.Context, orgID uint) (*models.Organization, error) {
	org, ok := f.orgs[orgID]
	if !ok {
		return nil, domain.ErrOrganizationNotFound
	}
	return org, nil
}

const orgAuthSecret = "session-secret"

func newOrgAuthApp(loader OrganizationLoader) *fiber.App {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: orgAuthSecret}}
	app := fiber.New()
	app.Get("/organization/me", OrganizationAuth(cfg, loader), func(c *fiber.Ctx) error {
		orgID, _ := GetOrganizationID(c)
		return c.JSON(fiber.Map{"id": orgID})
	})
	return app
}

func orgAuthStatus(t *testing.T, loader OrganizationLoader, token string) int {
	t.Helper()
	app := newOrgAuthApp(loader)
	req := httptest.NewRequest("GET", "/organization/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestOrganizationAuthAcceptsOwnerToken(t *testing.T) {
	loader := &fakeOrgLoader{orgs: map[uint]*models.Organization{7: {ID: 7}}}
	token, err := jwt.GenerateOrganizationToken(7, "org@tenant.test", "Tenant Pvt Ltd", orgAuthSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, orgAuthStatus(t, loader, token))
}

func TestOrganizationAuthRejectsSessionToken(t *testing.T) {
	// Employee #7 of one tenant must not act as organization #7 of another
	loader := &fakeOrgLoader{orgs: map[uint]*models.Organization{7: {ID: 7}}}
	token, err := jwt.GenerateSessionToken(7, "employee@tenant.test", "Employee", "Admin", nil, orgAuthSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, orgAuthStatus(t, loader, token))
}

func TestOrganizationAuthRejectsDeletedOrganization(t *testing.T) {
	loader := &fakeOrgLoader{orgs: map[uint]*models.Organization{}}
	token, err := jwt.GenerateOrganizationToken(7, "org@tenant.test", "Tenant Pvt Ltd", orgAuthSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, orgAuthStatus(t, loader, token))
}

type fakeAdminLoader struct {
	admin *models.Admin
	err   error
}

func (f *fakeAdminLoader) GetAdminByID(ctx context.Context, adminID uint) (*models.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.admin, nil
}

type fakeAccountEvaluator struct{}

func (fakeAccountEvaluator) Evaluate(ctx context.Context, orgID uint, role string, storedRoutes []string) (domain.AccountState, *models.Account, error) {
	return domain.AccountState{}, &models.Account{}, nil
}

func authenticateStatus(t *testing.T, admins AdminLoader) int {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: orgAuthSecret}}
	app := fiber.New()
	app.Get("/me", Authenticate(cfg, admins, fakeAccountEvaluator{}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	token, err := jwt.GenerateSessionToken(3, "a@b.test", "A", "Admin", nil, orgAuthSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthenticateLoadsContext(t *testing.T) {
	admin := &models.Admin{ID: 3, OrganizationID: 1, Role: domain.RoleAdmin}
	assert.Equal(t, fiber.StatusOK, authenticateStatus(t, &fakeAdminLoader{admin: admin}))
}

func TestAuthenticateDeletedAdmin(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, authenticateStatus(t, &fakeAdminLoader{err: domain.ErrAdminNotFound}))
}

func TestAuthenticateAdminLookupFailure(t *testing.T) {
	// a transport error does not mean the account is gone
	loader := &fakeAdminLoader{err: errors.New("connection reset")}
	assert.Equal(t, fiber.StatusInternalServerError, authenticateStatus(t, loader))
}
