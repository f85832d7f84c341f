package middleware

import (
	"context"
	"errors"
	"strings"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/config"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/pkg/jwt"
	"deepnap-crm/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthContext is the immutable result of a successful authentication. It is
// built once per request and handed to downstream handlers via locals; the
// account state inside it is never reused across requests.
type AuthContext struct {
	Admin   *models.Admin
	Account *models.Account
	State   domain.AccountState
}

const authContextKey = "authContext"

// GetAuthContext returns the AuthContext set by Authenticate, or nil
func GetAuthContext(c *fiber.Ctx) *AuthContext {
	authCtx, _ := c.Locals(authContextKey).(*AuthContext)
	return authCtx
}

// AdminLoader resolves an admin id to its record. Satisfied by
// services.AuthService.
type AdminLoader interface {
	GetAdminByID(ctx context.Context, adminID uint) (*models.Admin, error)
}

// AccountEvaluator recomputes the account state for an organization.
// Satisfied by services.AccountService.
type AccountEvaluator interface {
	Evaluate(ctx context.Context, orgID uint, role string, storedRoutes []string) (domain.AccountState, *models.Account, error)
}

// Authenticate verifies the bearer token, reloads the admin and account, and
// re-evaluates the account state. Evaluation runs fresh on every request so
// trial and subscription expiry take effect without waiting for re-login.
func Authenticate(cfg *config.Config, admins AdminLoader, accounts AccountEvaluator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Bearer token from the Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Access token required")
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// 2. Verify signature and validity window
		claims, err := jwt.ValidateSessionToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 3. The admin must still exist; tokens outlive deletions
		admin, err := admins.GetAdminByID(c.UserContext(), claims.AdminID)
		if err != nil {
			if errors.Is(err, domain.ErrAdminNotFound) {
				return response.NotFound(c, "Account no longer exists")
			}
			return response.InternalServerError(c, "Failed to load account")
		}

		// 4. Re-evaluate account state (self-healing writes apply inside)
		state, account, err := accounts.Evaluate(c.UserContext(), admin.OrganizationID, admin.Role, admin.AllowedRoutes)
		if err != nil {
			return response.InternalServerError(c, "Failed to evaluate account state")
		}

		c.Locals(authContextKey, &AuthContext{
			Admin:   admin,
			Account: account,
			State:   state,
		})

		return c.Next()
	}
}

// CheckAccess gates one route group. `route` is the first path segment of
// the group's mount path ("/company" -> "company").
func CheckAccess(route string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx := GetAuthContext(c)
		if authCtx == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		if routeAllowed(authCtx, route) {
			return c.Next()
		}

		return response.Forbidden(c, "no access to "+route+"; upgrade subscription")
	}
}

// routeAllowed applies the access decision ladder in priority order
func routeAllowed(authCtx *AuthContext, route string) bool {
	state := authCtx.State

	// a. Active trial reaches the free-route set regardless of account type
	if state.IsTrialActive && domain.IsTrialRoute(route) {
		return true
	}

	good := inGoodStanding(authCtx)

	// b. Super Admin of a paying account bypasses the per-route allowlist
	if authCtx.Admin.Role == domain.RoleSuperAdmin && good {
		return true
	}

	// c. Paying account with the route on its allowlist
	if good && containsRoute(state.EffectiveRoutes, route) {
		return true
	}

	// d. Free routes stay reachable even after subscription expiry
	return domain.IsTrialRoute(route)
}

// inGoodStanding reports whether the account is a paying account that is
// currently active, using the post-evaluation (self-healed) status.
func inGoodStanding(authCtx *AuthContext) bool {
	account := authCtx.Account
	if account == nil {
		return false
	}
	switch account.AccountType {
	case domain.AccountTypeSubscription:
		return !authCtx.State.IsSubscriptionEnded
	case domain.AccountTypeFulltime:
		return account.AccountStatus == domain.AccountStatusActive
	}
	return false
}

func containsRoute(routes []string, route string) bool {
	for _, r := range routes {
		if r == route {
			return true
		}
	}
	return false
}

// RequireSuperAdmin allows only the organization owner
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx := GetAuthContext(c)
		if authCtx == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if authCtx.Admin.Role != domain.RoleSuperAdmin {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// OrganizationLoader resolves an organization id to its record. Satisfied by
// services.OrganizationService.
type OrganizationLoader interface {
	GetByID(ctx context.Context, orgID uint) (*models.Organization, error)
}

// OrganizationAuth verifies an organization token, reloads the organization,
// and stores the verified id in locals. Reloading is not optional: the token
// may outlive the organization it was issued for.
func OrganizationAuth(cfg *config.Config, orgs OrganizationLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Organization token required")
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwt.ValidateOrganizationToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Organization token expired")
			}
			return response.Unauthorized(c, "Invalid organization token")
		}

		org, err := orgs.GetByID(c.UserContext(), claims.OrganizationID)
		if err != nil {
			if errors.Is(err, domain.ErrOrganizationNotFound) {
				return response.NotFound(c, "Organization no longer exists")
			}
			return response.InternalServerError(c, "Failed to load organization")
		}

		c.Locals("organizationID", org.ID)
		return c.Next()
	}
}

// GetOrganizationID returns the organization id set by OrganizationAuth
func GetOrganizationID(c *fiber.Ctx) (uint, bool) {
	orgID, ok := c.Locals("organizationID").(uint)
	return orgID, ok
}
