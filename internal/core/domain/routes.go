package domain

// Roles of tenant users
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
)

// TrialRoutes is the fixed free-route set reachable during an active trial
// and after subscription expiry. Login-time and request-time checks both
// read this single table.
var TrialRoutes = []string{"dashboard", "people", "company", "lead"}

// DefaultSuperAdminRoutes is the fallback allowlist for a Super Admin whose
// stored allowedroutes list is empty.
var DefaultSuperAdminRoutes = []string{"dashboard", "people", "company", "lead"}

// BaselineSuperAdminRoutes is granted to the Super Admin created at
// organization verification time.
var BaselineSuperAdminRoutes = []string{
	"admin",
	"dashboard",
	"people",
	"company",
	"lead",
	"product",
	"category",
	"expense",
	"expense-category",
	"offer",
	"proforma-invoice",
	"invoice",
	"payment",
	"customer",
	"report",
	"support",
	"website configuration",
}

// IsTrialRoute reports whether route belongs to the free-route set
func IsTrialRoute(route string) bool {
	for _, r := range TrialRoutes {
		if r == route {
			return true
		}
	}
	return false
}
