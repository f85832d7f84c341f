package domain

import (
	"math"
	"time"
)

// Account types
const (
	AccountTypeTrial        = "trial"
	AccountTypeSubscription = "subscription"
	AccountTypeFulltime     = "fulltime"
)

// Account statuses
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// TrialDays is the length of the trial window in days
const TrialDays = 3

// SubscriptionDays is the length of one subscription period in days
const SubscriptionDays = 30

// AccountSnapshot is the subset of a persisted account the evaluator reads
type AccountSnapshot struct {
	ID           uint
	Type         string
	Status       string
	TrialStarted bool
	TrialStart   time.Time
}

// SubscriptionSnapshot is the subset of a persisted subscription the
// evaluator reads. EndDate may be nil for records created before the end
// date was tracked.
type SubscriptionSnapshot struct {
	ID        uint
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

// AccountState is the derived subscription/trial state of an organization
// at a point in time. It is computed fresh on every authenticated request
// and never cached across requests.
type AccountState struct {
	IsTrialActive       bool
	IsTrialEnded        bool
	IsSubscribed        bool
	IsSubscriptionEnded bool
	DaysRemaining       int
	EffectiveRoutes     []string
}

// PendingWrites captures the lazy self-healing mutations an evaluation
// discovered. The caller applies them best-effort; a failed write never
// changes the decision already computed in memory.
type PendingWrites struct {
	// SubscriptionEndDate, when non-nil, must be persisted to the
	// subscription record identified by SubscriptionID.
	SubscriptionID      uint
	SubscriptionEndDate *time.Time

	// DeactivateAccount, when true, transitions the account identified by
	// AccountID to the inactive status.
	AccountID         uint
	DeactivateAccount bool
}

// Empty reports whether the evaluation produced no writes
func (w PendingWrites) Empty() bool {
	return w.SubscriptionEndDate == nil && !w.DeactivateAccount
}

// EvaluateAccountState derives the effective state of an account at `now`.
//
// The function is pure: expired subscriptions and missing end dates are
// reported through PendingWrites instead of being persisted here, so the
// decision logic stays testable without a store.
func EvaluateAccountState(account *AccountSnapshot, subscription *SubscriptionSnapshot, role string, storedRoutes []string, now time.Time) (AccountState, PendingWrites) {
	var state AccountState
	var writes PendingWrites

	if account == nil {
		return state, writes
	}

	// 1. Trial window: active through day 3, ended from day 4 on.
	if account.TrialStarted {
		age := daysBetween(account.TrialStart, now)
		state.IsTrialActive = age <= TrialDays
		state.IsTrialEnded = !state.IsTrialActive
		if account.Type == AccountTypeTrial {
			state.DaysRemaining = TrialDays - age
			if state.DaysRemaining < 0 {
				state.DaysRemaining = 0
			}
		}
	}

	status := account.Status

	// 2. Subscription expiry plus end-date self-healing.
	if account.Type == AccountTypeSubscription && subscription != nil {
		endDate := subscription.EndDate
		if endDate == nil || !endDate.After(now) {
			start := now
			if subscription.StartDate != nil {
				start = *subscription.StartDate
			} else if !subscription.CreatedAt.IsZero() {
				start = subscription.CreatedAt
			}
			healed := start.AddDate(0, 0, SubscriptionDays)
			writes.SubscriptionID = subscription.ID
			writes.SubscriptionEndDate = &healed
			endDate = &healed
		}

		state.DaysRemaining = daysUntil(*endDate, now)
		if state.DaysRemaining == 0 && status == AccountStatusActive {
			writes.AccountID = account.ID
			writes.DeactivateAccount = true
			status = AccountStatusInactive
		}
	}

	// Fulltime accounts never run out of days
	if account.Type == AccountTypeFulltime {
		state.DaysRemaining = -1
	}

	state.IsSubscribed = account.Type == AccountTypeSubscription
	state.IsSubscriptionEnded = account.Type == AccountTypeSubscription && status != AccountStatusActive

	// 3. Effective allowlist.
	goodStanding := (account.Type == AccountTypeSubscription || account.Type == AccountTypeFulltime) &&
		status == AccountStatusActive
	if state.IsTrialActive || goodStanding {
		state.EffectiveRoutes = effectiveRoutesFor(role, storedRoutes)
	} else {
		state.EffectiveRoutes = []string{}
	}

	return state, writes
}

// effectiveRoutesFor returns the stored allowlist, or the default Super
// Admin set when a Super Admin has none stored.
func effectiveRoutesFor(role string, storedRoutes []string) []string {
	if role == RoleSuperAdmin && len(storedRoutes) == 0 {
		return DefaultSuperAdminRoutes
	}
	if storedRoutes == nil {
		return []string{}
	}
	return storedRoutes
}

// daysBetween returns ceil((now - from) / 1 day)
func daysBetween(from, now time.Time) int {
	return int(math.Ceil(now.Sub(from).Hours() / 24))
}

// daysUntil returns max(0, ceil((until - now) / 1 day))
func daysUntil(until, now time.Time) int {
	days := int(math.Ceil(until.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
