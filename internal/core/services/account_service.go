package services

import (
	"context"
	"errors"
	"log"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/core/domain"

	"gorm.io/gorm"
)

// AccountService evaluates the trial/subscription state of an organization.
// Evaluation runs fresh on every call; nothing derived here is cached.
type AccountService struct {
	accountRepo      repositories.AccountRepository
	subscriptionRepo repositories.SubscriptionRepository
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
) *AccountService {
	return &AccountService{
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// Evaluate loads the account of an organization, derives its effective state
// for the given role/allowlist, and applies any self-healing writes the
// evaluation produced. A missing account yields the zero state, not an error.
func (s *AccountService) Evaluate(ctx context.Context, orgID uint, role string, storedRoutes []string) (domain.AccountState, *models.Account, error) {
	account, err := s.accountRepo.GetByOrganizationID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AccountState{EffectiveRoutes: []string{}}, nil, nil
		}
		return domain.AccountState{}, nil, err
	}

	accountSnap := &domain.AccountSnapshot{
		ID:           account.ID,
		Type:         account.AccountType,
		Status:       account.AccountStatus,
		TrialStarted: account.TrialStarted,
	}
	if account.TrialStart != nil {
		accountSnap.TrialStart = *account.TrialStart
	}

	var subSnap *domain.SubscriptionSnapshot
	if account.Subscription != nil {
		subSnap = &domain.SubscriptionSnapshot{
			ID:        account.Subscription.ID,
			StartDate: account.Subscription.StartDate,
			EndDate:   account.Subscription.EndDate,
			CreatedAt: account.Subscription.CreatedAt,
		}
	}

	state, writes := domain.EvaluateAccountState(accountSnap, subSnap, role, storedRoutes, time.Now())
	s.applyWrites(ctx, writes)

	return state, account, nil
}

// applyWrites persists self-healing mutations best-effort. A failed write is
// logged and skipped: the in-memory decision for this request already stands,
// and the next evaluation will recompute the same writes.
func (s *AccountService) applyWrites(ctx context.Context, writes domain.PendingWrites) {
	if writes.Empty() {
		return
	}

	if writes.SubscriptionEndDate != nil {
		if err := s.subscriptionRepo.UpdateEndDate(ctx, writes.SubscriptionID, *writes.SubscriptionEndDate); err != nil {
			log.Printf("❌ Failed to backfill subscription %d end date: %v", writes.SubscriptionID, err)
		}
	}

	if writes.DeactivateAccount {
		if err := s.accountRepo.UpdateStatus(ctx, writes.AccountID, domain.AccountStatusInactive); err != nil {
			log.Printf("❌ Failed to deactivate account %d: %v", writes.AccountID, err)
		} else {
			log.Printf("🛑 Account %d deactivated (subscription expired)", writes.AccountID)
		}
	}
}

// StartTrial arms the 3-day trial window for an account that has not used it
func (s *AccountService) StartTrial(ctx context.Context, orgID uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByOrganizationID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if account.TrialStarted {
		return nil, domain.ErrDuplicateEntry
	}

	now := time.Now()
	if err := s.accountRepo.StartTrial(ctx, account.ID, now); err != nil {
		return nil, err
	}

	account.TrialStarted = true
	account.TrialStart = &now

	log.Printf("✅ Trial started for organization %d", orgID)
	return account, nil
}

// Subscribe creates a 30-day subscription and activates the account
func (s *AccountService) Subscribe(ctx context.Context, orgID uint, planName string) (*models.Subscription, error) {
	account, err := s.accountRepo.GetByOrganizationID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	now := time.Now()
	end := now.AddDate(0, 0, domain.SubscriptionDays)
	sub := &models.Subscription{
		PlanName:  planName,
		StartDate: &now,
		EndDate:   &end,
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.accountRepo.AttachSubscription(ctx, account.ID, sub.ID); err != nil {
		return nil, err
	}

	log.Printf("✅ Organization %d subscribed until %s", orgID, end.Format("2006-01-02"))
	return sub, nil
}
