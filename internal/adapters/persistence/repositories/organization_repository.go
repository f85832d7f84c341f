package repositories

import (
	"context"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// organizationRepository implements OrganizationRepository interface
type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// Create creates a new organization
func (r *organizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

// GetByID gets an organization by ID with its account and subscription
func (r *organizationRepository) GetByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Account.Subscription").
		Where("id = ?", id).
		First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetByEmail gets an organization by email with its account and subscription
func (r *organizationRepository) GetByEmail(ctx context.Context, email string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Account.Subscription").
		Where("email = ?", email).
		First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// ExistsByEmail checks if an organization with this email exists
func (r *organizationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks if an organization with this phone exists
func (r *organizationRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("phone = ?", phone).
		Count(&count).Error
	return count > 0, err
}

// SetVerified marks an organization as verified and returns it
func (r *organizationRepository) SetVerified(ctx context.Context, email string) (*models.Organization, error) {
	err := r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("email = ?", email).
		Update("verified", true).Error
	if err != nil {
		return nil, err
	}
	return r.GetByEmail(ctx, email)
}

// AttachAccount links an account to an organization
func (r *organizationRepository) AttachAccount(ctx context.Context, orgID, accountID uint) error {
	return r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("id = ?", orgID).
		Update("account_id", accountID).Error
}

// UpdatePassword replaces the organization's password hash
func (r *organizationRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("email = ?", email).
		Update("password", hashedPassword).Error
}

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetByOrganizationID gets the account for an organization with its subscription
func (r *accountRepository) GetByOrganizationID(ctx context.Context, orgID uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Preload("Subscription").
		Where("organization_id = ?", orgID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// StartTrial arms the trial window
func (r *accountRepository) StartTrial(ctx context.Context, accountID uint, start time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"trial_started": true,
			"trial_start":   start,
		}).Error
}

// UpdateStatus sets the account status
func (r *accountRepository) UpdateStatus(ctx context.Context, accountID uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("account_status", status).Error
}

// AttachSubscription links a subscription to an account
func (r *accountRepository) AttachSubscription(ctx context.Context, accountID, subscriptionID uint) error {
	return r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"subscription_id": subscriptionID,
			"account_type":    "subscription",
			"account_status":  "active",
		}).Error
}

// subscriptionRepository implements SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// UpdateEndDate persists a lazily computed subscription end date
func (r *subscriptionRepository) UpdateEndDate(ctx context.Context, subscriptionID uint, endDate time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		Update("end_date", endDate).Error
}
