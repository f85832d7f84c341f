package repositories

import (
	"context"

	"deepnap-crm/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// EmployeeIDPrefix and EmployeeIDWidth define the UI001 code scheme
const (
	EmployeeIDPrefix = "UI"
	EmployeeIDWidth  = 3
)

// adminRepository implements AdminRepository interface
type adminRepository struct {
	db        *gorm.DB
	allocator *SequenceAllocator
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{
		db:        db,
		allocator: NewSequenceAllocator(db, "admins", "employee_id", "organization_id"),
	}
}

// Create creates a new admin
func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// GetByID gets an admin by ID
func (r *adminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByEmail gets an admin by email
func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByIdentifier resolves an admin by email or employee id in one field
func (r *adminRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("email = ? OR employee_id = ?", identifier, identifier).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// ExistsByEmail checks if an admin with this email exists
func (r *adminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPhone checks if an admin with this phone exists
func (r *adminRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("phone = ?", phone).
		Count(&count).Error
	return count > 0, err
}

// CountEmployees counts the organization's admins, excluding the Super
// Admin owner who doesn't consume an employee seat.
func (r *adminRepository) CountEmployees(ctx context.Context, orgID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("organization_id = ? AND role <> ?", orgID, "Super Admin").
		Count(&count).Error
	return count, err
}

// ListByOrganization lists all admins of an organization
func (r *adminRepository) ListByOrganization(ctx context.Context, orgID uint) ([]models.Admin, error) {
	var admins []models.Admin
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("id ASC").
		Find(&admins).Error
	return admins, err
}

// SetVerified marks an admin as verified
func (r *adminRepository) SetVerified(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("email = ?", email).
		Update("verified", true).Error
}

// UpdatePassword replaces the admin's password hash and marks it verified
func (r *adminRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"password": hashedPassword,
			"verified": true,
		}).Error
}

// UpdateAllowedRoutes replaces the per-admin route allowlist
func (r *adminRepository) UpdateAllowedRoutes(ctx context.Context, adminID uint, routes []string) error {
	return r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", adminID).
		Update("allowed_routes", models.StringList(routes)).Error
}

// Delete soft deletes an admin
func (r *adminRepository) Delete(ctx context.Context, adminID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Admin{}, adminID).Error
}

// NextEmployeeID computes the next UI-prefixed employee code for the
// organization
func (r *adminRepository) NextEmployeeID(ctx context.Context, orgID uint) (string, error) {
	return r.allocator.Next(ctx, orgID, EmployeeIDPrefix, EmployeeIDWidth)
}
