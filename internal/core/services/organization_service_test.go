package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/core/domain"
	"deepnap-crm/internal/pkg/password"
)

type orgFixture struct {
	svc         *OrganizationService
	orgRepo     *fakeOrgRepo
	adminRepo   *fakeAdminRepo
	accountRepo *fakeAccountRepo
	settingRepo *fakeSettingRepo
	leadRepo    *fakeLeadRepo
	otpSvc      *OTPService
}

func newOrgFixture() *orgFixture {
	f := &orgFixture{
		orgRepo:     newFakeOrgRepo(),
		adminRepo:   newFakeAdminRepo(),
		accountRepo: &fakeAccountRepo{},
		settingRepo: newFakeSettingRepo(),
		leadRepo:    newFakeLeadRepo(),
		otpSvc:      NewOTPService(),
	}
	cfg := testConfig()
	f.svc = NewOrganizationService(
		f.orgRepo, f.accountRepo, f.adminRepo, f.settingRepo, f.leadRepo,
		f.otpSvc, NewEmailService(cfg), cfg,
	)
	return f
}

func orgInput() *RegisterOrganizationInput {
	return &RegisterOrganizationInput{
		Name:          "Deepnap Softech",
		Email:         "owner@deepnap.in",
		Phone:         "9876543210",
		Password:      "Password123",
		EmployeeCount: 5,
	}
}

// seedVerifiedOrg plants a verified organization with its provisioned
// Super Admin, bypassing the email delivery in Register.
func (f *orgFixture) seedVerifiedOrg(t *testing.T) *models.Organization {
	t.Helper()
	hashed, err := password.Hash("Password123")
	require.NoError(t, err)

	org := &models.Organization{
		Code:     "COR-123",
		Name:     "Deepnap Softech",
		Email:    "owner@deepnap.in",
		Phone:    "9876543210",
		Password: hashed,
		Verified: true,
	}
	require.NoError(t, f.orgRepo.Create(context.Background(), org))
	require.NoError(t, f.adminRepo.Create(context.Background(), &models.Admin{
		OrganizationID: org.ID,
		Name:           org.Name,
		Email:          org.Email,
		Phone:          org.Phone,
		Password:       hashed,
		Role:           domain.RoleSuperAdmin,
		Verified:       true,
	}))
	return org
}

func TestOrganizationRegisterAssignsTenantCode(t *testing.T) {
	f := newOrgFixture()

	// The test config has no SendGrid key, so delivery fails after the
	// organization row is in place.
	_, err := f.svc.Register(context.Background(), orgInput())
	assert.ErrorIs(t, err, ErrEmailServiceUnavailable)

	require.Len(t, f.orgRepo.orgs, 1)
	for _, org := range f.orgRepo.orgs {
		assert.Regexp(t, "^COR-[1-9]{3}$", org.Code)
		assert.False(t, org.Verified)
	}
}

func TestOrganizationRegisterRetriesOnCodeCollision(t *testing.T) {
	f := newOrgFixture()
	f.orgRepo.createDupFails = 2

	_, err := f.svc.Register(context.Background(), orgInput())
	assert.ErrorIs(t, err, ErrEmailServiceUnavailable)

	assert.Equal(t, 3, f.orgRepo.createCalls)
	assert.Len(t, f.orgRepo.orgs, 1)
}

func TestOrganizationRegisterDuplicateEmail(t *testing.T) {
	f := newOrgFixture()
	f.seedVerifiedOrg(t)

	_, err := f.svc.Register(context.Background(), orgInput())
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func TestOrganizationVerifyOTPProvisionsTenant(t *testing.T) {
	f := newOrgFixture()
	ctx := context.Background()

	hashed, err := password.Hash("Password123")
	require.NoError(t, err)
	org := &models.Organization{
		Code:     "COR-456",
		Name:     "Deepnap Softech",
		Email:    "owner@deepnap.in",
		Phone:    "9876543210",
		Password: hashed,
	}
	require.NoError(t, f.orgRepo.Create(ctx, org))

	code, err := f.otpSvc.GenerateOTP(org.Email)
	require.NoError(t, err)

	result, err := f.svc.VerifyOTP(ctx, org.Email, code)
	require.NoError(t, err)

	// Trial account created but the window is not armed yet
	require.NotNil(t, f.accountRepo.account)
	assert.Equal(t, domain.AccountTypeTrial, f.accountRepo.account.AccountType)
	assert.False(t, f.accountRepo.account.TrialStarted)

	// Owner becomes the Super Admin with the baseline allowlist
	admin, err := f.adminRepo.GetByEmail(ctx, org.Email)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, admin.Role)
	assert.Equal(t, models.StringList(domain.BaselineSuperAdminRoutes), admin.AllowedRoutes)
	assert.True(t, admin.Verified)

	// Settings and default lead statuses seeded
	_, err = f.settingRepo.GetByOrganizationID(ctx, org.ID)
	require.NoError(t, err)
	statuses, err := f.leadRepo.ListStatuses(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, statuses, len(domain.DefaultLeadStatuses))

	// Both tokens issued
	assert.NotEmpty(t, result.OrganizationToken)
	assert.NotEmpty(t, result.AccessToken)
}

func TestOrganizationLoginIssuesBothTokens(t *testing.T) {
	f := newOrgFixture()
	f.seedVerifiedOrg(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, "owner@deepnap.in", "Password123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.OrganizationToken)
	assert.NotEmpty(t, result.AccessToken)
	require.NotNil(t, result.Admin)
	assert.Equal(t, domain.RoleSuperAdmin, result.Admin.Role)

	_, err = f.svc.Login(ctx, "owner@deepnap.in", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestOrganizationLoginUnverified(t *testing.T) {
	f := newOrgFixture()
	org := f.seedVerifiedOrg(t)
	org.Verified = false

	_, err := f.svc.Login(context.Background(), org.Email, "Password123")
	assert.ErrorIs(t, err, domain.ErrNotVerified)
}

func TestOrganizationResetMirrorsSuperAdmin(t *testing.T) {
	f := newOrgFixture()
	org := f.seedVerifiedOrg(t)
	ctx := context.Background()

	code, err := f.otpSvc.GenerateOTP(org.Email)
	require.NoError(t, err)
	token, err := f.svc.VerifyResetOTP(ctx, org.Email, code)
	require.NoError(t, err)

	require.NoError(t, f.svc.ResetPassword(ctx, token, org.Email, "FreshSecret99"))

	assert.True(t, password.Verify("FreshSecret99", org.Password))
	admin, err := f.adminRepo.GetByEmail(ctx, org.Email)
	require.NoError(t, err)
	assert.True(t, password.Verify("FreshSecret99", admin.Password))
}
