package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/core/domain"
)

type leadFixture struct {
	svc       *LeadService
	leadRepo  *fakeLeadRepo
	adminRepo *fakeAdminRepo
	companyID uint
	peopleID  uint
}

func newLeadFixture(t *testing.T) *leadFixture {
	t.Helper()

	leadRepo := newFakeLeadRepo()
	companyRepo := newFakeCompanyRepo()
	peopleRepo := newFakePeopleRepo()
	adminRepo := newFakeAdminRepo()

	company := &models.Company{OrganizationID: 1, CreatorID: 10, CompanyName: "Acme"}
	require.NoError(t, companyRepo.Create(context.Background(), company))
	person := &models.People{OrganizationID: 1, CreatorID: 10, Firstname: "Meera"}
	require.NoError(t, peopleRepo.Create(context.Background(), person))

	return &leadFixture{
		svc:       NewLeadService(leadRepo, companyRepo, peopleRepo, adminRepo),
		leadRepo:  leadRepo,
		adminRepo: adminRepo,
		companyID: company.ID,
		peopleID:  person.ID,
	}
}

func (f *leadFixture) companyLead(t *testing.T) *models.Lead {
	t.Helper()
	lead, err := f.svc.Create(context.Background(), 1, 10, &CreateLeadInput{
		LeadType:  models.LeadTypeCompany,
		CompanyID: &f.companyID,
	})
	require.NoError(t, err)
	return lead
}

func TestLeadCreateDefaults(t *testing.T) {
	f := newLeadFixture(t)

	lead := f.companyLead(t)
	assert.Equal(t, "New", lead.Status)
	assert.Equal(t, "Social Media", lead.Source)
	assert.Nil(t, lead.PeopleID)
}

func TestLeadCreateRequiresExistingProspect(t *testing.T) {
	f := newLeadFixture(t)
	ctx := context.Background()

	missing := uint(999)
	_, err := f.svc.Create(ctx, 1, 10, &CreateLeadInput{
		LeadType:  models.LeadTypeCompany,
		CompanyID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

	// company from another organization is invisible here
	_, err = f.svc.Create(ctx, 2, 10, &CreateLeadInput{
		LeadType:  models.LeadTypeCompany,
		CompanyID: &f.companyID,
	})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

	_, err = f.svc.Create(ctx, 1, 10, &CreateLeadInput{LeadType: "Partner"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, 1, 10, &CreateLeadInput{LeadType: models.LeadTypePeople})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLeadAssignSameOrganizationOnly(t *testing.T) {
	f := newLeadFixture(t)
	ctx := context.Background()
	lead := f.companyLead(t)

	teammate := &models.Admin{OrganizationID: 1, Email: "sales@deepnap.in", Role: "Admin"}
	require.NoError(t, f.adminRepo.Create(ctx, teammate))
	outsider := &models.Admin{OrganizationID: 2, Email: "other@rival.in", Role: "Admin"}
	require.NoError(t, f.adminRepo.Create(ctx, outsider))

	_, err := f.svc.Assign(ctx, 1, lead.ID, outsider.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assigned, err := f.svc.Assign(ctx, 1, lead.ID, teammate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Assigned", assigned.Status)
	require.NotNil(t, assigned.AssignedID)
	assert.Equal(t, teammate.ID, *assigned.AssignedID)
}

func TestLeadFollowupSurfacesOnce(t *testing.T) {
	f := newLeadFixture(t)
	ctx := context.Background()
	lead := f.companyLead(t)

	_, err := f.svc.ScheduleFollowup(ctx, 1, lead.ID, &FollowupInput{
		FollowupDate:   time.Now().Add(-time.Hour),
		FollowupReason: "pricing call",
	})
	require.NoError(t, err)

	due, err := f.svc.DueFollowups(ctx, 1)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Follow Up", due[0].Status)

	// marked seen on first read
	due, err = f.svc.DueFollowups(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, due)

	// rescheduling resets the seen flag
	_, err = f.svc.ScheduleFollowup(ctx, 1, lead.ID, &FollowupInput{
		FollowupDate: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
	due, err = f.svc.DueFollowups(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestLeadFutureFollowupNotDueYet(t *testing.T) {
	f := newLeadFixture(t)
	ctx := context.Background()
	lead := f.companyLead(t)

	_, err := f.svc.ScheduleFollowup(ctx, 1, lead.ID, &FollowupInput{
		FollowupDate: time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)

	due, err := f.svc.DueFollowups(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestLeadDemoLifecycle(t *testing.T) {
	f := newLeadFixture(t)
	ctx := context.Background()
	lead := f.companyLead(t)

	// completing before scheduling is rejected
	_, err := f.svc.CompleteDemo(ctx, 1, lead.ID, "went well")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.ScheduleDemo(ctx, 1, lead.ID, &DemoInput{
		DemoDateTime: time.Now().AddDate(0, 0, 1),
		DemoType:     "Online",
	})
	require.NoError(t, err)

	done, err := f.svc.CompleteDemo(ctx, 1, lead.ID, "went well")
	require.NoError(t, err)
	assert.True(t, done.DemoCompleted)
	assert.Equal(t, "went well", done.DemoRemark)
}

func TestLeadCountsByStatusScopedByRole(t *testing.T) {
	f := newLeadFixture(t)
	ctx := context.Background()

	f.companyLead(t)
	f.companyLead(t)
	_, err := f.svc.Create(ctx, 1, 11, &CreateLeadInput{
		LeadType:  models.LeadTypeCompany,
		CompanyID: &f.companyID,
		Status:    "Demo",
	})
	require.NoError(t, err)

	counts, err := f.svc.CountsByStatus(ctx, 1, 99, domain.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["New"])
	assert.Equal(t, int64(1), counts["Demo"])

	counts, err = f.svc.CountsByStatus(ctx, 1, 11, "Admin")
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts["New"])
	assert.Equal(t, int64(1), counts["Demo"])
}
