package services

import (
	"context"
	"fmt"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/config"

	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:            "session-secret",
			ResetSecret:       "reset-secret",
			SessionTokenHours: 24,
			ResetTokenMinutes: 1,
		},
	}
}

// fakeAdminRepo is an in-memory AdminRepository. createDupFails injects
// duplicate-key errors into the first N Create calls.
type fakeAdminRepo struct {
	admins         map[uint]*models.Admin
	nextID         uint
	seq            int
	createDupFails int
	createCalls    int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[uint]*models.Admin)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	r.createCalls++
	if r.createDupFails > 0 {
		r.createDupFails--
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	admin.ID = r.nextID
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	admin, ok := r.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, admin := range r.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAdminRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error) {
	for _, admin := range r.admins {
		if admin.Email == identifier || admin.EmployeeID == identifier {
			return admin, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAdminRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeAdminRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	for _, admin := range r.admins {
		if admin.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAdminRepo) CountEmployees(ctx context.Context, orgID uint) (int64, error) {
	var count int64
	for _, admin := range r.admins {
		if admin.OrganizationID == orgID && admin.Role != "Super Admin" {
			count++
		}
	}
	return count, nil
}

func (r *fakeAdminRepo) ListByOrganization(ctx context.Context, orgID uint) ([]models.Admin, error) {
	var out []models.Admin
	for _, admin := range r.admins {
		if admin.OrganizationID == orgID {
			out = append(out, *admin)
		}
	}
	return out, nil
}

func (r *fakeAdminRepo) SetVerified(ctx context.Context, email string) error {
	admin, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	admin.Verified = true
	return nil
}

func (r *fakeAdminRepo) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	admin, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	admin.Password = hashedPassword
	return nil
}

func (r *fakeAdminRepo) UpdateAllowedRoutes(ctx context.Context, adminID uint, routes []string) error {
	admin, ok := r.admins[adminID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	admin.AllowedRoutes = routes
	return nil
}

func (r *fakeAdminRepo) Delete(ctx context.Context, adminID uint) error {
	delete(r.admins, adminID)
	return nil
}

func (r *fakeAdminRepo) NextEmployeeID(ctx context.Context, orgID uint) (string, error) {
	r.seq++
	return fmt.Sprintf("UI%03d", r.seq), nil
}

// fakeOrgRepo is an in-memory OrganizationRepository. createDupFails injects
// duplicate-key errors into the first N Create calls.
type fakeOrgRepo struct {
	orgs           map[uint]*models.Organization
	createDupFails int
	createCalls    int
}

func newFakeOrgRepo(orgs ...*models.Organization) *fakeOrgRepo {
	r := &fakeOrgRepo{orgs: make(map[uint]*models.Organization)}
	for _, org := range orgs {
		r.orgs[org.ID] = org
	}
	return r
}

func (r *fakeOrgRepo) Create(ctx context.Context, org *models.Organization) error {
	r.createCalls++
	if r.createDupFails > 0 {
		r.createDupFails--
		return gorm.ErrDuplicatedKey
	}
	org.ID = uint(len(r.orgs) + 1)
	r.orgs[org.ID] = org
	return nil
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id uint) (*models.Organization, error) {
	org, ok := r.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return org, nil
}

func (r *fakeOrgRepo) GetByEmail(ctx context.Context, email string) (*models.Organization, error) {
	for _, org := range r.orgs {
		if org.Email == email {
			return org, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrgRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeOrgRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	for _, org := range r.orgs {
		if org.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrgRepo) SetVerified(ctx context.Context, email string) (*models.Organization, error) {
	org, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	org.Verified = true
	return org, nil
}

func (r *fakeOrgRepo) AttachAccount(ctx context.Context, orgID, accountID uint) error {
	org, ok := r.orgs[orgID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	org.AccountID = &accountID
	return nil
}

func (r *fakeOrgRepo) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	org, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	org.Password = hashedPassword
	return nil
}

// fakeSettingRepo is an in-memory SettingRepository
type fakeSettingRepo struct {
	settings map[uint]*models.Setting
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{settings: make(map[uint]*models.Setting)}
}

func (r *fakeSettingRepo) Create(ctx context.Context, setting *models.Setting) error {
	setting.ID = uint(len(r.settings) + 1)
	r.settings[setting.OrganizationID] = setting
	return nil
}

func (r *fakeSettingRepo) GetByOrganizationID(ctx context.Context, orgID uint) (*models.Setting, error) {
	setting, ok := r.settings[orgID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return setting, nil
}

func (r *fakeSettingRepo) Update(ctx context.Context, setting *models.Setting) error {
	r.settings[setting.OrganizationID] = setting
	return nil
}

// fakeAccountRepo holds at most one account and records status transitions
type fakeAccountRepo struct {
	account       *models.Account
	statusUpdates []string
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	account.ID = 1
	r.account = account
	return nil
}

func (r *fakeAccountRepo) GetByOrganizationID(ctx context.Context, orgID uint) (*models.Account, error) {
	if r.account == nil || r.account.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.account, nil
}

func (r *fakeAccountRepo) StartTrial(ctx context.Context, accountID uint, start time.Time) error {
	r.account.TrialStarted = true
	r.account.TrialStart = &start
	return nil
}

func (r *fakeAccountRepo) UpdateStatus(ctx context.Context, accountID uint, status string) error {
	r.statusUpdates = append(r.statusUpdates, status)
	r.account.AccountStatus = status
	return nil
}

func (r *fakeAccountRepo) AttachSubscription(ctx context.Context, accountID, subscriptionID uint) error {
	r.account.SubscriptionID = &subscriptionID
	return nil
}

// fakeSubscriptionRepo records end-date backfills
type fakeSubscriptionRepo struct {
	created        []*models.Subscription
	endDateUpdates map[uint]time.Time
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{endDateUpdates: make(map[uint]time.Time)}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *models.Subscription) error {
	sub.ID = uint(len(r.created) + 1)
	r.created = append(r.created, sub)
	return nil
}

func (r *fakeSubscriptionRepo) UpdateEndDate(ctx context.Context, subscriptionID uint, endDate time.Time) error {
	r.endDateUpdates[subscriptionID] = endDate
	return nil
}

// fakeInvoiceRepo is an in-memory InvoiceRepository. The count includes
// deleted documents, matching the unscoped count the real one runs.
type fakeInvoiceRepo struct {
	invoices map[uint]*models.Invoice
	total    int64
	nextID   uint
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uint]*models.Invoice)}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	r.nextID++
	invoice.ID = r.nextID
	r.invoices[invoice.ID] = invoice
	r.total++
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, orgID, id uint) (*models.Invoice, error) {
	invoice, ok := r.invoices[id]
	if !ok || invoice.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return invoice, nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, orgID, id uint) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, orgID uint, kind string, offset, limit int) ([]models.Invoice, int64, error) {
	var out []models.Invoice
	for _, invoice := range r.invoices {
		if invoice.OrganizationID == orgID && invoice.Kind == kind {
			out = append(out, *invoice)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) CountByOrganization(ctx context.Context, orgID uint, kind string) (int64, error) {
	return r.total, nil
}

// fakeCompanyRepo is an in-memory CompanyRepository. createDupFails injects
// duplicate-key errors into the first N Create calls.
type fakeCompanyRepo struct {
	companies      map[uint]*models.Company
	nextID         uint
	seq            int
	createDupFails int
	createCalls    int
	comments       []*models.CompanyComment
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[uint]*models.Company)}
}

func (r *fakeCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	r.createCalls++
	if r.createDupFails > 0 {
		r.createDupFails--
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	company.ID = r.nextID
	r.companies[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) GetByID(ctx context.Context, orgID, id uint) (*models.Company, error) {
	company, ok := r.companies[id]
	if !ok || company.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return company, nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, company *models.Company) error {
	r.companies[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) Delete(ctx context.Context, orgID, id uint) error {
	delete(r.companies, id)
	return nil
}

func (r *fakeCompanyRepo) List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.Company, int64, error) {
	var out []models.Company
	for _, company := range r.companies {
		if company.OrganizationID != orgID {
			continue
		}
		if creatorID != nil && company.CreatorID != *creatorID {
			continue
		}
		out = append(out, *company)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCompanyRepo) CountByCreator(ctx context.Context, creatorID uint) (int64, error) {
	var count int64
	for _, company := range r.companies {
		if company.CreatorID == creatorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCompanyRepo) ExistsByEmail(ctx context.Context, orgID uint, email string) (bool, error) {
	for _, company := range r.companies {
		if company.OrganizationID == orgID && company.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCompanyRepo) ExistsByPhone(ctx context.Context, orgID uint, phone string) (bool, error) {
	for _, company := range r.companies {
		if company.OrganizationID == orgID && company.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCompanyRepo) AddComment(ctx context.Context, comment *models.CompanyComment) error {
	comment.ID = uint(len(r.comments) + 1)
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeCompanyRepo) NextUniqueID(ctx context.Context, orgID uint) (string, error) {
	r.seq++
	return fmt.Sprintf("CORP-%06d", r.seq), nil
}

// fakePeopleRepo is an in-memory PeopleRepository
type fakePeopleRepo struct {
	people  map[uint]*models.People
	nextID  uint
	seq     int
	remarks []*models.PeopleRemark
}

func newFakePeopleRepo() *fakePeopleRepo {
	return &fakePeopleRepo{people: make(map[uint]*models.People)}
}

func (r *fakePeopleRepo) Create(ctx context.Context, person *models.People) error {
	r.nextID++
	person.ID = r.nextID
	r.people[person.ID] = person
	return nil
}

func (r *fakePeopleRepo) GetByID(ctx context.Context, orgID, id uint) (*models.People, error) {
	person, ok := r.people[id]
	if !ok || person.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return person, nil
}

func (r *fakePeopleRepo) Update(ctx context.Context, person *models.People) error {
	r.people[person.ID] = person
	return nil
}

func (r *fakePeopleRepo) Delete(ctx context.Context, orgID, id uint) error {
	delete(r.people, id)
	return nil
}

func (r *fakePeopleRepo) List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.People, int64, error) {
	var out []models.People
	for _, person := range r.people {
		if person.OrganizationID != orgID {
			continue
		}
		if creatorID != nil && person.CreatorID != *creatorID {
			continue
		}
		out = append(out, *person)
	}
	return out, int64(len(out)), nil
}

func (r *fakePeopleRepo) CountByCreator(ctx context.Context, creatorID uint) (int64, error) {
	var count int64
	for _, person := range r.people {
		if person.CreatorID == creatorID {
			count++
		}
	}
	return count, nil
}

func (r *fakePeopleRepo) AddRemark(ctx context.Context, remark *models.PeopleRemark) error {
	remark.ID = uint(len(r.remarks) + 1)
	r.remarks = append(r.remarks, remark)
	return nil
}

func (r *fakePeopleRepo) NextUniqueID(ctx context.Context, creatorID uint) (string, error) {
	r.seq++
	return fmt.Sprintf("IND-%03d", r.seq), nil
}

// fakeLeadRepo is an in-memory LeadRepository
type fakeLeadRepo struct {
	leads    map[uint]*models.Lead
	nextID   uint
	comments []*models.LeadComment
	statuses []models.LeadStatus
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[uint]*models.Lead)}
}

func (r *fakeLeadRepo) Create(ctx context.Context, lead *models.Lead) error {
	r.nextID++
	lead.ID = r.nextID
	r.leads[lead.ID] = lead
	return nil
}

func (r *fakeLeadRepo) GetByID(ctx context.Context, orgID, id uint) (*models.Lead, error) {
	lead, ok := r.leads[id]
	if !ok || lead.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return lead, nil
}

func (r *fakeLeadRepo) Update(ctx context.Context, lead *models.Lead) error {
	r.leads[lead.ID] = lead
	return nil
}

func (r *fakeLeadRepo) Delete(ctx context.Context, orgID, id uint) error {
	delete(r.leads, id)
	return nil
}

func (r *fakeLeadRepo) List(ctx context.Context, orgID uint, creatorID *uint, offset, limit int) ([]models.Lead, int64, error) {
	var out []models.Lead
	for _, lead := range r.leads {
		if lead.OrganizationID != orgID {
			continue
		}
		if creatorID != nil && lead.CreatorID != *creatorID {
			continue
		}
		out = append(out, *lead)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeadRepo) ListAssigned(ctx context.Context, adminID uint, offset, limit int) ([]models.Lead, int64, error) {
	var out []models.Lead
	for _, lead := range r.leads {
		if lead.AssignedID != nil && *lead.AssignedID == adminID {
			out = append(out, *lead)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeadRepo) CountsByStatus(ctx context.Context, orgID uint, creatorID *uint) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, lead := range r.leads {
		if lead.OrganizationID != orgID {
			continue
		}
		if creatorID != nil && lead.CreatorID != *creatorID {
			continue
		}
		counts[lead.Status]++
	}
	return counts, nil
}

func (r *fakeLeadRepo) DueFollowups(ctx context.Context, orgID uint, until time.Time) ([]models.Lead, error) {
	var out []models.Lead
	for _, lead := range r.leads {
		if lead.OrganizationID != orgID || lead.FollowupDate == nil || lead.FollowupSeen {
			continue
		}
		if lead.FollowupDate.After(until) {
			continue
		}
		out = append(out, *lead)
	}
	return out, nil
}

func (r *fakeLeadRepo) DueFollowupsForAll(ctx context.Context, until time.Time) ([]models.Lead, error) {
	var out []models.Lead
	for _, lead := range r.leads {
		if lead.FollowupDate == nil || lead.FollowupSeen || lead.FollowupDate.After(until) {
			continue
		}
		out = append(out, *lead)
	}
	return out, nil
}

func (r *fakeLeadRepo) MarkFollowupsSeen(ctx context.Context, orgID uint, leadIDs []uint) error {
	for _, id := range leadIDs {
		if lead, ok := r.leads[id]; ok && lead.OrganizationID == orgID {
			lead.FollowupSeen = true
		}
	}
	return nil
}

func (r *fakeLeadRepo) AddComment(ctx context.Context, comment *models.LeadComment) error {
	comment.ID = uint(len(r.comments) + 1)
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeLeadRepo) ListComments(ctx context.Context, leadID uint) ([]models.LeadComment, error) {
	var out []models.LeadComment
	for _, comment := range r.comments {
		if comment.LeadID == leadID {
			out = append(out, *comment)
		}
	}
	return out, nil
}

func (r *fakeLeadRepo) SeedDefaultStatuses(ctx context.Context, orgID uint, statuses []string) error {
	for _, status := range statuses {
		r.statuses = append(r.statuses, models.LeadStatus{
			OrganizationID: orgID,
			Status:         status,
			IsDefault:      true,
		})
	}
	return nil
}

func (r *fakeLeadRepo) ListStatuses(ctx context.Context, orgID uint) ([]models.LeadStatus, error) {
	var out []models.LeadStatus
	for _, status := range r.statuses {
		if status.OrganizationID == orgID {
			out = append(out, status)
		}
	}
	return out, nil
}
