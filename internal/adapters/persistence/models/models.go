package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Tenant & Account Tables
// ============================================================

// Organization represents the organizations table (top-level tenant).
// Code is a short random tenant reference (COR-xyz).
type Organization struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Code          string         `gorm:"uniqueIndex;size:10" json:"code"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone         string         `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	Company       string         `gorm:"size:100" json:"company"`
	City          string         `gorm:"size:100" json:"city"`
	EmployeeCount int            `gorm:"default:0" json:"employee_count"`
	Verified      bool           `gorm:"default:false" json:"verified"`
	AccountID     *uint          `gorm:"index" json:"account_id"`
	Account       *Account       `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}

// Account represents the accounts table (subscription/trial state per tenant)
type Account struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrganizationID uint          `gorm:"index;not null" json:"organization_id"`
	AccountType    string        `gorm:"size:20;default:'trial'" json:"account_type"`
	AccountStatus  string        `gorm:"size:20;default:'active'" json:"account_status"`
	AccountName    string        `gorm:"size:100" json:"account_name"`
	TrialStarted   bool          `gorm:"default:false" json:"trial_started"`
	TrialStart     *time.Time    `json:"trial_start"`
	SubscriptionID *uint         `gorm:"index" json:"subscription_id"`
	Subscription   *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Subscription represents the subscriptions table.
// EndDate is nullable: legacy records get it backfilled lazily on read.
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	PlanName  string     `gorm:"size:100" json:"plan_name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Admin represents the admins table (tenant users).
// EmployeeID is a per-organization sequential code (UI001, UI002, ...).
type Admin struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"not null;uniqueIndex:idx_admins_org_employee" json:"organization_id"`
	Organization   *Organization  `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	EmployeeID     string         `gorm:"size:10;uniqueIndex:idx_admins_org_employee" json:"employee_id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone          string         `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	Password       string         `gorm:"size:255;not null" json:"-"`
	Designation    string         `gorm:"size:100" json:"designation"`
	Role           string         `gorm:"size:20;default:'Admin'" json:"role"`
	AllowedRoutes  StringList     `gorm:"type:text" json:"allowedroutes"`
	Verified       bool           `gorm:"default:false" json:"verified"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Admin) TableName() string {
	return "admins"
}

// AdminResponse DTO
type AdminResponse struct {
	ID            uint       `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Designation   string     `json:"designation"`
	Role          string     `json:"role"`
	AllowedRoutes StringList `json:"allowedroutes"`
	Verified      bool       `json:"verified"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (a *Admin) ToResponse() *AdminResponse {
	return &AdminResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		Designation:   a.Designation,
		Role:          a.Role,
		AllowedRoutes: a.AllowedRoutes,
		Verified:      a.Verified,
		CreatedAt:     a.CreatedAt,
	}
}

// Setting represents per-organization defaults (invoice footer, APIs)
type Setting struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"uniqueIndex;not null" json:"organization_id"`
	CreatorID      uint      `gorm:"index;not null" json:"creator_id"`
	IndiamartAPI   string    `gorm:"size:255" json:"indiamart_api"`
	FacebookAPI    string    `gorm:"size:255" json:"facebook_api"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// ============================================================
// CRM Entity Tables
// ============================================================

// Company represents the companies table (corporate prospects).
// UniqueID is scoped to the organization: the compound unique index is the
// correctness backstop for concurrent code allocation.
type Company struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	OrganizationID    uint             `gorm:"not null;uniqueIndex:idx_companies_org_code" json:"organization_id"`
	CreatorID         uint             `gorm:"index;not null" json:"creator_id"`
	UniqueID          string           `gorm:"size:20;uniqueIndex:idx_companies_org_code" json:"unique_id"`
	CompanyName       string           `gorm:"size:150;not null" json:"companyname"`
	ContactPersonName string           `gorm:"size:100;not null" json:"contact_person_name"`
	Designation       string           `gorm:"size:100" json:"designation"`
	Email             string           `gorm:"size:100" json:"email"`
	Phone             string           `gorm:"size:20" json:"phone"`
	Website           string           `gorm:"size:150" json:"website"`
	GSTNo             string           `gorm:"size:15" json:"gst_no"`
	Address           string           `gorm:"size:255" json:"address"`
	Status            string           `gorm:"size:50;default:''" json:"status"`
	IsArchived        bool             `gorm:"default:false;index" json:"is_archived"`
	Contacts          []CompanyContact `gorm:"foreignKey:CompanyID" json:"additional_contacts,omitempty"`
	Comments          []CompanyComment `gorm:"foreignKey:CompanyID" json:"comments,omitempty"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

// CompanyContact represents an additional contact person of a company
type CompanyContact struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CompanyID   uint   `gorm:"index;not null" json:"company_id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Phone       string `gorm:"size:20;not null" json:"phone"`
	Designation string `gorm:"size:100" json:"designation"`
	Email       string `gorm:"size:100" json:"email"`
}

func (CompanyContact) TableName() string {
	return "company_contacts"
}

// CompanyComment represents a comment on a company
type CompanyComment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"index;not null" json:"company_id"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	CreatedByID uint      `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (CompanyComment) TableName() string {
	return "company_comments"
}

// People represents the people table (individual prospects).
// UniqueID (IND-xxx) is scoped to the creator, not globally: the compound
// unique index over (creator_id, unique_id) enforces it.
type People struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"index;not null" json:"organization_id"`
	CreatorID      uint           `gorm:"not null;uniqueIndex:idx_people_creator_code" json:"creator_id"`
	UniqueID       string         `gorm:"size:20;uniqueIndex:idx_people_creator_code" json:"unique_id"`
	Firstname      string         `gorm:"size:100;not null" json:"firstname"`
	Lastname       string         `gorm:"size:100" json:"lastname"`
	Email          string         `gorm:"size:100" json:"email"`
	Phone          string         `gorm:"size:20" json:"phone"`
	Status         string         `gorm:"size:50;default:''" json:"status"`
	Comment        string         `gorm:"type:text" json:"comment"`
	IsArchived     bool           `gorm:"default:false;index" json:"is_archived"`
	Remarks        []PeopleRemark `gorm:"foreignKey:PeopleID" json:"remarks_log,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (People) TableName() string {
	return "people"
}

// PeopleRemark represents a remark logged against a person
type PeopleRemark struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PeopleID    uint      `gorm:"index;not null" json:"people_id"`
	Remark      string    `gorm:"type:text;not null" json:"remark"`
	CreatedByID uint      `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (PeopleRemark) TableName() string {
	return "people_remarks"
}

// Lead types
const (
	LeadTypeCompany = "Company"
	LeadTypePeople  = "People"
)

// Lead represents the leads table
type Lead struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"index;not null" json:"organization_id"`
	CreatorID      uint           `gorm:"index;not null" json:"creator_id"`
	LeadType       string         `gorm:"size:10;default:'Company'" json:"leadtype"`
	CompanyID      *uint          `gorm:"index" json:"company_id"`
	Company        *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	PeopleID       *uint          `gorm:"index" json:"people_id"`
	People         *People        `gorm:"foreignKey:PeopleID" json:"people,omitempty"`
	Status         string         `gorm:"size:50;default:'New'" json:"status"`
	Source         string         `gorm:"size:50;default:'Social Media'" json:"source"`
	LeadCategory   string         `gorm:"size:10" json:"lead_category"`
	Notes          string         `gorm:"type:text" json:"notes"`
	Location       string         `gorm:"size:150" json:"location"`
	AssignedID     *uint          `gorm:"index" json:"assigned_id"`
	Assigned       *Admin         `gorm:"foreignKey:AssignedID" json:"assigned,omitempty"`
	FollowupDate   *time.Time     `gorm:"index" json:"followup_date"`
	FollowupReason string         `gorm:"size:255" json:"followup_reason"`
	FollowupSeen   bool           `gorm:"default:false" json:"followup_seen"`
	DemoDateTime   *time.Time     `json:"demo_date_time"`
	DemoType       string         `gorm:"size:10" json:"demo_type"`
	DemoNotes      string         `gorm:"type:text" json:"demo_notes"`
	DemoRemark     string         `gorm:"size:255" json:"demo_remark"`
	DemoCompleted  bool           `gorm:"default:false" json:"demo_completed"`
	Comments       []LeadComment  `gorm:"foreignKey:LeadID" json:"comments,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lead) TableName() string {
	return "leads"
}

// LeadComment represents a comment on a lead
type LeadComment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LeadID      uint      `gorm:"index;not null" json:"lead_id"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	CreatedByID uint      `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (LeadComment) TableName() string {
	return "lead_comments"
}

// LeadStatus represents a per-organization lead status label
type LeadStatus struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;uniqueIndex:idx_lead_statuses_org_status" json:"organization_id"`
	Status         string    `gorm:"size:50;not null;uniqueIndex:idx_lead_statuses_org_status" json:"status"`
	IsDefault      bool      `gorm:"default:false" json:"is_default"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LeadStatus) TableName() string {
	return "lead_statuses"
}

// ============================================================
// Billing Document Tables
// ============================================================

// Invoice kinds: invoices and proforma invoices share one table shape
const (
	InvoiceKindInvoice  = "invoice"
	InvoiceKindProforma = "proforma"
)

// Invoice represents the invoices table.
// Name is a per-organization sequential document number like "7/2025".
type Invoice struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"index;not null" json:"organization_id"`
	CreatorID      uint           `gorm:"index;not null" json:"creator_id"`
	Kind           string         `gorm:"size:10;not null;default:'invoice';index" json:"kind"`
	Name           string         `gorm:"size:20;not null" json:"invoicename"`
	CustomerName   string         `gorm:"size:150;not null" json:"customer_name"`
	CustomerEmail  string         `gorm:"size:100" json:"customer_email"`
	CustomerPhone  string         `gorm:"size:20" json:"customer_phone"`
	Status         string         `gorm:"size:20;default:'Unpaid'" json:"status"`
	StartDate      *time.Time     `json:"startdate"`
	ExpireDate     *time.Time     `json:"expiredate"`
	Remarks        string         `gorm:"type:text" json:"remarks"`
	Subtotal       float64        `gorm:"type:decimal(12,2)" json:"subtotal"`
	Tax            float64        `gorm:"type:decimal(12,2)" json:"tax"`
	Total          float64        `gorm:"type:decimal(12,2)" json:"total"`
	Items          []InvoiceItem  `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem represents a single line of an invoice
type InvoiceItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	InvoiceID uint    `gorm:"index;not null" json:"invoice_id"`
	Name      string  `gorm:"size:150;not null" json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"type:decimal(12,2);not null" json:"price"`
	Total     float64 `gorm:"type:decimal(12,2);not null" json:"total"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// ============================================================
// Messaging Tables
// ============================================================

// WhatsAppMessage represents one outbound WhatsApp template send
type WhatsAppMessage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"index" json:"organization_id"`
	Phone          string    `gorm:"size:20;not null" json:"phone"`
	TemplateName   string    `gorm:"size:100" json:"template_name"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WhatsAppMessage) TableName() string {
	return "whatsapp_messages"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Tenant & account
		&Subscription{},
		&Account{},
		&Organization{},
		&Admin{},
		&Setting{},
		// CRM entities
		&Company{},
		&CompanyContact{},
		&CompanyComment{},
		&People{},
		&PeopleRemark{},
		&Lead{},
		&LeadComment{},
		&LeadStatus{},
		// Billing documents
		&Invoice{},
		&InvoiceItem{},
		// Messaging
		&WhatsAppMessage{},
	)
}
