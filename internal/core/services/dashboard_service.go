package services

import (
	"context"

	"deepnap-crm/internal/adapters/persistence/repositories"
	"deepnap-crm/internal/core/domain"
)

// DashboardService aggregates per-organization counters for the dashboard
type DashboardService struct {
	companyRepo repositories.CompanyRepository
	peopleRepo  repositories.PeopleRepository
	leadRepo    repositories.LeadRepository
	invoiceRepo repositories.InvoiceRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	companyRepo repositories.CompanyRepository,
	peopleRepo repositories.PeopleRepository,
	leadRepo repositories.LeadRepository,
	invoiceRepo repositories.InvoiceRepository,
) *DashboardService {
	return &DashboardService{
		companyRepo: companyRepo,
		peopleRepo:  peopleRepo,
		leadRepo:    leadRepo,
		invoiceRepo: invoiceRepo,
	}
}

// DashboardSummary represents the dashboard counters payload
type DashboardSummary struct {
	TotalCompanies int64            `json:"total_companies"`
	TotalPeople    int64            `json:"total_people"`
	TotalLeads     int64            `json:"total_leads"`
	LeadsByStatus  map[string]int64 `json:"leads_by_status"`
	TotalInvoices  int64            `json:"total_invoices"`
	TotalProforma  int64            `json:"total_proforma"`
}

// Summary computes the dashboard counters. Non Super Admin callers see
// counters over their own records only.
func (s *DashboardService) Summary(ctx context.Context, orgID, callerID uint, role string) (*DashboardSummary, error) {
	var creatorID *uint
	if role != domain.RoleSuperAdmin {
		creatorID = &callerID
	}

	_, totalCompanies, err := s.companyRepo.List(ctx, orgID, creatorID, 0, 1)
	if err != nil {
		return nil, err
	}
	_, totalPeople, err := s.peopleRepo.List(ctx, orgID, creatorID, 0, 1)
	if err != nil {
		return nil, err
	}

	leadsByStatus, err := s.leadRepo.CountsByStatus(ctx, orgID, creatorID)
	if err != nil {
		return nil, err
	}
	var totalLeads int64
	for _, n := range leadsByStatus {
		totalLeads += n
	}

	_, totalInvoices, err := s.invoiceRepo.List(ctx, orgID, "invoice", 0, 1)
	if err != nil {
		return nil, err
	}
	_, totalProforma, err := s.invoiceRepo.List(ctx, orgID, "proforma", 0, 1)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalCompanies: totalCompanies,
		TotalPeople:    totalPeople,
		TotalLeads:     totalLeads,
		LeadsByStatus:  leadsByStatus,
		TotalInvoices:  totalInvoices,
		TotalProforma:  totalProforma,
	}, nil
}
