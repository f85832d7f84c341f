package domain

// Lead sources offered by the UI; stored as free text, this list only feeds
// the defaults endpoint.
var LeadSources = []string{
	"Linkedin",
	"Social Media",
	"Website",
	"Advertising",
	"Friend",
	"Professionals Network",
	"Customer Referral",
	"Sales",
}

// StatusNotInterested archives a prospect when set on a company or person
const StatusNotInterested = "Not Interested"

// DefaultLeadStatuses is seeded for every organization at verification time
var DefaultLeadStatuses = []string{
	"New",
	"In Negotiation",
	"Completed",
	"Loose",
	"Cancelled",
	"Assigned",
	"On Hold",
	"Follow Up",
}
