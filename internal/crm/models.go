// Package crm talks to the deal system that owns lead tickets. This service
// reads tickets and writes status transitions; it never owns their lifecycle.
package crm

import "context"

// Status is a CRM-owned ticket state. The sweeps drive the machine
// ToSend -> {Appointed, Error}; Appointed -> {Connected, Refused, WorkingOff}.
// Error, Connected and Refused are terminal from this service's perspective.
type Status string

const (
	StatusToSend     Status = "TO_SEND"
	StatusAppointed  Status = "APPOINTED"
	StatusError      Status = "ERROR"
	StatusConnected  Status = "CONNECTED"
	StatusRefused    Status = "REFUSED"
	StatusWorkingOff Status = "WORKING_OFF"
)

// Ticket is a CRM deal as this service sees it.
type Ticket struct {
	ID            int64  `json:"id"`
	Address       string `json:"address"`
	Number        string `json:"number"`
	FIO           string `json:"fio"`
	ApplicationID string `json:"application_id"`
	Status        Status `json:"status"`
}

// ApplicationStatus is one service entry from the provisioning system's
// status list for a submitted application.
type ApplicationStatus struct {
	ServiceID      string `json:"serviceId"`
	StatusID       string `json:"statusId"`
	StatusReasonID string `json:"statusReasonId"`
	BitrixStatus   string `json:"bitrixStatus"`
}

// Client is the deal-system surface the reconciliation sweeps consume.
type Client interface {
	// Deals lists tickets in the given status for a provider.
	Deals(ctx context.Context, status Status, providerID int64) ([]Ticket, error)
	// EditApplication writes a transition back: new status, an operator
	// comment, and optionally the provisioning application id.
	EditApplication(ctx context.Context, dealID int64, comment, applicationID string, newStatus Status) error
	// ApplicationStatuses returns the remote status list for an application.
	ApplicationStatuses(ctx context.Context, applicationID string) ([]ApplicationStatus, error)
}
