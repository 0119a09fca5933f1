package crm

import (
	"context"
	"sync"

	"homenet/pkg/platform/sentinel"
)

// Transition records one EditApplication call for assertions in tests.
type Transition struct {
	DealID        int64
	Comment       string
	ApplicationID string
	NewStatus     Status
}

// InMemoryClient is a test double implementing Client. It applies transitions
// to its ticket set so repeated sweeps observe current state, mirroring the
// real CRM's idempotent-by-retry behavior.
type InMemoryClient struct {
	mu          sync.Mutex
	tickets     map[int64]Ticket
	statuses    map[string][]ApplicationStatus
	transitions []Transition

	// DealsErr forces the next Deals call to fail (sweep-infrastructure
	// error path).
	DealsErr error
}

func NewInMemoryClient() *InMemoryClient {
	return &InMemoryClient{
		tickets:  make(map[int64]Ticket),
		statuses: make(map[string][]ApplicationStatus),
	}
}

// SeedTickets adds tickets.
func (c *InMemoryClient) SeedTickets(tickets ...Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tickets {
		c.tickets[t.ID] = t
	}
}

// SeedStatuses sets the status list returned for an application id.
func (c *InMemoryClient) SeedStatuses(applicationID string, statuses ...ApplicationStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[applicationID] = statuses
}

func (c *InMemoryClient) Deals(_ context.Context, status Status, _ int64) ([]Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DealsErr != nil {
		return nil, c.DealsErr
	}
	var out []Ticket
	for _, t := range c.tickets {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *InMemoryClient) EditApplication(_ context.Context, dealID int64, comment, applicationID string, newStatus Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tickets[dealID]
	if !ok {
		return sentinel.ErrNotFound
	}
	t.Status = newStatus
	if applicationID != "" {
		t.ApplicationID = applicationID
	}
	c.tickets[dealID] = t
	c.transitions = append(c.transitions, Transition{
		DealID:        dealID,
		Comment:       comment,
		ApplicationID: applicationID,
		NewStatus:     newStatus,
	})
	return nil
}

func (c *InMemoryClient) ApplicationStatuses(_ context.Context, applicationID string) ([]ApplicationStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	statuses, ok := c.statuses[applicationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return statuses, nil
}

// Ticket returns the current state of one ticket.
func (c *InMemoryClient) Ticket(id int64) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tickets[id]
	return t, ok
}

// Transitions returns all recorded EditApplication calls in order.
func (c *InMemoryClient) Transitions() []Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Transition, len(c.transitions))
	copy(out, c.transitions)
	return out
}
