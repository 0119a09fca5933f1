package provisioning

import (
	"context"
	"sync"
)

// InMemoryClient is a test double implementing Client.
type InMemoryClient struct {
	mu          sync.Mutex
	nextID      string
	err         error
	submissions []Submission
}

func NewInMemoryClient() *InMemoryClient {
	return &InMemoryClient{nextID: "app-1"}
}

// ReturnID sets the application id returned by the next submissions.
func (c *InMemoryClient) ReturnID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID = id
}

// Fail forces submissions to return err.
func (c *InMemoryClient) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *InMemoryClient) SubmitApplication(_ context.Context, sub Submission) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.submissions = append(c.submissions, sub)
	return c.nextID, nil
}

// Submissions returns all accepted submissions in order.
func (c *InMemoryClient) Submissions() []Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Submission, len(c.submissions))
	copy(out, c.submissions)
	return out
}
