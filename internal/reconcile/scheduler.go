// Package reconcile drives the CRM against the feasibility pipeline and the
// provisioning system: a creation sweep pushes fresh leads through the
// pipeline, a status sweep maps remote application statuses back onto CRM
// ticket states.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"homenet/internal/crm"
	"homenet/internal/events"
	"homenet/internal/feasibility"
	"homenet/internal/platform/metrics"
	"homenet/internal/provisioning"
	"homenet/pkg/requestcontext"
)

// FeasibilityResolver is the pipeline surface the creation sweep needs.
type FeasibilityResolver interface {
	Resolve(ctx context.Context, address string) (feasibility.Report, error)
}

// Scheduler owns the two periodic sweeps. Both only run when the production
// flag is set; in any other environment they are no-ops so a misconfigured
// staging deploy can never touch real tickets.
type Scheduler struct {
	crm        crm.Client
	prov       provisioning.Client
	pipeline   FeasibilityResolver
	events     *events.Publisher
	metrics    *metrics.Metrics
	log        *slog.Logger
	providerID int64
	production bool

	creationInterval time.Duration
	statusInterval   time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithEvents sets the ticket-event publisher.
func WithEvents(p *events.Publisher) Option {
	return func(s *Scheduler) {
		s.events = p
	}
}

// WithProduction enables the sweeps.
func WithProduction(production bool) Option {
	return func(s *Scheduler) {
		s.production = production
	}
}

// WithIntervals overrides the sweep intervals.
func WithIntervals(creation, status time.Duration) Option {
	return func(s *Scheduler) {
		if creation > 0 {
			s.creationInterval = creation
		}
		if status > 0 {
			s.statusInterval = status
		}
	}
}

// New builds a scheduler for one provider.
func New(crmClient crm.Client, prov provisioning.Client, pipeline FeasibilityResolver, providerID int64, opts ...Option) *Scheduler {
	s := &Scheduler{
		crm:              crmClient,
		prov:             prov,
		pipeline:         pipeline,
		log:              slog.Default(),
		providerID:       providerID,
		creationInterval: 2 * time.Minute,
		statusInterval:   4 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs both sweep loops until ctx is cancelled. The loops tick
// independently and may overlap; they act on disjoint ticket-state
// partitions, so no coordination is needed between them.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.production {
		s.log.Warn("reconciliation sweeps disabled outside production")
		<-ctx.Done()
		return
	}

	done := make(chan struct{}, 2)
	go func() {
		s.loop(ctx, "creation", s.creationInterval, s.RunCreationSweep)
		done <- struct{}{}
	}()
	go func() {
		s.loop(ctx, "status", s.statusInterval, s.RunStatusSweep)
		done <- struct{}{}
	}()
	<-done
	<-done
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, sweep func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx := requestcontext.WithSweep(ctx, name)
			if err := sweep(sweepCtx); err != nil {
				// Infrastructure failure: the whole iteration is lost,
				// the next tick retries.
				s.log.Error("sweep iteration failed", "sweep", name, "error", err)
			}
		}
	}
}

// ticketOutcome is the explicit result of one per-ticket step sequence. The
// sweep loop applies it instead of relying on error control flow, so a bad
// ticket can never stop the sweep.
type ticketOutcome struct {
	status        crm.Status
	applicationID string
	comment       string
}

const manualCheckComment = "Техническая возможность отсутствует, требуется ручная проверка"

// RunCreationSweep processes every ToSend ticket once. Per-ticket failures
// are converted into Error transitions and the sweep continues; only a
// failure to list tickets aborts the iteration.
func (s *Scheduler) RunCreationSweep(ctx context.Context) error {
	if !s.production {
		return nil
	}
	s.metrics.RecordSweepRun("creation")

	tickets, err := s.crm.Deals(ctx, crm.StatusToSend, s.providerID)
	if err != nil {
		return fmt.Errorf("list tickets to send: %w", err)
	}
	s.log.Info("creation sweep started", "tickets", len(tickets))

	for _, ticket := range tickets {
		ticketCtx := requestcontext.WithRequestID(ctx, uuid.NewString())
		outcome := s.processTicket(ticketCtx, ticket)
		s.apply(ticketCtx, ticket, outcome)
	}
	return nil
}

// processTicket runs the whole per-ticket sequence and never fails: every
// error becomes an Error outcome carrying the reason as the CRM comment.
func (s *Scheduler) processTicket(ctx context.Context, ticket crm.Ticket) ticketOutcome {
	report, err := s.pipeline.Resolve(ctx, ticket.Address)
	if err != nil {
		s.log.Error("feasibility resolution failed",
			"ticket_id", ticket.ID, "address", ticket.Address, "error", err)
		return ticketOutcome{status: crm.StatusError, comment: err.Error()}
	}

	if !report.Feasible() {
		s.log.Info("no technology available",
			"ticket_id", ticket.ID, "address", ticket.Address)
		return ticketOutcome{status: crm.StatusError, comment: manualCheckComment}
	}

	applicationID, err := s.prov.SubmitApplication(ctx, provisioning.Submission{
		Number: ticket.Number,
		FIO:    ticket.FIO,
		Report: report,
	})
	if err != nil {
		s.log.Error("application submission failed",
			"ticket_id", ticket.ID, "address", ticket.Address, "error", err)
		return ticketOutcome{status: crm.StatusError, comment: err.Error()}
	}

	return ticketOutcome{
		status:        crm.StatusAppointed,
		applicationID: applicationID,
		comment:       "Заявка передана в обработку",
	}
}

// internetServiceID identifies the internet-service entry in the remote
// status list.
const internetServiceID = "10000"

// Remote status ids the status sweep understands.
const (
	remoteStatusScheduled    = "37"
	remoteStatusInProcessing = "40"
	remoteStatusRejected     = "45"
	remoteStatusConnected    = "50"
)

// RunStatusSweep polls every Appointed ticket's application status and maps
// it onto a CRM transition. Mapping failures are logged and skipped,
// mirroring the creation sweep's per-ticket isolation.
func (s *Scheduler) RunStatusSweep(ctx context.Context) error {
	if !s.production {
		return nil
	}
	s.metrics.RecordSweepRun("status")

	tickets, err := s.crm.Deals(ctx, crm.StatusAppointed, s.providerID)
	if err != nil {
		return fmt.Errorf("list appointed tickets: %w", err)
	}
	s.log.Info("status sweep started", "tickets", len(tickets))

	for _, ticket := range tickets {
		ticketCtx := requestcontext.WithRequestID(ctx, uuid.NewString())
		outcome, ok := s.pollTicket(ticketCtx, ticket)
		if !ok {
			continue
		}
		s.apply(ticketCtx, ticket, outcome)
	}
	return nil
}

// pollTicket inspects the remote application status. The second return value
// is false when no transition should happen (still in progress, or the
// status combination is unknown).
func (s *Scheduler) pollTicket(ctx context.Context, ticket crm.Ticket) (ticketOutcome, bool) {
	statuses, err := s.crm.ApplicationStatuses(ctx, ticket.ApplicationID)
	if err != nil {
		s.log.Error("application status poll failed",
			"ticket_id", ticket.ID, "application_id", ticket.ApplicationID, "error", err)
		return ticketOutcome{}, false
	}

	var entry *crm.ApplicationStatus
	for i := range statuses {
		if statuses[i].ServiceID == internetServiceID {
			entry = &statuses[i]
			break
		}
	}
	if entry == nil {
		s.log.Error("status list has no internet-service entry",
			"ticket_id", ticket.ID, "application_id", ticket.ApplicationID)
		return ticketOutcome{}, false
	}

	switch {
	case entry.StatusID == remoteStatusScheduled && entry.StatusReasonID == "":
		// Installation scheduled; nothing to do yet.
		return ticketOutcome{}, false
	case entry.StatusID == remoteStatusConnected:
		return ticketOutcome{status: crm.StatusConnected, comment: "Подключение выполнено"}, true
	case entry.StatusID == remoteStatusRejected:
		return ticketOutcome{status: crm.StatusRefused, comment: "Заявка отклонена оператором"}, true
	case entry.StatusID == remoteStatusInProcessing:
		return ticketOutcome{status: crm.StatusWorkingOff, comment: "Заявка в работе"}, true
	default:
		s.log.Error("unrecognized application status combination",
			"ticket_id", ticket.ID,
			"application_id", ticket.ApplicationID,
			"status_id", entry.StatusID,
			"status_reason_id", entry.StatusReasonID,
			"bitrix_status", entry.BitrixStatus)
		return ticketOutcome{}, false
	}
}

// apply writes the outcome back to the CRM and emits a ticket event. A write
// failure is logged and left for the next tick; the ticket stays in its
// pre-sweep state, which makes the retry safe.
func (s *Scheduler) apply(ctx context.Context, ticket crm.Ticket, outcome ticketOutcome) {
	err := s.crm.EditApplication(ctx, ticket.ID, outcome.comment, outcome.applicationID, outcome.status)
	if err != nil {
		s.log.Error("ticket transition failed",
			"ticket_id", ticket.ID, "to_status", string(outcome.status), "error", err)
		return
	}

	s.metrics.RecordTicketTransition(string(outcome.status))
	s.events.Emit(ctx, events.TicketEvent{
		ID:            uuid.NewString(),
		TicketID:      ticket.ID,
		From:          ticket.Status,
		To:            outcome.status,
		ApplicationID: outcome.applicationID,
		Comment:       outcome.comment,
		At:            requestcontext.Now(ctx),
	})
	s.log.Info("ticket transitioned",
		"ticket_id", ticket.ID,
		"from", string(ticket.Status),
		"to", string(outcome.status))
}
