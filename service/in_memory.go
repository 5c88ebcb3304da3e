package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryLeadService is a process-local LeadService safe for concurrent
// access. Suitable for tests and demo servers.
type InMemoryLeadService struct {
	mu        sync.RWMutex
	leads     map[string]Lead
	followUps map[string][]FollowUp // leadID -> follow-ups
}

// NewInMemoryLeadService constructs an empty in-memory lead service.
func NewInMemoryLeadService() *InMemoryLeadService {
	return &InMemoryLeadService{
		leads:     make(map[string]Lead),
		followUps: make(map[string][]FollowUp),
	}
}

// CreateLead stores a new lead, generating an ID when absent.
func (s *InMemoryLeadService) CreateLead(_ context.Context, lead Lead) (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = "new"
	}
	lead.CreatedAt = time.Now().UTC()
	s.leads[lead.ID] = lead
	return lead, nil
}

// GetLead returns a lead by id or ErrNotFound.
func (s *InMemoryLeadService) GetLead(_ context.Context, id string) (Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[id]
	if !ok {
		return Lead{}, fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	return lead, nil
}

// UpdateLead merges the supported fields into an existing lead.
func (s *InMemoryLeadService) UpdateLead(_ context.Context, id string, fields map[string]any) (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return Lead{}, fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	if v, ok := fields["status"].(string); ok {
		lead.Status = v
	}
	if v, ok := fields["score"].(float64); ok {
		lead.Score = v
	}
	if v, ok := fields["email"].(string); ok {
		lead.Email = v
	}
	if v, ok := fields["phone"].(string); ok {
		lead.Phone = v
	}
	s.leads[id] = lead
	return lead, nil
}

// CreateFollowUp schedules a follow-up for an existing lead.
func (s *InMemoryLeadService) CreateFollowUp(_ context.Context, leadID, note string, dueAt time.Time) (FollowUp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[leadID]; !ok {
		return FollowUp{}, fmt.Errorf("lead %s: %w", leadID, ErrNotFound)
	}
	fu := FollowUp{
		ID:      uuid.NewString(),
		LeadID:  leadID,
		Note:    note,
		DueAt:   dueAt,
		Created: time.Now().UTC(),
	}
	s.followUps[leadID] = append(s.followUps[leadID], fu)
	return fu, nil
}

// GetInsights aggregates simple counts and averages over stored leads.
func (s *InMemoryLeadService) GetInsights(_ context.Context, segment string) (Insights, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	count := 0
	sources := map[string]int{}
	for _, lead := range s.leads {
		if segment != "" && lead.Source != segment {
			continue
		}
		total += lead.Score
		count++
		if lead.Source != "" {
			sources[lead.Source]++
		}
	}
	ins := Insights{Segment: segment, LeadCount: count}
	if count > 0 {
		ins.AvgScore = total / float64(count)
	}
	for src := range sources {
		ins.TopSources = append(ins.TopSources, src)
	}
	return ins, nil
}

// AssignLead routes a lead to a human assignee.
func (s *InMemoryLeadService) AssignLead(_ context.Context, leadID, assigneeID string) (Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[leadID]
	if !ok {
		return Lead{}, fmt.Errorf("lead %s: %w", leadID, ErrNotFound)
	}
	lead.AssignedTo = assigneeID
	lead.Status = "assigned"
	s.leads[leadID] = lead
	return lead, nil
}

// ListWorkloads reports open lead counts per assignee.
func (s *InMemoryLeadService) ListWorkloads(_ context.Context) ([]Workload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[string]int{}
	for _, lead := range s.leads {
		if lead.AssignedTo != "" {
			counts[lead.AssignedTo]++
		}
	}
	workloads := make([]Workload, 0, len(counts))
	for id, n := range counts {
		workloads = append(workloads, Workload{AssigneeID: id, OpenLeads: n})
	}
	return workloads, nil
}

// InMemoryBillingService implements SubscriptionService, PaymentService and
// UserService over process-local maps.
type InMemoryBillingService struct {
	mu            sync.RWMutex
	subscriptions map[string]Subscription // userID -> active subscription
	plans         map[string]Plan
	payments      map[string][]Payment // userID -> payments
	users         map[string]User
}

// NewInMemoryBillingService constructs an empty in-memory billing service.
func NewInMemoryBillingService() *InMemoryBillingService {
	return &InMemoryBillingService{
		subscriptions: make(map[string]Subscription),
		plans:         make(map[string]Plan),
		payments:      make(map[string][]Payment),
		users:         make(map[string]User),
	}
}

// PutUser seeds a user account.
func (s *InMemoryBillingService) PutUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutPlan seeds a plan.
func (s *InMemoryBillingService) PutPlan(p Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p
}

// PutSubscription seeds a user's active subscription.
func (s *InMemoryBillingService) PutSubscription(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[sub.UserID] = sub
}

// AddPayment seeds a payment record.
func (s *InMemoryBillingService) AddPayment(p Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.UserID] = append(s.payments[p.UserID], p)
}

// GetActiveSubscription returns the user's active subscription or ErrNotFound.
func (s *InMemoryBillingService) GetActiveSubscription(_ context.Context, userID string) (Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subscriptions[userID]
	if !ok {
		return Subscription{}, fmt.Errorf("subscription for user %s: %w", userID, ErrNotFound)
	}
	return sub, nil
}

// GetPlan returns a plan by id or ErrNotFound.
func (s *InMemoryBillingService) GetPlan(_ context.Context, planID string) (Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[planID]
	if !ok {
		return Plan{}, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	return plan, nil
}

// UpdateSubscription merges supported fields into a subscription by id.
func (s *InMemoryBillingService) UpdateSubscription(_ context.Context, id string, fields map[string]any) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, sub := range s.subscriptions {
		if sub.ID != id {
			continue
		}
		if v, ok := fields["plan_id"].(string); ok {
			sub.PlanID = v
		}
		if v, ok := fields["status"].(string); ok {
			sub.Status = v
		}
		s.subscriptions[userID] = sub
		return sub, nil
	}
	return Subscription{}, fmt.Errorf("subscription %s: %w", id, ErrNotFound)
}

// CancelSubscription marks a subscription cancelled.
func (s *InMemoryBillingService) CancelSubscription(ctx context.Context, id string) (Subscription, error) {
	return s.UpdateSubscription(ctx, id, map[string]any{"status": "cancelled"})
}

// ListPayments returns the user's payment history, newest last.
func (s *InMemoryBillingService) ListPayments(_ context.Context, userID string) ([]Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payments := make([]Payment, len(s.payments[userID]))
	copy(payments, s.payments[userID])
	return payments, nil
}

// ProcessRefund records a refund against an existing payment.
func (s *InMemoryBillingService) ProcessRefund(_ context.Context, paymentID string, amount float64) (Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, list := range s.payments {
		for i, p := range list {
			if p.ID != paymentID {
				continue
			}
			if amount <= 0 || amount > p.Amount {
				return Payment{}, fmt.Errorf("invalid refund amount %.2f for payment %s", amount, paymentID)
			}
			p.Status = "refunded"
			list[i] = p
			s.payments[userID] = list
			return p, nil
		}
	}
	return Payment{}, fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
}

// GetUser returns a user account by id or ErrNotFound.
func (s *InMemoryBillingService) GetUser(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, nil
}
