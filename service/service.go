package service

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a domain entity for the given identifier does
// not exist in the underlying store.
var ErrNotFound = errors.New("not found")

// Lead is a prospective customer captured by the platform.
type Lead struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	Source     string         `json:"source,omitempty"`
	Status     string         `json:"status"`
	Score      float64        `json:"score"`
	AssignedTo string         `json:"assigned_to,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// FollowUp is a scheduled follow-up touchpoint on a lead.
type FollowUp struct {
	ID      string    `json:"id"`
	LeadID  string    `json:"lead_id"`
	Note    string    `json:"note"`
	DueAt   time.Time `json:"due_at"`
	Created time.Time `json:"created"`
}

// Insights summarizes market analytics for a segment.
type Insights struct {
	Segment    string         `json:"segment"`
	LeadCount  int            `json:"lead_count"`
	AvgScore   float64        `json:"avg_score"`
	TopSources []string       `json:"top_sources,omitempty"`
	Metrics    map[string]any `json:"metrics,omitempty"`
}

// Workload reports how many leads are currently assigned to a human agent.
type Workload struct {
	AssigneeID string `json:"assignee_id"`
	OpenLeads  int    `json:"open_leads"`
}

// LeadService manages leads and their follow-up schedule.
type LeadService interface {
	CreateLead(ctx context.Context, lead Lead) (Lead, error)
	GetLead(ctx context.Context, id string) (Lead, error)
	UpdateLead(ctx context.Context, id string, fields map[string]any) (Lead, error)
	CreateFollowUp(ctx context.Context, leadID, note string, dueAt time.Time) (FollowUp, error)
	GetInsights(ctx context.Context, segment string) (Insights, error)
	AssignLead(ctx context.Context, leadID, assigneeID string) (Lead, error)
	ListWorkloads(ctx context.Context) ([]Workload, error)
}

// Subscription is a user's active plan binding.
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	Status    string    `json:"status"`
	RenewsAt  time.Time `json:"renews_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Plan describes a purchasable subscription tier.
type Plan struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Interval string  `json:"interval"`
}

// SubscriptionService exposes subscription lookup and lifecycle operations.
type SubscriptionService interface {
	GetActiveSubscription(ctx context.Context, userID string) (Subscription, error)
	GetPlan(ctx context.Context, planID string) (Plan, error)
	UpdateSubscription(ctx context.Context, id string, fields map[string]any) (Subscription, error)
	CancelSubscription(ctx context.Context, id string) (Subscription, error)
}

// Payment is a single charge against a user.
type Payment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentService exposes payment history and refunds.
type PaymentService interface {
	ListPayments(ctx context.Context, userID string) ([]Payment, error)
	ProcessRefund(ctx context.Context, paymentID string, amount float64) (Payment, error)
}

// User is a platform account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService exposes account lookup.
type UserService interface {
	GetUser(ctx context.Context, id string) (User, error)
}
