package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
	"github.com/hupe1980/leadmesh/service"
)

// TypeLeadGen is the registry type name for LeadGenAgent.
const TypeLeadGen = "leadgen"

// stateLastLeadID is the session-state key tracking the lead most recently
// touched in the conversation, so follow-up turns can omit the identifier.
const stateLastLeadID = "last_lead_id"

// LeadGenAgent captures and qualifies leads, schedules follow-ups and
// answers market-insight questions against the lead collaborator.
type LeadGenAgent struct {
	BaseAgent

	leads service.LeadService
}

// LeadGenCapabilities is the capability set declared by LeadGenAgent.
var LeadGenCapabilities = []core.Capability{
	core.CapabilityLeadCapture,
	core.CapabilityLeadQualification,
	core.CapabilityFollowUp,
	core.CapabilityMarketInquiry,
	core.CapabilityLeadAssignment,
}

// NewLeadGenAgent constructs a lead-generation agent and builds its
// intent-handler and action tables. The tables are fixed after construction.
func NewLeadGenAgent(
	id, name, description string,
	nlpSvc core.NLPService,
	leads service.LeadService,
	logger logging.Logger,
) *LeadGenAgent {
	a := &LeadGenAgent{
		BaseAgent: NewBaseAgent(id, name, description, LeadGenCapabilities, nlpSvc, logger),
		leads:     leads,
	}

	a.RegisterHandler("lead_capture", a.handleLeadCapture)
	a.RegisterHandler("lead_qualification", a.handleLeadQualification)
	a.RegisterHandler("follow_up", a.handleFollowUp)
	a.RegisterHandler("market_inquiry", a.handleMarketInquiry)

	a.RegisterAction("create_lead", a.actionCreateLead)
	a.RegisterAction("get_lead", a.actionGetLead)
	a.RegisterAction("qualify_lead", a.actionQualifyLead)
	a.RegisterAction("assign_lead", a.actionAssignLead)
	a.RegisterAction("create_follow_up", a.actionCreateFollowUp)
	a.RegisterAction("get_insights", a.actionGetInsights)
	a.RegisterAction("list_workloads", a.actionListWorkloads)

	return a
}

// resolveLeadID reads the lead identifier from extracted entities first,
// then from session state.
func (a *LeadGenAgent) resolveLeadID(convo *core.Context, res core.NLPResult) (string, bool) {
	if e, ok := res.Entity("lead_id"); ok {
		return e.Value, true
	}
	if convo != nil {
		if v, ok := convo.GetState(stateLastLeadID); ok {
			if id, isStr := v.(string); isStr {
				return id, true
			}
		}
	}
	return "", false
}

func (a *LeadGenAgent) handleLeadCapture(ctx context.Context, msg core.Message, convo *core.Context, res core.NLPResult) (map[string]any, error) {
	lead := service.Lead{Source: "conversation"}
	if e, ok := res.Entity("email"); ok {
		lead.Email = e.Value
	}
	if e, ok := res.Entity("phone"); ok {
		lead.Phone = e.Value
	}
	if e, ok := res.Entity("name"); ok {
		lead.Name = e.Value
	} else {
		lead.Name = msg.Sender
	}

	created, err := a.leads.CreateLead(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("lead capture failed: %w", err)
	}

	convo.SetState(stateLastLeadID, created.ID)
	return map[string]any{"lead": created}, nil
}

func (a *LeadGenAgent) handleLeadQualification(ctx context.Context, _ core.Message, convo *core.Context, res core.NLPResult) (map[string]any, error) {
	leadID, ok := a.resolveLeadID(convo, res)
	if !ok {
		return map[string]any{"note": "no lead referenced"}, nil
	}

	// Positive sentiment nudges the score up, negative down.
	score := 0.5 + res.Sentiment/2
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	lead, err := a.leads.UpdateLead(ctx, leadID, map[string]any{"status": "qualified", "score": score})
	if err != nil {
		return nil, fmt.Errorf("lead qualification failed: %w", err)
	}

	convo.SetState(stateLastLeadID, lead.ID)
	return map[string]any{"lead": lead, "score": score}, nil
}

func (a *LeadGenAgent) handleFollowUp(ctx context.Context, msg core.Message, convo *core.Context, res core.NLPResult) (map[string]any, error) {
	leadID, ok := a.resolveLeadID(convo, res)
	if !ok {
		return map[string]any{"note": "no lead referenced"}, nil
	}

	fu, err := a.leads.CreateFollowUp(ctx, leadID, msg.Text(), time.Now().UTC().Add(72*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("follow-up scheduling failed: %w", err)
	}
	return map[string]any{"follow_up": fu}, nil
}

func (a *LeadGenAgent) handleMarketInquiry(ctx context.Context, _ core.Message, _ *core.Context, res core.NLPResult) (map[string]any, error) {
	segment := ""
	if e, ok := res.Entity("segment"); ok {
		segment = e.Value
	}

	insights, err := a.leads.GetInsights(ctx, segment)
	if err != nil {
		return nil, fmt.Errorf("insight lookup failed: %w", err)
	}
	return map[string]any{"insights": insights}, nil
}

func (a *LeadGenAgent) actionCreateLead(ctx context.Context, params map[string]any, convo *core.Context) core.ActionResult {
	name, ok := stringParam(params, "name")
	if !ok {
		return core.ActionFailure("missing parameter: name")
	}
	lead := service.Lead{Name: name}
	if v, ok := stringParam(params, "email"); ok {
		lead.Email = v
	}
	if v, ok := stringParam(params, "phone"); ok {
		lead.Phone = v
	}
	if v, ok := stringParam(params, "source"); ok {
		lead.Source = v
	}

	created, err := a.leads.CreateLead(ctx, lead)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	if convo != nil {
		convo.SetState(stateLastLeadID, created.ID)
	}
	return core.ActionSuccess(map[string]any{"lead": created})
}

func (a *LeadGenAgent) actionGetLead(ctx context.Context, params map[string]any, _ *core.Context) core.ActionResult {
	leadID, ok := stringParam(params, "lead_id")
	if !ok {
		return core.ActionFailure("missing parameter: lead_id")
	}
	lead, err := a.leads.GetLead(ctx, leadID)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"lead": lead})
}

func (a *LeadGenAgent) actionQualifyLead(ctx context.Context, params map[string]any, _ *core.Context) core.ActionResult {
	leadID, ok := stringParam(params, "lead_id")
	if !ok {
		return core.ActionFailure("missing parameter: lead_id")
	}
	score, ok := floatParam(params, "score")
	if !ok {
		return core.ActionFailure("missing parameter: score")
	}
	if score < 0 || score > 1 {
		return core.ActionFailure("score must be within [0,1], got %v", score)
	}
	lead, err := a.leads.UpdateLead(ctx, leadID, map[string]any{"status": "qualified", "score": score})
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"lead": lead})
}

func (a *LeadGenAgent) actionAssignLead(ctx context.Context, params map[string]any, _ *core.Context) core.ActionResult {
	leadID, ok := stringParam(params, "lead_id")
	if !ok {
		return core.ActionFailure("missing parameter: lead_id")
	}

	assigneeID, ok := stringParam(params, "assignee_id")
	if !ok {
		// Route to the least-loaded assignee when none is given.
		workloads, err := a.leads.ListWorkloads(ctx)
		if err != nil {
			return core.ActionFailure("%v", err)
		}
		minLeads := -1
		for _, w := range workloads {
			if minLeads < 0 || w.OpenLeads < minLeads {
				minLeads = w.OpenLeads
				assigneeID = w.AssigneeID
			}
		}
		if assigneeID == "" {
			return core.ActionFailure("no assignee available and none given")
		}
	}

	lead, err := a.leads.AssignLead(ctx, leadID, assigneeID)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"lead": lead})
}

func (a *LeadGenAgent) actionCreateFollowUp(ctx context.Context, params map[string]any, _ *core.Context) core.ActionResult {
	leadID, ok := stringParam(params, "lead_id")
	if !ok {
		return core.ActionFailure("missing parameter: lead_id")
	}
	note, ok := stringParam(params, "note")
	if !ok {
		return core.ActionFailure("missing parameter: note")
	}
	dueInHours, ok := floatParam(params, "due_in_hours")
	if !ok {
		dueInHours = 72
	}

	fu, err := a.leads.CreateFollowUp(ctx, leadID, note, time.Now().UTC().Add(time.Duration(dueInHours)*time.Hour))
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"follow_up": fu})
}

func (a *LeadGenAgent) actionGetInsights(ctx context.Context, params map[string]any, _ *core.Context) core.ActionResult {
	segment, _ := stringParam(params, "segment")
	insights, err := a.leads.GetInsights(ctx, segment)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"insights": insights})
}

func (a *LeadGenAgent) actionListWorkloads(ctx context.Context, _ map[string]any, _ *core.Context) core.ActionResult {
	workloads, err := a.leads.ListWorkloads(ctx)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"workloads": workloads})
}
