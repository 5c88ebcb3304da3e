package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/internal/testutil"
	"github.com/hupe1980/leadmesh/service"
)

func newTestLeadGenAgent(nlpSvc core.NLPService) (*LeadGenAgent, *service.InMemoryLeadService) {
	leads := service.NewInMemoryLeadService()
	a := NewLeadGenAgent("leadgen-1", "LeadGen", "lead capture", nlpSvc, leads, nil)
	return a, leads
}

func TestLeadGenAgent_LeadCapture(t *testing.T) {
	text := "hi, I'm interested, reach me at ada@example.com"
	nlpSvc := testutil.NewStaticNLP().AddResult(text, core.NLPResult{
		Intents:  []core.Intent{{Name: "lead_capture", Confidence: 0.9}},
		Entities: []core.Entity{{Type: "email", Value: "ada@example.com", Confidence: 0.95}},
	})
	a, leads := newTestLeadGenAgent(nlpSvc)

	convo := core.NewContext("s1", "")
	resp := a.ProcessMessage(context.Background(), core.NewTextMessage("visitor-7", "leadgen-1", text), convo)

	assert.Equal(t, "lead_capture", resp.Metadata["intent"])

	leadID, ok := convo.GetState(stateLastLeadID)
	require.True(t, ok)

	lead, err := leads.GetLead(context.Background(), leadID.(string))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", lead.Email)
	assert.Equal(t, "conversation", lead.Source)
}

func TestLeadGenAgent_FollowUpUsesSessionLead(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP().AddIntent("remind them next week", "follow_up", 0.85)
	a, leads := newTestLeadGenAgent(nlpSvc)

	lead, err := leads.CreateLead(context.Background(), service.Lead{Name: "Ada"})
	require.NoError(t, err)

	convo := core.NewContext("s1", "u1")
	convo.SetState(stateLastLeadID, lead.ID)

	resp := a.ProcessMessage(context.Background(), core.NewTextMessage("u1", "leadgen-1", "remind them next week"), convo)

	assert.Equal(t, "follow_up", resp.Metadata["intent"])
	data, ok := resp.Content["data"].(map[string]any)
	require.True(t, ok)
	fu, ok := data["follow_up"].(service.FollowUp)
	require.True(t, ok)
	assert.Equal(t, lead.ID, fu.LeadID)
}

func TestLeadGenAgent_AssignLead_NotFound(t *testing.T) {
	a, _ := newTestLeadGenAgent(testutil.NewStaticNLP())

	res := a.PerformAction(context.Background(), "assign_lead", map[string]any{
		"lead_id":     "missing",
		"assignee_id": "rep-1",
	}, core.NewContext("s1", ""))

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "not found")
}

func TestLeadGenAgent_AssignLead_PicksLeastLoaded(t *testing.T) {
	a, leads := newTestLeadGenAgent(testutil.NewStaticNLP())
	ctx := context.Background()

	busy, err := leads.CreateLead(ctx, service.Lead{Name: "busy-1"})
	require.NoError(t, err)
	_, err = leads.AssignLead(ctx, busy.ID, "rep-busy")
	require.NoError(t, err)
	busy2, err := leads.CreateLead(ctx, service.Lead{Name: "busy-2"})
	require.NoError(t, err)
	_, err = leads.AssignLead(ctx, busy2.ID, "rep-busy")
	require.NoError(t, err)
	idle, err := leads.CreateLead(ctx, service.Lead{Name: "idle-1"})
	require.NoError(t, err)
	_, err = leads.AssignLead(ctx, idle.ID, "rep-idle")
	require.NoError(t, err)

	fresh, err := leads.CreateLead(ctx, service.Lead{Name: "fresh"})
	require.NoError(t, err)

	res := a.PerformAction(ctx, "assign_lead", map[string]any{"lead_id": fresh.ID}, nil)
	require.True(t, res.Success, res.Error)

	lead, ok := res.Data["lead"].(service.Lead)
	require.True(t, ok)
	assert.Equal(t, "rep-idle", lead.AssignedTo)
}

func TestLeadGenAgent_QualifyLead_ScoreBounds(t *testing.T) {
	a, leads := newTestLeadGenAgent(testutil.NewStaticNLP())
	lead, err := leads.CreateLead(context.Background(), service.Lead{Name: "Ada"})
	require.NoError(t, err)

	res := a.PerformAction(context.Background(), "qualify_lead", map[string]any{"lead_id": lead.ID, "score": 1.5}, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "[0,1]")

	res = a.PerformAction(context.Background(), "qualify_lead", map[string]any{"lead_id": lead.ID, "score": 0.7}, nil)
	require.True(t, res.Success, res.Error)
}

func TestLeadGenAgent_MarketInquiry(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP().AddResult("how is the webform segment doing?", core.NLPResult{
		Intents:  []core.Intent{{Name: "market_inquiry", Confidence: 0.8}},
		Entities: []core.Entity{{Type: "segment", Value: "webform", Confidence: 0.9}},
	})
	a, leads := newTestLeadGenAgent(nlpSvc)

	_, err := leads.CreateLead(context.Background(), service.Lead{Name: "a", Source: "webform", Score: 0.6})
	require.NoError(t, err)

	resp := a.ProcessMessage(context.Background(), core.NewTextMessage("u1", "leadgen-1", "how is the webform segment doing?"), core.NewContext("s1", "u1"))

	data, ok := resp.Content["data"].(map[string]any)
	require.True(t, ok)
	ins, ok := data["insights"].(service.Insights)
	require.True(t, ok)
	assert.Equal(t, 1, ins.LeadCount)
}
