package leadmesh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/nlp"
)

func TestLeadMesh_BuiltInAgentTypes(t *testing.T) {
	m := New()

	sa, err := m.CreateAgent(AgentTypeSupport, "Support", "customer support", nil)
	require.NoError(t, err)
	la, err := m.CreateAgent(AgentTypeLeadGen, "LeadGen", "lead generation", nil)
	require.NoError(t, err)

	assert.NotEqual(t, sa.ID(), la.ID())
	assert.Len(t, m.Agents(), 2)

	_, err = m.CreateAgent("unknown", "x", "y", nil)
	assert.ErrorIs(t, err, core.ErrUnknownAgentType)
}

func TestLeadMesh_Conversation(t *testing.T) {
	ctx := context.Background()

	keyword := nlp.NewKeywordService(nlp.Rule{
		Intent:   "lead_capture",
		Keywords: []string{"interested", "demo"},
	})

	m := New(func(o *Options) { o.NLP = keyword })

	_, err := m.CreateAgent(AgentTypeLeadGen, "LeadGen", "lead generation", nil)
	require.NoError(t, err)

	sid, err := m.CreateSession(ctx, "u1")
	require.NoError(t, err)

	resp, err := m.SendMessage(ctx, sid, "I'm interested in a demo, reach me at grace@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, core.MessageKindResponse, resp.Kind)

	convo, err := m.Session(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 2, convo.HistoryLen())
}

func TestLeadMesh_StartStop(t *testing.T) {
	m := New()

	require.NoError(t, m.Start())
	assert.Error(t, m.Start())
	require.NoError(t, m.Stop())
}
