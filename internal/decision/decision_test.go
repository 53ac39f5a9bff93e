package decision_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/actions"
	"github.com/emergence-sim/emergence/internal/decision"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/perception"
	"github.com/emergence-sim/emergence/internal/types"
)

func TestNoActionSourceReturnsEmptyMap(t *testing.T) {
	src := decision.NoActionSource{}
	reqs, err := src.Decide(context.Background(), 1, map[ids.AgentID]perception.Payload{ids.NewAgentID(): {}})
	require.NoError(t, err)
	require.Empty(t, reqs)
}

func TestScriptedDrivesEveryAgentIndependently(t *testing.T) {
	a, b := ids.NewAgentID(), ids.NewAgentID()
	perceptions := map[ids.AgentID]perception.Payload{
		a: {Self: perception.SelfView{ID: a, Energy: 10}},
		b: {Self: perception.SelfView{ID: b, Energy: 0}},
	}

	src := decision.NewScripted(func(tick uint64, p perception.Payload) (actions.Request, bool) {
		if p.Self.Energy <= 0 {
			return actions.Request{}, false
		}
		return actions.Request{Agent: p.Self.ID, Type: types.ActionRest}, true
	})

	reqs, err := src.Decide(context.Background(), 3, perceptions)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	require.Equal(t, types.ActionRest, reqs[a].Type)
	_, hasB := reqs[b]
	require.False(t, hasB)
}

func TestFixedReplaysPlanByTickAndDefaultsOtherwise(t *testing.T) {
	a := ids.NewAgentID()
	plan := map[uint64]map[ids.AgentID]actions.Request{
		2: {a: {Agent: a, Type: types.ActionMove}},
	}
	src := decision.NewFixed(plan)

	reqs, err := src.Decide(context.Background(), 2, nil)
	require.NoError(t, err)
	require.Equal(t, types.ActionMove, reqs[a].Type)

	reqs, err = src.Decide(context.Background(), 5, nil)
	require.NoError(t, err)
	require.Empty(t, reqs)
}
