package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/types"
)

func TestAppendRejectsNonPositiveQuantity(t *testing.T) {
	l := ledger.New()
	world := ledger.WorldEntity()
	loc := ledger.LocationEntity(ids.NewLocationID())

	_, err := l.Append(1, types.EntryRegeneration, &world, &loc, types.ResourceBerry, emdecimal.Zero, "regen", "")
	require.Error(t, err)

	var iq *ledger.ErrInvalidQuantity
	require.ErrorAs(t, err, &iq)
}

func TestAppendRejectsMismatchedEntities(t *testing.T) {
	l := ledger.New()
	agentFrom := ledger.AgentEntity(ids.NewAgentID())
	agentTo := ledger.AgentEntity(ids.NewAgentID())

	// Regeneration requires From=World, not Agent.
	_, err := l.Append(1, types.EntryRegeneration, &agentFrom, &agentTo, types.ResourceWater, emdecimal.NewFromInt(1), "bad", "")
	require.Error(t, err)

	var ie *ledger.ErrInvalidEntities
	require.ErrorAs(t, err, &ie)
}

func TestGatherConsumeRoundTrip(t *testing.T) {
	l := ledger.New()
	loc := ledger.LocationEntity(ids.NewLocationID())
	agent := ledger.AgentEntity(ids.NewAgentID())

	_, err := l.Append(1, types.EntryGather, &loc, &agent, types.ResourceBerry, emdecimal.NewFromInt(3), "gather", "")
	require.NoError(t, err)

	verdict := l.Verify(1)
	require.True(t, verdict.Balanced)

	require.True(t, l.NetHoldings(agent, types.ResourceBerry).Equal(emdecimal.NewFromInt(3)))
	require.True(t, l.NetHoldings(loc, types.ResourceBerry).Equal(emdecimal.NewFromInt(-3)))

	voidE := ledger.VoidEntity()
	_, err = l.Append(2, types.EntryConsume, &agent, &voidE, types.ResourceBerry, emdecimal.NewFromInt(3), "eat", "")
	require.NoError(t, err)

	verdict = l.Verify(2)
	require.True(t, verdict.Balanced, "consume is a sink flow and must not affect the internal balance check")

	require.True(t, l.NetHoldings(agent, types.ResourceBerry).Equal(emdecimal.Zero))
}

func TestVerifyDetectsImbalance(t *testing.T) {
	l := ledger.New()
	agentA := ledger.AgentEntity(ids.NewAgentID())
	agentB := ledger.AgentEntity(ids.NewAgentID())

	// A single internal entry always contributes the same quantity to
	// both the debit and credit accumulator, so no sequence of
	// well-formed internal entries can ever desynchronize them — that
	// mirrors original_source's conservation.rs and is intentional, not
	// a gap to close here. VerifyStrict's other check is reachable
	// through replayed (validation-skipping) corruption though: a
	// negative regeneration quantity, which Append itself would reject
	// but Restore (the persistence-load path) does not re-validate.
	l.Restore([]ledger.Entry{
		{Tick: 5, Type: types.EntryTransfer, From: &agentA, To: &agentB, Resource: types.ResourceWood, Quantity: emdecimal.NewFromInt(4)},
	})
	require.True(t, l.Verify(5).Balanced, "single transfer always balances by construction")

	world := ledger.WorldEntity()
	loc := ledger.LocationEntity(ids.NewLocationID())
	l.Restore([]ledger.Entry{
		{Tick: 6, Type: types.EntryRegeneration, From: &world, To: &loc, Resource: types.ResourceBerry, Quantity: emdecimal.NewFromInt(-2)},
	})

	verdict := l.VerifyStrict(6)
	require.False(t, verdict.Balanced)
	require.NotNil(t, verdict.Anomaly)
	require.Equal(t, uint64(6), verdict.Anomaly.Tick)
	require.Len(t, verdict.Anomaly.Imbalances, 1)
	require.Equal(t, types.ResourceBerry, verdict.Anomaly.Imbalances[0].Resource)
}
