package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSplitsTrucoLevels(t *testing.T) {
	g := NewGame("R", "Mesa", 2, time.Now())
	g.Truco = &TrucoBid{Level: BidRetruco, Value: 3}

	snap := NewSnapshot(g)
	assert.Nil(t, snap.Truco)
	require.NotNil(t, snap.Retruco)
	assert.Equal(t, 3, snap.Retruco.Value)
	assert.Nil(t, snap.Vale4)

	g.Truco.Value = 99
	assert.Equal(t, 3, snap.Retruco.Value, "snapshot must not alias the game")
}

func TestSnapshotForViewerHidesOtherHands(t *testing.T) {
	g := NewGame("R", "Mesa", 2, time.Now())
	g.Status = GameStatusPlaying
	g.Players = []Player{
		{ID: "a", Hand: []Card{card(RankAce, SuitEspadas), card(RankTwo, SuitCopas)}, IsCurrentPlayer: true},
		{ID: "b", Hand: []Card{card(RankThree, SuitPaus)}},
	}

	full := NewSnapshot(g)
	view := full.ForViewer("a")

	assert.Len(t, view.Players[0].Hand, 2)
	assert.Nil(t, view.Players[1].Hand)
	assert.Equal(t, 1, view.Players[1].HandSize)
	assert.Len(t, full.Players[1].Hand, 1, "redaction must not touch the original")
	assert.Equal(t, PlayerID("a"), view.CurrentPlayer)
	assert.True(t, view.HasStarted)
}
