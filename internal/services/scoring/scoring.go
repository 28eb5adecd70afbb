// Package scoring holds the pure rules that decide rounds, hands and envido.
// Nothing here touches storage or the clock.
package scoring

import (
	"github.com/mcoot/trucogame-go/internal/model"
)

// HandRounds is the most rounds a hand can last
const HandRounds = 3

// RoundWinner finds the strictly highest card on the table. tied is true when
// more than one card shares the top strength, including between teammates.
// It returns -1 for an empty table.
func RoundWinner(table []model.PlayedCard) (idx int, tied bool) {
	idx = -1
	for i, pc := range table {
		if idx < 0 {
			idx = i
			continue
		}
		switch cmp := pc.Card.Compare(table[idx].Card); {
		case cmp > 0:
			idx, tied = i, false
		case cmp == 0:
			tied = true
		}
	}
	return idx, tied
}

// TieBreak applies the tie rules to the rounds played so far in a hand.
// decided is false when the history does not settle the hand yet.
func TieBreak(rounds []model.RoundResult, starterTeam model.TeamID) (winner model.TeamID, decided bool) {
	var ties []int
	byRound := make(map[int]model.RoundResult, len(rounds))
	for _, r := range rounds {
		byRound[r.Round] = r
		if r.Tied() {
			ties = append(ties, r.Round)
		}
	}

	wonBy := func(round int) (model.TeamID, bool) {
		r, ok := byRound[round]
		if !ok || r.Tied() {
			return model.NoTeam, false
		}
		return r.Winner, true
	}

	switch len(ties) {
	case 3:
		return starterTeam, true
	case 1:
		if ties[0] == 1 {
			return wonBy(2)
		}
		return wonBy(1)
	case 2:
		if ties[0] == 1 && ties[1] == 2 {
			return wonBy(3)
		}
	}
	return model.NoTeam, false
}

// HandWinner decides the hand from its round history: two round wins take
// it outright, otherwise the tie rules apply.
func HandWinner(rounds []model.RoundResult, starterTeam model.TeamID) (model.TeamID, bool) {
	wins := make(map[model.TeamID]int)
	for _, r := range rounds {
		if r.Tied() {
			continue
		}
		wins[r.Winner]++
		if wins[r.Winner] >= 2 {
			return r.Winner, true
		}
	}
	return TieBreak(rounds, starterTeam)
}

// TeamEnvido returns the best envido on each team, computed on the cards
// each seat was originally dealt.
func TeamEnvido(g *model.Game) map[model.TeamID]int {
	best := map[model.TeamID]int{model.Team1: 0, model.Team2: 0}
	for _, p := range g.Players {
		best[p.Team] = max(best[p.Team], model.EnvidoOf(g.OriginalHand(p.ID)))
	}
	return best
}

// EnvidoWinner compares team envido values. The hand starter's team wins
// ties.
func EnvidoWinner(team1, team2 int, starterTeam model.TeamID) model.TeamID {
	switch {
	case team1 > team2:
		return model.Team1
	case team2 > team1:
		return model.Team2
	}
	return starterTeam
}
