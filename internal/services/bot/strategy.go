package bot

import "github.com/mcoot/trucogame-go/internal/model"

// Strategy defines how a bot plays its seat
type Strategy interface {
	// ChooseCard selects a card from self's hand to play
	ChooseCard(game *model.Game, self *model.Player) model.Card
	// RespondToBid decides whether to accept a bid self must answer
	RespondToBid(game *model.Game, self *model.Player, bid model.BidKind) bool
}
