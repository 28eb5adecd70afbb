package redis

import (
	"fmt"

	"github.com/mcoot/trucogame-go/internal/model"
)

const keyPrefix = "truco"

func accountKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

func registeredAccountKey(username string) string {
	return fmt.Sprintf("%s:registered:%s", keyPrefix, username)
}

func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

func gameKey(id model.RoomID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// roomIndexKey is the SET of every room id with a stored game
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
