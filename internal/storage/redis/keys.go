package redis

import "fmt"

const keyPrefix = "match3"

// scoresKey is the sorted set of score entry ids ranked by score.
func scoresKey(gameID string) string {
	return fmt.Sprintf("%s:scores:%s", keyPrefix, gameID)
}

// scoreEntryKey is the hash holding a single score entry.
func scoreEntryKey(id int64) string {
	return fmt.Sprintf("%s:score:%d", keyPrefix, id)
}

// scoreSeqKey is the counter handing out score ids.
func scoreSeqKey() string {
	return fmt.Sprintf("%s:seq:score", keyPrefix)
}

// statsKey is the hash with count, total and last played for a game.
func statsKey(gameID string) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, gameID)
}

// sessionKey holds one session result as JSON.
func sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, sessionID)
}

// sessionsForGameKey is the newest-first list of session ids of a game.
func sessionsForGameKey(gameID string) string {
	return fmt.Sprintf("%s:idx:sessions_for_game:%s", keyPrefix, gameID)
}

// sessionSeqKey is the counter handing out session row ids.
func sessionSeqKey() string {
	return fmt.Sprintf("%s:seq:session", keyPrefix)
}
