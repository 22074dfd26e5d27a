package cache

/**
 * This file contains utility functions to format the keys for the cached
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

// One key per collection; scoped collections get one key per parent.

func LobbiesKey() string {
	return "lobbies"
}

func PlayersKey() string {
	return "players"
}

// WorkshopKey is per requesting player: the workshop listing carries that
// player's rating overlay, so two players never share a cached slot.
func WorkshopKey(playerID uint) string {
	return WorkshopKeyPrefix + fmt.Sprintf("%d", playerID)
}

// WorkshopKeyPrefix groups all per-player workshop entries for bulk
// invalidation after a rating write.
const WorkshopKeyPrefix = "workshop:player:"

func DiscussionsKey(itemID uint) string {
	return fmt.Sprintf("discussions:item:%d", itemID)
}

func ReportsKey() string {
	return "reports"
}

func AdminLogsKey() string {
	return "admin_logs"
}

func LeaderboardKey(levelID uint) string {
	return fmt.Sprintf("leaderboard:level:%d", levelID)
}
