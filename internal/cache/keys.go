package cache

import "fmt"

// Deterministic cache keys. Every mutation path invalidates by exact key,
// so the format here is the contract.

func FriendListKey(userID int, category string) string {
	return fmt.Sprintf("friend_list_%d_%s", userID, category)
}

// FriendListKeys covers every category filter for a user.
func FriendListKeys(userID int) []string {
	categories := []string{"all", "accepted", "sended", "received"}
	keys := make([]string, 0, len(categories))
	for _, cat := range categories {
		keys = append(keys, FriendListKey(userID, cat))
	}
	return keys
}

func ChatListKey(userID int) string {
	return fmt.Sprintf("chat_list_%d", userID)
}

func UserInterestIDsKey(userID int) string {
	return fmt.Sprintf("user_interest_ids_%d", userID)
}

func UserHobbyIDsKey(userID int) string {
	return fmt.Sprintf("user_hobby_ids_%d", userID)
}

func UserMusicIDsKey(userID int) string {
	return fmt.Sprintf("user_music_ids_%d", userID)
}

func VocabListKey(kind string) string {
	return fmt.Sprintf("%s_list", kind)
}
