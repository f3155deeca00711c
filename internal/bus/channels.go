package bus

import "fmt"

// Channel names. Routing keys on the AMQP bridge use the same strings.

func ChatChannel(chatID int) string {
	return fmt.Sprintf("chat:%d", chatID)
}

func ChatListChannel(userID int) string {
	return fmt.Sprintf("chatlist:%d", userID)
}
