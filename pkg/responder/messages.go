package responder

// Role identifies the message sender in a chat exchange.
type Role string

const (
	// RoleSystem is for system instructions.
	RoleSystem Role = "system"

	// RoleUser is for user messages.
	RoleUser Role = "user"

	// RoleAssistant is for assistant responses.
	RoleAssistant Role = "assistant"
)

// Message is a single chat message sent to the model.
type Message struct {
	Role    Role
	Content string
}

// BuildMessages assembles the message sequence for a model call: the
// persona instruction first, then each history turn as a user message
// immediately followed by its stored assistant message, then the new
// user text last.
func BuildMessages(userText string, history []Turn) []Message {
	messages := make([]Message, 0, 2*len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})

	for _, turn := range history {
		messages = append(messages,
			Message{Role: RoleUser, Content: turn.Question},
			Message{Role: RoleAssistant, Content: turn.Response},
		)
	}

	return append(messages, Message{Role: RoleUser, Content: userText})
}
