// Package responder generates BUMA's child-friendly replies.
//
// Replies come from one of two places: a static quick-response table for
// very common greetings (no model round-trip), or a Groq-hosted Llama chat
// completion primed with the owl persona and recent conversation context.
package responder

import (
	"context"
	"strings"
)

// Turn is one prior question/response exchange, used as model context.
type Turn struct {
	Question string
	Response string
}

// Responder generates a reply to the user's text.
type Responder interface {
	// Respond returns BUMA's reply to userText. history is ordered
	// oldest-first and may be nil for a stateless exchange.
	Respond(ctx context.Context, userText string, history []Turn) (string, error)
}

// quickResponses short-circuits the model call for very common greetings.
// Keys are normalized: lower-case, trimmed. Exact match only.
var quickResponses = map[string]string{
	"bonjour":   "Hoot hoot! Bonjour mon ami! How are you feeling today? Comment ça va?",
	"hello":     "Hoot hoot! Hello my friend! Ready to learn something fun? Prêt?",
	"hi":        "Hoot hoot! Hi there! Want to learn a new word? Tu veux apprendre?",
	"bye":       "Au revoir my friend! Goodbye! Come back soon! À bientôt!",
	"thank you": "You're welcome! De rien! I love helping you learn!",
	"merci":     "De rien! You're so polite! Tu es très poli!",
}

// QuickResponse returns the canned reply for text if it matches a known
// greeting after normalization, and whether it matched.
func QuickResponse(text string) (string, bool) {
	reply, ok := quickResponses[strings.ToLower(strings.TrimSpace(text))]
	return reply, ok
}

// systemPrompt is the BUMA personality. Kept here so it's easy to tune.
const systemPrompt = `You are BUMA, a friendly owl who teaches languages to children aged 5-7.

Rules:
- Keep responses under 40 words (children's attention span)
- Use simple, child-friendly language
- Mix French/English/Arabic when teaching
- Always be encouraging and patient
- End with a question to keep conversation going
- Use "Hoot hoot!" to sound like an owl
- Be playful and fun!

Example:
Child: "What's dog in French?"
BUMA: "Hoot hoot! Great question! A dog is 'un chien' in French. Can you say 'un chien'? It sounds like 'uhn shee-en'! Do you have a dog?"

Important:
- Never use complex words
- Always stay positive
- Make learning feel like playing
- Celebrate every attempt`
