// Package agent keeps the EcoAgent chat history and relays questions to the backend.
package agent

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	Greeting       = "Hi! I am EcoAgent. How can I help you today?"
	EmptyReply     = "Sorry, I couldn't process your request."
	ConnectionLost = "Sorry, I'm having trouble connecting right now. Please try again later."
	placeholder    = "..."
)

// ErrEmptyQuestion is returned for a blank question; nothing is sent.
var ErrEmptyQuestion = errors.New("question is empty")

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of the chat history.
type Message struct {
	Sender  Sender
	Text    string
	Loading bool
}

// Asker sends a question to the assistant.
type Asker interface {
	AskAgent(ctx context.Context, question string) (string, error)
}

// Conversation is a chat with EcoAgent. It is safe for concurrent use.
type Conversation struct {
	asker  Asker
	logger *zap.Logger

	mu      sync.Mutex
	history []Message
}

// NewConversation starts a chat that opens with the greeting.
func NewConversation(asker Asker, logger *zap.Logger) *Conversation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conversation{
		asker:   asker,
		logger:  logger,
		history: []Message{{Sender: SenderBot, Text: Greeting}},
	}
}

// History returns a copy of the chat so far.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.history...)
}

// Ask sends question and returns the bot's reply as it was recorded. Backend failures are
// turned into a fallback reply rather than an error; err reports the underlying failure.
func (c *Conversation) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	c.mu.Lock()
	c.history = append(c.history,
		Message{Sender: SenderUser, Text: question},
		Message{Sender: SenderBot, Text: placeholder, Loading: true},
	)
	slot := len(c.history) - 1
	c.mu.Unlock()

	reply, err := c.asker.AskAgent(ctx, question)
	switch {
	case err != nil:
		c.logger.Warn("agent request failed", zap.Error(err))
		reply = ConnectionLost
	case strings.TrimSpace(reply) == "":
		reply = EmptyReply
	}

	c.mu.Lock()
	c.history[slot] = Message{Sender: SenderBot, Text: reply}
	c.mu.Unlock()
	return reply, err
}
