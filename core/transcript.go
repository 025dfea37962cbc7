package voicechat

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	ID     string
	Text   string
	Sender Sender
	Time   time.Time
}

// Transcript is the append-only list of conversation messages.
type Transcript struct {
	messages []Message
}

func (t *Transcript) append(sender Sender, text string) Message {
	message := Message{ID: uuid.NewString(), Text: text, Sender: sender, Time: time.Now()}
	t.messages = append(t.messages, message)
	return message
}

func (t *Transcript) Len() int { return len(t.messages) }

// Snapshot returns a copy of the messages in order.
func (t *Transcript) Snapshot() []Message {
	messages := make([]Message, len(t.messages))
	copy(messages, t.messages)
	return messages
}
