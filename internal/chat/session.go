package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sdn3bangkuang/sekolahku/internal/models"
)

// welcomeText greets visitors before their first question.
const welcomeText = "Selamat datang di Layanan Informasi SD Negeri 3 Bangkuang. " +
	"Saya siap membantu Bapak/Ibu terkait informasi sekolah, data guru, atau berita terbaru. 😊"

// Turn is one completed model exchange: the full composed prompt that was
// sent and the reply that came back.
type Turn struct {
	Prompt string
	Reply  string
}

// Session owns one conversation: the display log shown to the visitor and
// the model-facing turn history. Every send includes all prior turns, so
// the accumulation contract lives here rather than inside an SDK object.
// The log is append-only and dies with the process; nothing is persisted.
type Session struct {
	mu    sync.Mutex
	turns []Turn
	log   []models.ChatMessage
}

// NewSession creates a session pre-seeded with the welcome greeting.
func NewSession() *Session {
	s := &Session{}
	s.log = append(s.log, models.ChatMessage{
		ID:        "welcome",
		Role:      models.ChatRoleAssistant,
		Text:      welcomeText,
		Timestamp: time.Now(),
	})
	return s
}

// AppendUser records the visitor's message in the display log before the
// model responds, so the log order is stable even when the send fails.
func (s *Session) AppendUser(text string) models.ChatMessage {
	return s.append(models.ChatRoleUser, text)
}

// AppendAssistant records a reply (or fallback text) in the display log.
func (s *Session) AppendAssistant(text string) models.ChatMessage {
	return s.append(models.ChatRoleAssistant, text)
}

func (s *Session) append(role models.ChatRole, text string) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
	s.mu.Lock()
	s.log = append(s.log, msg)
	s.mu.Unlock()
	return msg
}

// PushTurn records one successful model exchange for inclusion in all
// subsequent sends. Failed sends are not pushed; the model never sees a
// turn it did not answer.
func (s *Session) PushTurn(prompt, reply string) {
	s.mu.Lock()
	s.turns = append(s.turns, Turn{Prompt: prompt, Reply: reply})
	s.mu.Unlock()
}

// History returns a copy of the completed turns in order.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// Log returns a copy of the display log in order.
func (s *Session) Log() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.log...)
}
