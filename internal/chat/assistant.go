// Package chat implements the school's virtual assistant: one lazily
// created conversation session grounded on the live content collections.
// Assistant failures are never fatal to the page; every failure mode maps
// to a fixed visitor-safe reply.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sdn3bangkuang/sekolahku/internal/models"
)

// systemInstruction is the fixed persona for the whole session. It is set
// once at session level, never repeated per message.
const systemInstruction = `PERAN DAN PERSONA:
Anda adalah Asisten Virtual Resmi dari SD Negeri 3 Bangkuang.
Posisikan diri Anda sebagai Humas Sekolah yang ramah, humanis, sopan, dan membantu.
Gaya bicara Anda harus seperti manusia yang sedang melayani tamu terhormat, bukan seperti robot.

INFORMASI DASAR SEKOLAH (Fakta Tetap):
- Nama Sekolah: SD Negeri 3 Bangkuang
- Alamat: Bangkuang RT 22 RW 08, Kabupaten Barito Selatan, Kalimantan Tengah
- Kepala Sekolah: Ibu Ria Frenica, S.Pd. (NIP: 19851124 201101 2 004)
- Visi: "Terwujudnya peserta didik yang beriman, cerdas, terampil, dan berkarakter Profil Pelajar Pancasila."
- Jam Belajar: Senin-Kamis (07.00-12.30), Jumat (07.00-11.00), Sabtu (07.00-12.00).
- Kontak Resmi: (0513) 555-1234 atau sdn3karaukuala25@gmail.com

ATURAN PENULISAN:
1. DILARANG MENGGUNAKAN MARKDOWN: jangan gunakan tanda bintang dua, tanda pagar, atau simbol formatting lain. Tulis teks biasa yang bersih.
2. Format nomor panjang (NIP atau HP) dengan tanda hubung agar mudah dibaca (contoh: 0812-3456-7890).
3. Gunakan sapaan "Bapak/Ibu" dan emoji secukupnya (😊, 🙏, 🏫).
4. Selalu cek [DATA TERBARU DARI DATABASE SEKOLAH]; jika data tidak ada, arahkan ke kontak kantor TU.`

// missingKeyReply is returned when no Gemini credential is configured.
// No network call is attempted in that state.
const missingKeyReply = `⚠️ Asisten belum aktif: kredensial Gemini tidak ditemukan.

SOLUSI UNTUK ADMIN:
Set environment variable GEMINI_API_KEY (atau GOOGLE_API_KEY / API_KEY) di server,
lalu restart layanan. Terima kasih. 🙏`

// fallbackReply is returned on any transport or model failure.
const fallbackReply = "Mohon maaf Bapak/Ibu, sistem sedang sibuk atau mengalami gangguan koneksi. " +
	"Silakan coba beberapa saat lagi. 🙏"

// emptyReply is returned when the model answers with no text at all.
const emptyReply = "Mohon maaf, saya sedang kesulitan memproses permintaan Anda. Boleh diulangi? 😊"

// Generator produces one model reply given the prior turns and the new
// composed prompt. The Gemini-backed implementation lives in gemini.go;
// tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, history []Turn, prompt string) (string, error)
}

// Assistant is the conversational front of the site. gen may be nil when
// no credential is available; the assistant then degrades to a fixed
// instructional reply without touching the network.
type Assistant struct {
	gen    Generator
	digest func() string
	logger *slog.Logger

	mu      sync.Mutex
	session *Session
}

// NewAssistant creates an assistant. digest is called on every send to
// rebuild the grounding block from the current collections.
func NewAssistant(gen Generator, digest func() string, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	if digest == nil {
		digest = func() string { return "" }
	}
	return &Assistant{gen: gen, digest: digest, logger: logger}
}

// Ready reports whether a model backend is configured.
func (a *Assistant) Ready() bool {
	return a.gen != nil
}

// Send submits one visitor question and returns the reply text. It never
// returns an error: missing credentials and model failures both map to
// fixed replies, and the visitor's message is logged before the model is
// consulted.
func (a *Assistant) Send(ctx context.Context, userText string) string {
	sess := a.ensureSession()
	sess.AppendUser(userText)

	if a.gen == nil {
		sess.AppendAssistant(missingKeyReply)
		return missingKeyReply
	}

	prompt := composePrompt(a.digest(), userText)
	reply, err := a.gen.Generate(ctx, sess.History(), prompt)
	if err != nil {
		a.logger.Error("chat: generate failed", slog.String("error", err.Error()))
		sess.AppendAssistant(fallbackReply)
		return fallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		reply = emptyReply
	}

	sess.PushTurn(prompt, reply)
	sess.AppendAssistant(reply)
	return reply
}

// Messages returns the display log of the current session, creating the
// session (with its welcome greeting) on first use.
func (a *Assistant) Messages() []models.ChatMessage {
	return a.ensureSession().Log()
}

func (a *Assistant) ensureSession() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		a.session = NewSession()
	}
	return a.session
}

// composePrompt wraps the visitor question with the delimited grounding
// block and the plain-prose formatting instruction.
func composePrompt(contextData, question string) string {
	return fmt.Sprintf(`[DATA TERBARU DARI DATABASE SEKOLAH]
%s
[AKHIR DATA]

Pertanyaan Pengguna: %q

Jawablah pertanyaan di atas dengan bahasa yang indah, sopan, dan TANPA tanda bintang (formatting bold).`,
		contextData, question)
}
