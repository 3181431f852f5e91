package chat

import (
	"fmt"
	"strings"

	"github.com/sdn3bangkuang/sekolahku/internal/models"
)

// maxDigestItems caps how many news and gallery entries enter the digest.
// The staff roster is always included in full so the assistant can answer
// about any teacher.
const maxDigestItems = 5

// Digest serializes the current collections into the grounding text block
// sent with every assistant request. It is pure and recomputed on every
// send, so the assistant always sees the content as of that moment.
// Collections are expected in presentation order (most recent first).
func Digest(teachers []models.Teacher, news []models.NewsItem, gallery []models.GalleryItem) string {
	var b strings.Builder

	b.WriteString("DAFTAR GURU & STAFF TERBARU (LENGKAP):\n")
	if len(teachers) == 0 {
		b.WriteString("Belum ada data guru.\n")
	}
	for _, t := range teachers {
		var details []string
		if t.Role != "" {
			details = append(details, t.Role)
		}
		if t.Phone != "" {
			details = append(details, "Kontak: "+t.Phone)
		}
		if t.NIP != "" {
			details = append(details, "NIP: "+t.NIP)
		}
		fmt.Fprintf(&b, "- %s [%s]\n", t.Name, strings.Join(details, " | "))
	}

	b.WriteString("\nBERITA TERBARU SEKOLAH:\n")
	if len(news) == 0 {
		b.WriteString("Belum ada berita.\n")
	}
	for _, n := range news[:min(maxDigestItems, len(news))] {
		fmt.Fprintf(&b, "- %s (Tanggal: %s)\n", n.Title, n.Date)
	}

	b.WriteString("\nGALERI KEGIATAN TERBARU:\n")
	if len(gallery) == 0 {
		b.WriteString("Belum ada dokumentasi.\n")
	}
	for _, g := range gallery[:min(maxDigestItems, len(gallery))] {
		fmt.Fprintf(&b, "- %s (Kategori: %s)\n", g.Alt, g.Category)
	}

	return strings.TrimSpace(b.String())
}
