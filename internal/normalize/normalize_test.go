package normalize

import "testing"

func TestApplyMapsSynonymKeys(t *testing.T) {
	cases := []struct {
		name string
		in   Row
		key  string
		want string
	}{
		{"name exact", Row{"name": "Budi"}, "name", "Budi"},
		{"nama", Row{"nama": "Budi"}, "name", "Budi"},
		{"nama guru upper", Row{"NAMA GURU": "Budi"}, "name", "Budi"},
		{"nama lengkap padded", Row{"  Nama Lengkap  ": "Budi"}, "name", "Budi"},
		{"jabatan", Row{"Jabatan": "Guru Kelas 5"}, "role", "Guru Kelas 5"},
		{"posisi", Row{"posisi": "Kepala Sekolah"}, "role", "Kepala Sekolah"},
		{"no hp", Row{"No HP": "0812"}, "phone", "0812"},
		{"no. hp", Row{"no. hp": "0812"}, "phone", "0812"},
		{"whatsapp", Row{"WhatsApp": "0812"}, "phone", "0812"},
		{"kontak", Row{"kontak": "0812"}, "phone", "0812"},
		{"nomor induk", Row{"Nomor Induk": "1985"}, "nip", "1985"},
		{"kategori", Row{"Kategori": "Kegiatan"}, "category", "Kegiatan"},
		{"keterangan", Row{"Keterangan": "Upacara bendera"}, "alt", "Upacara bendera"},
		{"judul", Row{"Judul": "Lomba 17an"}, "title", "Lomba 17an"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(tc.in)
			if got[tc.key] != tc.want {
				t.Errorf("Apply(%v)[%q] = %v, want %q", tc.in, tc.key, got[tc.key], tc.want)
			}
		})
	}
}

func TestApplyGalleryRow(t *testing.T) {
	got := Apply(Row{"Keterangan": "Upacara bendera", "Kategori": "Kegiatan"})
	if got["alt"] != "Upacara bendera" {
		t.Errorf("alt = %v, want Upacara bendera", got["alt"])
	}
	if got["category"] != "Kegiatan" {
		t.Errorf("category = %v, want Kegiatan", got["category"])
	}
}

func TestApplyUnknownKeysPassThroughLowercased(t *testing.T) {
	got := Apply(Row{"Catatan Khusus": "penting"})
	if got["catatan khusus"] != "penting" {
		t.Errorf("unknown key not passed through: %v", got)
	}
	if _, ok := got["Catatan Khusus"]; ok {
		t.Error("original casing should not survive")
	}
}

func TestApplyCoercesIDToString(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want string
	}{
		{float64(17), "17"},
		{float64(17.5), "17.5"},
		{"abc", "abc"},
		{nil, ""},
	} {
		got := Apply(Row{"id": tc.in})
		if got["id"] != tc.want {
			t.Errorf("id %v → %v, want %q", tc.in, got["id"], tc.want)
		}
	}
}

func TestApplyFallbackImageFromAnyColumn(t *testing.T) {
	row := Row{
		"nama":     "Budi",
		"lampiran": "https://drive.google.com/file/d/1AbCdEfGhIjKlMnOpQrStUvWxYz12345/view",
	}
	got := Apply(row)
	want := "https://drive.google.com/thumbnail?id=1AbCdEfGhIjKlMnOpQrStUvWxYz12345&sz=w1000"
	if got["image"] != want {
		t.Errorf("fallback image = %v, want %v", got["image"], want)
	}
}

func TestApplyExplicitImageWinsOverFallback(t *testing.T) {
	row := Row{
		"foto":     "https://example.com/photo.jpg",
		"lampiran": "https://drive.google.com/file/d/1AbCdEfGhIjKlMnOpQrStUvWxYz12345/view",
	}
	got := Apply(row)
	if got["image"] != "https://example.com/photo.jpg" {
		t.Errorf("image = %v, want explicit value", got["image"])
	}
}

func TestCanonicalImageURL(t *testing.T) {
	const id = "1AbCdEfGhIjKlMnOpQrStUvWxYz12345"
	want := "https://drive.google.com/thumbnail?id=" + id + "&sz=w1000"

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"share link", "https://drive.google.com/file/d/" + id + "/view?usp=sharing", want},
		{"open link", "https://drive.google.com/open?id=" + id, want},
		{"docs link", "https://docs.google.com/uc?id=" + id, want},
		{"lh3 form", "https://lh3.googleusercontent.com/d/" + id + "/photo.jpg", want},
		{"lh3 short id", "https://lh3.googleusercontent.com/d/abc123", "https://drive.google.com/thumbnail?id=abc123&sz=w1000"},
		{"unrelated url", "https://example.com/a.png", "https://example.com/a.png"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanonicalImageURL(tc.in); got != tc.want {
				t.Errorf("CanonicalImageURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalImageURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://drive.google.com/file/d/1AbCdEfGhIjKlMnOpQrStUvWxYz12345/view",
		"https://lh3.googleusercontent.com/d/1AbCdEfGhIjKlMnOpQrStUvWxYz12345",
		"https://example.com/a.png",
	}
	for _, in := range inputs {
		once := CanonicalImageURL(in)
		twice := CanonicalImageURL(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestFormatDisplayDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-12-14", "14 Desember 2025"},
		{"2025-12-14T08:30:00Z", "14 Desember 2025"},
		{"2025-01-02T00:00:00.000Z", "2 Januari 2025"},
		{"2024-08-17T07:00:00", "17 Agustus 2024"},
		{"Senin, 14 Desember", "Senin, 14 Desember"},
		{"TBD", "TBD"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FormatDisplayDate(tc.in); got != tc.want {
			t.Errorf("FormatDisplayDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeTeachers(t *testing.T) {
	rows := []Row{
		{"ID": float64(3), "Nama Guru": "Ria Frenica", "Jabatan": "Kepala Sekolah", "NIP": "19851124", "No HP": "0813"},
	}
	got := Teachers(rows)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	tch := got[0]
	if tch.ID != "3" || tch.Name != "Ria Frenica" || tch.Role != "Kepala Sekolah" || tch.NIP != "19851124" || tch.Phone != "0813" {
		t.Errorf("decoded teacher = %+v", tch)
	}
}

func TestDecodeNewsFormatsDate(t *testing.T) {
	rows := []Row{{"id": "1", "Judul": "Lomba", "Tanggal": "2025-08-17", "excerpt": "..."}}
	got := News(rows)
	if got[0].Date != "17 Agustus 2025" {
		t.Errorf("date = %q", got[0].Date)
	}
	if got[0].Title != "Lomba" {
		t.Errorf("title = %q", got[0].Title)
	}
}

func TestDecodeMalformedRowsNeverPanic(t *testing.T) {
	rows := []Row{
		nil,
		{},
		{"id": map[string]any{"nested": true}},
		{"foto": 42, "tanggal": 20251214},
	}
	_ = Teachers(rows)
	_ = News(rows)
	_ = Gallery(rows)
}
