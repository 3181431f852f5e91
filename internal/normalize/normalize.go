// Package normalize maps loosely-keyed spreadsheet rows into the fixed
// content shapes served by the site. Sheet columns are named by hand, in
// Indonesian or English, with arbitrary casing, so every row goes through
// a synonym table before it is decoded into a typed record.
//
// This is a best-effort mapper, not a validator: unknown keys pass through
// lowercased, malformed values degrade to empty fields, and nothing here
// ever returns an error.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Row is one raw record as decoded from the backend JSON.
type Row map[string]any

// fieldSynonyms maps every accepted column spelling to its canonical field.
// Order matters only for documentation; lookup is by case-normalized key.
var fieldSynonyms = []struct {
	canonical string
	keys      []string
}{
	{"image", []string{"image", "src", "foto", "gambar"}},
	{"name", []string{"name", "nama", "nama guru", "nama lengkap"}},
	{"role", []string{"role", "jabatan", "posisi"}},
	{"phone", []string{"phone", "hp", "no hp", "no. hp", "no_hp", "telp", "no telp", "wa", "whatsapp", "kontak"}},
	{"nip", []string{"nip", "nomor induk"}},
	{"category", []string{"category", "kategori"}},
	{"alt", []string{"alt", "keterangan", "deskripsi"}},
	{"date", []string{"date", "tanggal", "waktu"}},
	{"title", []string{"title", "judul"}},
	{"excerpt", []string{"excerpt", "isi"}},
	{"id", []string{"id"}},
}

var canonicalField = func() map[string]string {
	m := make(map[string]string)
	for _, s := range fieldSynonyms {
		for _, k := range s.keys {
			m[k] = s.canonical
		}
	}
	return m
}()

const thumbnailSize = "w1000"

// driveIDPattern matches the long opaque file id embedded in Drive share
// links. Real ids are well over 25 characters, which keeps the pattern from
// matching host or path segments.
var driveIDPattern = regexp.MustCompile(`[-\w]{25,}`)

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// CanonicalImageURL rewrites a recognized Google Drive image link into the
// direct thumbnail form that renders inside an <img> tag. Two source shapes
// are handled: the lh3.googleusercontent.com/d/<id> form produced by the
// upload script, and ordinary drive.google.com / docs.google.com share
// links. Anything else passes through unchanged. The rewrite is idempotent:
// applying it to its own output returns the same URL.
func CanonicalImageURL(raw string) string {
	if raw == "" {
		return raw
	}

	const lh3Marker = "lh3.googleusercontent.com/d/"
	if i := strings.Index(raw, lh3Marker); i >= 0 {
		rest := raw[i+len(lh3Marker):]
		id, _, _ := strings.Cut(rest, "/")
		if id != "" {
			return thumbnailURL(id)
		}
	}

	if strings.Contains(raw, "drive.google.com") || strings.Contains(raw, "docs.google.com") {
		if id := driveIDPattern.FindString(raw); id != "" {
			return thumbnailURL(id)
		}
	}

	return raw
}

func thumbnailURL(id string) string {
	return "https://drive.google.com/thumbnail?id=" + id + "&sz=" + thumbnailSize
}

// indonesianMonths holds display month names, January first.
var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatDisplayDate reformats an ISO-shaped date string into Indonesian
// long form ("14 Desember 2025"). Values that do not look like an ISO date,
// or that fail to parse, pass through unchanged.
func FormatDisplayDate(s string) string {
	if !strings.Contains(s, "T") && !isoDatePrefix.MatchString(s) {
		return s
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		v := s
		if layout == "2006-01-02" && len(v) > 10 {
			v = v[:10]
		}
		if t, err := time.Parse(layout, v); err == nil {
			return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
		}
	}
	return s
}

// looksLikeDriveURL reports whether a cell value is a Drive-hosted image
// link usable as an image fallback.
func looksLikeDriveURL(s string) bool {
	return strings.Contains(s, "drive.google.com") || strings.Contains(s, "lh3.googleusercontent.com")
}

// Apply normalizes a single raw row: keys are case-folded and mapped
// through the synonym table, image links are canonicalized, dates are
// reformatted, and the id is coerced to a string. When no column mapped to
// the image field, the first Drive link found anywhere in the row is used
// as a fallback image.
func Apply(row Row) Row {
	out := make(Row, len(row))

	fallbackImage := ""
	for _, v := range row {
		if s, ok := v.(string); ok && looksLikeDriveURL(s) {
			fallbackImage = s
		}
	}

	for k, v := range row {
		key := strings.ToLower(strings.TrimSpace(k))
		canonical, known := canonicalField[key]
		if !known {
			out[key] = v
			continue
		}
		switch canonical {
		case "image":
			if s, ok := v.(string); ok {
				out["image"] = CanonicalImageURL(s)
			} else {
				out["image"] = ""
			}
		case "date":
			if s, ok := v.(string); ok {
				out["date"] = FormatDisplayDate(s)
			} else {
				out["date"] = v
			}
		default:
			out[canonical] = v
		}
	}

	if img, _ := out["image"].(string); !strings.Contains(img, "http") && fallbackImage != "" {
		out["image"] = CanonicalImageURL(fallbackImage)
	}

	if id, ok := out["id"]; ok {
		out["id"] = stringify(id)
	}

	return out
}

// Rows applies Apply to every row in a collection.
func Rows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Apply(r)
	}
	return out
}

// stringify coerces a cell value to a string. JSON numbers arrive as
// float64; integral ones must not pick up a ".0" suffix.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// str returns the named field of a normalized row as a string.
func str(row Row, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}
