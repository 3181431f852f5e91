package normalize

import "github.com/sdn3bangkuang/sekolahku/internal/models"

// Teachers normalizes raw rows and decodes them as staff records.
// Rows with a missing name or role still decode; the frontend renders a
// placeholder for empty fields rather than dropping the entry.
func Teachers(rows []Row) []models.Teacher {
	out := make([]models.Teacher, 0, len(rows))
	for _, r := range rows {
		n := Apply(r)
		out = append(out, models.Teacher{
			ID:    str(n, "id"),
			Name:  str(n, "name"),
			Role:  str(n, "role"),
			Image: str(n, "image"),
			NIP:   str(n, "nip"),
			Phone: str(n, "phone"),
		})
	}
	return out
}

// News normalizes raw rows and decodes them as news items.
func News(rows []Row) []models.NewsItem {
	out := make([]models.NewsItem, 0, len(rows))
	for _, r := range rows {
		n := Apply(r)
		out = append(out, models.NewsItem{
			ID:      str(n, "id"),
			Title:   str(n, "title"),
			Date:    str(n, "date"),
			Excerpt: str(n, "excerpt"),
			Image:   str(n, "image"),
		})
	}
	return out
}

// Gallery normalizes raw rows and decodes them as gallery items.
func Gallery(rows []Row) []models.GalleryItem {
	out := make([]models.GalleryItem, 0, len(rows))
	for _, r := range rows {
		n := Apply(r)
		out = append(out, models.GalleryItem{
			ID:       str(n, "id"),
			Image:    str(n, "image"),
			Alt:      str(n, "alt"),
			Category: str(n, "category"),
		})
	}
	return out
}
