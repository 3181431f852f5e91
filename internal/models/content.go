// Package models defines the content record types served by the site.
package models

import "time"

// Teacher is one staff directory entry. The id is assigned by the
// spreadsheet backend and treated as an opaque string.
type Teacher struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Image string `json:"image"`
	NIP   string `json:"nip,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// NewsItem is one published news entry. Date is a display string in
// Indonesian long form, not a machine date. Image may be a YouTube link
// standing in for a thumbnail source.
type NewsItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Excerpt string `json:"excerpt"`
	Image   string `json:"image"`
}

// GalleryItem is one gallery photo or video entry.
type GalleryItem struct {
	ID       string `json:"id"`
	Image    string `json:"image"`
	Alt      string `json:"alt"`
	Category string `json:"category"`
}

// Collections bundles one snapshot of the three content collections as
// fetched from the spreadsheet backend.
type Collections struct {
	News     []NewsItem    `json:"news"`
	Gallery  []GalleryItem `json:"gallery"`
	Teachers []Teacher     `json:"teachers"`
}

// ChatRole is the sender of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn in the assistant conversation. The sequence is
// append-only and scoped to a single session; it is never persisted.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
