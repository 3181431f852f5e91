// Package media recognizes video-platform links that stand in for image
// sources in news and gallery entries.
package media

import "regexp"

// youtubePattern covers watch URLs, short youtu.be links, embeds, and
// shorts. The video id is always the 11-character token in group 2.
var youtubePattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=|shorts/)([^#&?]*).*`)

// YouTubeID extracts the video id from a YouTube URL in any of its common
// shapes. It returns "" when the URL is not a recognizable YouTube link.
func YouTubeID(url string) string {
	if url == "" {
		return ""
	}
	m := youtubePattern.FindStringSubmatch(url)
	if m == nil || len(m[2]) != 11 {
		return ""
	}
	return m[2]
}

// IsVideo reports whether the URL points at a YouTube video rather than a
// plain image.
func IsVideo(url string) bool {
	return YouTubeID(url) != ""
}

// ThumbnailURL returns the YouTube-hosted preview image for a video URL,
// or "" when the URL is not a YouTube link.
func ThumbnailURL(url string) string {
	id := YouTubeID(url)
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}
