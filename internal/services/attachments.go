package services

import (
	"fmt"
	"strings"

	"github.com/RympeR/blob-ai/internal/models"
)

// ResolveAttachments projects opaque attachment rows into typed absolute
// URLs. The base URL is passed in explicitly — no ambient host state.
func ResolveAttachments(baseURL string, attachments []models.Attachment) []models.ResolvedAttachment {
	resolved := make([]models.ResolvedAttachment, 0, len(attachments))
	for _, a := range attachments {
		if a.Key == "" {
			continue
		}
		resolved = append(resolved, models.ResolvedAttachment{
			FileType: a.FileType,
			FileURL:  mediaURL(baseURL, a.Key),
		})
	}
	return resolved
}

// RoomLogoURL resolves a room's display logo: its own logo if set, else the
// creator's avatar, else empty. Requires Creator to be loaded.
func RoomLogoURL(baseURL string, room *models.Room) string {
	if room.Logo != "" {
		return mediaURL(baseURL, room.Logo)
	}
	if room.Creator.Avatar != "" {
		return mediaURL(baseURL, room.Creator.Avatar)
	}
	return ""
}

func mediaURL(baseURL, key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), strings.TrimLeft(key, "/"))
}
