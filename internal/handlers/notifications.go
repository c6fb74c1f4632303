package handlers

import (
	"sort"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers/dto"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
)

const notificationTimeLayout = "02-01-2006 15:04"

// buildNotifications собирает ленту уведомлений пользователя:
// непрочитанные первыми, внутри каждой группы свежие выше
func buildNotifications(entries []repo.NotificationEntry) []dto.Notification {
	sorted := make([]repo.NotificationEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	sort.SliceStable(sorted, func(i, j int) bool {
		return !sorted[i].Read && sorted[j].Read
	})

	notifications := make([]dto.Notification, len(sorted))
	for i, entry := range sorted {
		notifications[i] = dto.Notification{
			Room:            entry.RoomID.String(),
			RoomDisplayName: entry.RoomDisplayName,
			Read:            entry.Read,
			Timestamp:       entry.Timestamp.Format(notificationTimeLayout),
			MessageCreator:  entry.MessageCreator,
		}
	}
	return notifications
}
