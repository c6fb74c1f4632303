package handlers

import (
	"github.com/google/uuid"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
)

// userAllowed решает, что сессия может видеть состояние комнаты.
// Вычисляется заново при каждом вызове: приватность и состав участников
// меняются конкурентно из других сессий, кэшировать ответ нельзя.
// Несозданная комната считается публичной без участников.
func userAllowed(gateway repo.Gateway, userID, roomID uuid.UUID) (bool, error) {
	room, exists, err := gateway.GetRoom(roomID)
	if err != nil {
		return false, err
	}
	if !exists || !room.Private {
		return true, nil
	}
	for _, member := range room.Members {
		if member.ID == userID {
			return true, nil
		}
	}
	return false, nil
}
