package handlers

import (
	"log"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers/dto"
	ws "github.com/KnowYourLines/blabhear-backend-archive-3/internal/websocket"
)

// sendEvent отправляет событие одному соединению. Отказ не фатален:
// соединение могло закрыться, пока команда выполнялась
func sendEvent(client *ws.Client, event *dto.Event) {
	if err := client.SendEvent(event); err != nil {
		log.Printf("send %s to client %s failed: %v", event.Type, client.ID, err)
	}
}
