package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers/dto"
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"
	ws "github.com/KnowYourLines/blabhear-backend-archive-3/internal/websocket"
)

type stubSigner struct{}

func (stubSigner) SignUpload(object string) (string, error) {
	return "https://storage.test/upload/" + object, nil
}

func (stubSigner) SignDownload(object string) (string, error) {
	return "https://storage.test/download/" + object, nil
}

func (stubSigner) SignDelete(object string) (string, error) {
	return "https://storage.test/delete/" + object, nil
}

func newTestUser(t *testing.T, gateway *memoryGateway, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	if err := gateway.SaveUser(user); err != nil {
		t.Fatalf("save user %s: %v", username, err)
	}
	return user
}

// Pump-горутины не запускаются: события читаются прямо из Send
func newTestClient(hub *ws.Hub, user *models.User) *ws.Client {
	return ws.NewClient(hub, nil, user.ID, user.Username)
}

func nextEvent(t *testing.T, client *ws.Client) dto.Event {
	t.Helper()
	select {
	case data := <-client.Send:
		var event dto.Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return dto.Event{}
}

func expectEvent(t *testing.T, client *ws.Client, eventType string) dto.Event {
	t.Helper()
	event := nextEvent(t, client)
	if event.Type != eventType {
		t.Fatalf("expected event %q, got %q", eventType, event.Type)
	}
	return event
}

// expectNoEvent убеждается, что клиенту ничего не пришло
func expectNoEvent(t *testing.T, client *ws.Client) {
	t.Helper()
	select {
	case data := <-client.Send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}
