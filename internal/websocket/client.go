package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers/dto"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер команды
	maxMessageSize = 4096
)

// CommandHandler обрабатывает команды клиента; реализуется сессией
type CommandHandler interface {
	HandleCommand(client *Client, cmd *dto.Command)
}

type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	Groups   map[string]bool
	Hub      *Hub
	mu       sync.RWMutex

	// Выставляется под mu перед закрытием Send
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, username string) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Groups:   make(map[string]bool),
		Hub:      hub,
	}
}

// ReadPump читает команды от клиента
func (c *Client) ReadPump(handler CommandHandler) {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var cmd dto.Command
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if cmd.Command == "" {
			continue
		}

		handler.HandleCommand(c, &cmd)
	}
}

// WritePump отправляет события клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.WriteMessage(websocket.TextMessage, event)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent отправляет событие напрямую этому соединению
func (c *Client) SendEvent(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.trySend(data)
}

// trySend кладет событие в Send, если канал еще не закрыт.
// Команды выполняются в своих горутинах и могут завершиться после
// отключения клиента, поэтому отправка и закрытие канала
// сериализуются через mu.
func (c *Client) trySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// closeSend закрывает канал отправки; повторный вызов безопасен
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Deliver доставляет групповое событие этому соединению.
// Адресное refresh_display_name пропускается только владельцу:
// событие с username уходит через группу комнаты, но предназначено
// одному пользователю.
func (c *Client) Deliver(event *dto.Event) {
	if event.Type == dto.EventRefreshDisplayName && event.Username != "" &&
		event.Username != c.Username {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := c.trySend(data); err == ErrClientQueueFull {
		log.Printf("Client %s send channel full", c.ID)
	}
}

// Subscribed сообщает, подписан ли клиент на группу
func (c *Client) Subscribed(group string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Groups[group]
}
