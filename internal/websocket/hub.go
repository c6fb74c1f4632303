package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/handlers/dto"
)

// Hub шина групповой рассылки. Группа именуется непрозрачной строкой:
// id комнаты или username для персональной ленты. Доставка только
// текущим подписчикам, без сохранения недоставленных событий.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Подписчики по имени группы
	groups map[string]map[uuid.UUID]*Client

	// Каналы для регистрации/отмены регистрации
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		groups:     make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.closeSend()
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	log.Printf("Client registered: %s (User: %s)", client.ID, client.Username)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		for group := range client.Groups {
			h.removeFromGroupUnsafe(client, group)
		}

		delete(h.clients, client.ID)
		client.closeSend()

		log.Printf("Client unregistered: %s (User: %s)", client.ID, client.Username)
	}
}

// Subscribe подписывает клиента на группу
func (h *Hub) Subscribe(client *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.groups[group]; !ok {
		h.groups[group] = make(map[uuid.UUID]*Client)
	}

	h.groups[group][client.ID] = client
	client.mu.Lock()
	client.Groups[group] = true
	client.mu.Unlock()
}

// Unsubscribe отписывает клиента от группы
func (h *Hub) Unsubscribe(client *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromGroupUnsafe(client, group)
}

func (h *Hub) removeFromGroupUnsafe(client *Client, group string) {
	if subscribers, ok := h.groups[group]; ok {
		if _, ok := subscribers[client.ID]; ok {
			delete(subscribers, client.ID)
			client.mu.Lock()
			delete(client.Groups, group)
			client.mu.Unlock()

			if len(subscribers) == 0 {
				delete(h.groups, group)
			}
		}
	}
}

// Publish рассылает событие всем текущим подписчикам группы
func (h *Hub) Publish(group string, event *dto.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.groups[group] {
		client.Deliver(event)
	}
}
