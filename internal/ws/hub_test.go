package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient создаёт клиента без реального соединения:
// тесты читают события напрямую из канала send.
func testClient(hub *Hub, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, 16),
	}
}

func receiveEvent(t *testing.T, client *Client) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-client.send:
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &payload))
		return payload
	case <-time.After(time.Second):
		t.Fatal("не дождались события от хаба")
		return nil
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case raw := <-client.send:
		t.Fatalf("неожиданное событие: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastToRegisteredUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(ctx)
	go hub.Run()

	userID := uuid.New()
	client := testClient(hub, userID)
	hub.Register(client)

	err := hub.BroadcastToUser(userID, "new_bid", map[string]interface{}{
		"gig_title": "Лендинг",
	})
	require.NoError(t, err)

	payload := receiveEvent(t, client)
	assert.Equal(t, "new_bid", payload["type"])

	data, ok := payload["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Лендинг", data["gig_title"])
}

func TestHub_BroadcastToUnknownUserIsNoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(ctx)
	go hub.Run()

	userID := uuid.New()
	client := testClient(hub, userID)
	hub.Register(client)

	// Событие адресовано другому пользователю.
	err := hub.BroadcastToUser(uuid.New(), "hired", map[string]interface{}{"gig_id": uuid.New()})
	require.NoError(t, err)

	assertNoEvent(t, client)
}

func TestHub_MultipleConnectionsSameUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(ctx)
	go hub.Run()

	userID := uuid.New()
	first := testClient(hub, userID)
	second := testClient(hub, userID)
	hub.Register(first)
	hub.Register(second)

	require.NoError(t, hub.BroadcastToUser(userID, "hired", map[string]interface{}{"message": "Вас выбрали"}))

	// Каждое соединение пользователя получает копию события.
	firstPayload := receiveEvent(t, first)
	secondPayload := receiveEvent(t, second)
	assert.Equal(t, "hired", firstPayload["type"])
	assert.Equal(t, "hired", secondPayload["type"])
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(ctx)
	go hub.Run()

	userID := uuid.New()
	client := testClient(hub, userID)
	hub.Register(client)
	hub.Unregister(client)

	require.NoError(t, hub.BroadcastToUser(userID, "new_bid", nil))
	assertNoEvent(t, client)
}

type recordingSaver struct {
	saved chan savedNotification
}

type savedNotification struct {
	userID uuid.UUID
	event  string
}

func (s *recordingSaver) CreateNotification(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	s.saved <- savedNotification{userID: userID, event: event}
	return nil
}

func TestHub_BroadcastPersistsNotification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(ctx)
	saver := &recordingSaver{saved: make(chan savedNotification, 1)}
	hub.SetNotificationSaver(saver)
	go hub.Run()

	userID := uuid.New()
	require.NoError(t, hub.BroadcastToUser(userID, "hired", map[string]interface{}{"gig_id": uuid.New()}))

	// Уведомление сохраняется даже без живых соединений.
	select {
	case saved := <-saver.saved:
		assert.Equal(t, userID, saved.userID)
		assert.Equal(t, "hired", saved.event)
	case <-time.After(time.Second):
		t.Fatal("уведомление не было сохранено")
	}
}
