package collab

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
)

// Room is one shared board and the connections editing it.
type Room struct {
	roomID   string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	doc      *DocumentState
	nextConn int
}

func NewRoom(roomID string, board *document.Board) *Room {
	return &Room{
		roomID:   roomID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		doc:      NewDocumentState(board),
	}
}

// Hub relays presence and operations between the clients of each room.
// It orders operations per room; it does not resolve conflicts.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // roomID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	maxLayers  int
}

func NewHub(maxLayers int) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		maxLayers:  maxLayers,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
			close(client.ready)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			return
		}
	}
}

// Stop ends Run.
func (h *Hub) Stop() {
	close(h.stop)
}

// Register attaches client to its room and returns once the client has
// its connection id. It reports false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		<-client.ready
		return true
	case <-h.stop:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// CreateRoom adds a room seeded with board. It reports false if the room
// already exists.
func (h *Hub) CreateRoom(roomID string, board *document.Board) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; ok {
		return false
	}
	h.rooms[roomID] = NewRoom(roomID, board)
	slog.Info("room created", "room", roomID)
	return true
}

// Document returns the board state of a room.
func (h *Hub) Document(roomID string) (*DocumentState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[roomID]
	if !ok {
		return nil, false
	}
	return room.doc, true
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		room = NewRoom(client.RoomID, nil)
		h.rooms[client.RoomID] = room
	}
	room.nextConn++
	client.ConnectionID = room.nextConn
	client.Color = geometry.ConnectionIDToColor(client.ConnectionID)
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	if welcome, err := NewMessage(TypeWelcome, WelcomePayload{
		ClientID:     client.ClientID,
		ConnectionID: client.ConnectionID,
		Color:        client.Color,
	}); err == nil {
		client.Send(welcome)
	}

	board, seq := room.doc.Snapshot()
	if syncMsg, err := NewMessage(TypeDocSync, DocSyncPayload{Board: board, ServerSeq: seq}); err == nil {
		client.Send(syncMsg)
	}

	// Send current presence state to new client
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	if joinMsg, err := NewMessage(TypePresenceJoin, PresenceJoinPayload{
		ConnectionID: client.ConnectionID,
		Color:        client.Color,
	}); err == nil {
		joinMsg.ConnectionID = client.ConnectionID
		h.broadcastToRoom(client.RoomID, joinMsg, client.ClientID)
	}

	slog.Info("client joined", "client", client.ClientID, "connection", client.ConnectionID, "room", client.RoomID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	room.presence.Remove(client.ConnectionID)
	h.mu.Unlock()

	// Broadcast leave to remaining clients
	if leaveMsg, err := NewMessage(TypePresenceLeave, PresenceLeavePayload{ConnectionID: client.ConnectionID}); err == nil {
		leaveMsg.ConnectionID = client.ConnectionID
		h.broadcastToRoom(client.RoomID, leaveMsg, "")
	}

	slog.Info("client left", "client", client.ClientID, "room", client.RoomID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		h.reject(sender, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		h.reject(sender, "invalid presence payload")
		return
	}

	presence.Color = sender.Color

	h.mu.RLock()
	room, ok := h.rooms[sender.RoomID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.ConnectionID, &presence)

	// Broadcast to other clients in room
	outMsg, err := NewMessage(TypePresenceUpdate, presence)
	if err != nil {
		return
	}
	outMsg.ConnectionID = sender.ConnectionID
	h.broadcastToRoom(sender.RoomID, outMsg, sender.ClientID)
}

// handleOpSubmit applies the operation to the room board, acks the sender
// and broadcasts it to everyone else in server sequence order.
func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		slog.Warn("invalid op payload", "error", err)
		h.reject(sender, "invalid op payload")
		return
	}
	op := submit.Operation

	// Check, apply and broadcast under the hub lock so every client sees
	// the same order and concurrent creates cannot pass the limit together.
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sender.RoomID]
	if !ok {
		return
	}

	if op.Type == OpLayerCreate && h.maxLayers > 0 {
		if _, exists := room.doc.Layer(op.LayerID); !exists && room.doc.Len() >= h.maxLayers {
			h.nack(sender, op.ID, "layer limit reached")
			return
		}
	}

	applied, seq, err := room.doc.apply(op)
	if err != nil {
		slog.Debug("operation rejected", "op", op.ID, "type", op.Type, "error", err)
		h.nack(sender, op.ID, err.Error())
		return
	}

	if ack, err := NewMessage(TypeOpAck, OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: GetServerTimestamp(),
	}); err == nil {
		ack.Seq = seq
		sender.Send(ack)
	}

	out, err := NewMessage(TypeOpBroadcast, OperationBroadcastPayload{
		Operation:    applied,
		ConnectionID: sender.ConnectionID,
		ServerSeq:    seq,
	})
	if err != nil {
		return
	}
	out.Seq = seq
	for _, c := range room.clients {
		if c.ClientID != sender.ClientID {
			c.Send(out)
		}
	}
}

func (h *Hub) nack(c *Client, opID, reason string) {
	if msg, err := NewMessage(TypeOpNack, OperationNackPayload{OperationID: opID, Reason: reason}); err == nil {
		c.Send(msg)
	}
}

// reject tells a client its message was dropped.
func (h *Hub) reject(c *Client, reason string) {
	if msg, err := NewMessage(TypeError, ErrorPayload{Message: reason}); err == nil {
		c.Send(msg)
	}
}

func (h *Hub) broadcastToRoom(roomID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
