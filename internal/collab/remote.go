package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"

	"github.com/inamate/board/engine-go/internal/document"
)

const remoteQueueSize = 256

// RemoteBridge sends engine requests to a relay over a websocket. Every
// request is applied to the local mirror first and then queued; a single
// writer goroutine drains the queue so the relay sees requests in the
// order they were made. A request the relay rejects is rolled back on
// the mirror.
type RemoteBridge struct {
	conn *websocket.Conn
	doc  *DocumentState
	log  *slog.Logger

	out       chan []byte
	clientSeq atomic.Int64
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}

	mu           sync.Mutex
	selection    []string
	connectionID int
	pending      map[string]Operation // applied ops awaiting ack, by op id

	// OnMessage sees every message read by Run, after the mirror has
	// been updated.
	OnMessage func(msg *Message)
}

// DialRemote connects to a relay room, e.g. ws://host/ws/rooms/{id}.
func DialRemote(ctx context.Context, url string, doc *DocumentState, logger *slog.Logger) (*RemoteBridge, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewRemoteBridge(conn, doc, logger), nil
}

// NewRemoteBridge takes ownership of conn and starts the writer.
func NewRemoteBridge(conn *websocket.Conn, doc *DocumentState, logger *slog.Logger) *RemoteBridge {
	if logger == nil {
		logger = slog.Default()
	}
	if doc == nil {
		doc = NewDocumentState(nil)
	}
	conn.SetReadLimit(maxMsgSize)

	ctx, cancel := context.WithCancel(context.Background())
	b := &RemoteBridge{
		conn:      conn,
		doc:       doc,
		log:       logger,
		out:       make(chan []byte, remoteQueueSize),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		selection: []string{},
		pending:   make(map[string]Operation),
	}
	go b.writePump()
	return b
}

// Document is the local mirror of the room board.
func (b *RemoteBridge) Document() *DocumentState {
	return b.doc
}

func (b *RemoteBridge) Selection() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.selection)
}

// ConnectionID is the id the relay assigned, 0 before the welcome.
func (b *RemoteBridge) ConnectionID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connectionID
}

// SetPresence publishes the selection. The relay keeps no history, so
// addToHistory is ignored.
func (b *RemoteBridge) SetPresence(selection []string, _ bool) {
	b.mu.Lock()
	b.selection = slices.Clone(selection)
	b.mu.Unlock()

	b.enqueue(TypePresenceUpdate, PresencePayload{Selection: slices.Clone(selection)})
}

func (b *RemoteBridge) CreateLayer(id string, layer document.Layer) {
	b.submit(NewCreateOperation(id, layer))
}

func (b *RemoteBridge) UpdateLayerBounds(id string, bounds document.XYWH) {
	b.submit(NewBoundsOperation(id, bounds))
}

func (b *RemoteBridge) DeleteLayer(id string) {
	b.submit(NewDeleteOperation(id))
}

func (b *RemoteBridge) submit(op Operation) {
	applied, _, err := b.doc.apply(op)
	if err != nil {
		b.log.Warn("dropping operation", "op", op.Type, "layer", op.LayerID, "error", err)
		return
	}
	op.ClientSeq = b.clientSeq.Add(1)

	b.mu.Lock()
	b.pending[op.ID] = applied
	b.mu.Unlock()

	b.enqueue(TypeOpSubmit, OperationSubmitPayload{Operation: op})
}

// Pending returns how many submitted operations the relay has not yet
// acknowledged or rejected.
func (b *RemoteBridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// rollback undoes a rejected operation on the mirror.
func (b *RemoteBridge) rollback(opID, reason string) {
	b.mu.Lock()
	applied, ok := b.pending[opID]
	delete(b.pending, opID)
	b.mu.Unlock()
	if !ok {
		b.log.Warn("operation rejected", "op", opID, "reason", reason)
		return
	}

	b.log.Warn("operation rejected, rolling back", "op", opID, "type", applied.Type, "layer", applied.LayerID, "reason", reason)
	inv, err := Inverse(applied)
	if err != nil {
		b.log.Error("rollback", "op", opID, "error", err)
		return
	}
	if _, _, err := b.doc.apply(inv); err != nil {
		b.log.Debug("rollback not applied", "op", opID, "error", err)
	}
}

// enqueue blocks while the queue is full so no request is reordered or
// lost; it gives up once the bridge is closed.
func (b *RemoteBridge) enqueue(typ string, payload any) {
	msg, err := NewMessage(typ, payload)
	if err != nil {
		b.log.Error("marshal message", "type", typ, "error", err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error("marshal message", "type", typ, "error", err)
		return
	}

	select {
	case b.out <- data:
	case <-b.ctx.Done():
		b.log.Debug("bridge closed, dropping message", "type", typ)
	}
}

func (b *RemoteBridge) writePump() {
	defer close(b.done)

	for {
		select {
		case data := <-b.out:
			writeCtx, cancel := context.WithTimeout(b.ctx, writeWait)
			err := b.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				b.log.Debug("write error", "error", err)
				b.cancel()
				return
			}
		case <-b.ctx.Done():
			return
		}
	}
}

// Run reads relay messages into the mirror until ctx is done or the
// connection drops.
func (b *RemoteBridge) Run(ctx context.Context) error {
	for {
		_, data, err := b.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			b.log.Warn("invalid message", "error", err)
			continue
		}
		b.handle(&msg)
		if b.OnMessage != nil {
			b.OnMessage(&msg)
		}
	}
}

func (b *RemoteBridge) handle(msg *Message) {
	switch msg.Type {
	case TypeWelcome:
		var p WelcomePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			b.log.Warn("invalid welcome", "error", err)
			return
		}
		b.mu.Lock()
		b.connectionID = p.ConnectionID
		b.mu.Unlock()
	case TypeDocSync:
		var p DocSyncPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Board == nil {
			b.log.Warn("invalid doc sync", "error", err)
			return
		}
		b.doc.Reset(p.Board, p.ServerSeq)
		b.mu.Lock()
		clear(b.pending)
		b.mu.Unlock()
	case TypeOpAck:
		var p OperationAckPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			b.log.Warn("invalid ack", "error", err)
			return
		}
		b.mu.Lock()
		delete(b.pending, p.OperationID)
		b.mu.Unlock()
	case TypeOpBroadcast:
		var p OperationBroadcastPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			b.log.Warn("invalid broadcast", "error", err)
			return
		}
		if _, _, err := b.doc.apply(p.Operation); err != nil {
			b.log.Debug("remote operation not applied", "op", p.Operation.ID, "error", err)
		}
	case TypeOpNack:
		var p OperationNackPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			b.log.Warn("invalid nack", "error", err)
			return
		}
		b.rollback(p.OperationID, p.Reason)
	case TypeError:
		var p ErrorPayload
		if err := json.Unmarshal(msg.Payload, &p); err == nil {
			b.log.Warn("relay error", "message", p.Message)
		}
	}
}

// Close stops the writer and closes the connection. Queued messages not
// yet written are dropped.
func (b *RemoteBridge) Close() error {
	b.cancel()
	<-b.done
	return b.conn.Close(websocket.StatusNormalClosure, "")
}
