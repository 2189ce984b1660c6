package collab

import (
	"log/slog"
	"maps"
	"sync"
)

type PresenceManager struct {
	mu        sync.RWMutex
	presences map[int]*PresencePayload // connectionID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[int]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(connectionID int, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[connectionID] = p
}

func (pm *PresenceManager) Remove(connectionID int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, connectionID)
}

func (pm *PresenceManager) GetAll() map[int]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return maps.Clone(pm.presences)
}

func (pm *PresenceManager) StateMessage() *Message {
	msg, err := NewMessage(TypePresenceState, PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return msg
}
