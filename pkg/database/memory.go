package database

import (
	"context"
	"sync"
)

// Memory is a Store kept in process memory. It is used when no MongoDB URI
// is configured.
type Memory struct {
	mu    sync.Mutex
	users map[int64]*UserDoc
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{users: make(map[int64]*UserDoc)}
}

func (m *Memory) user(userID int64) *UserDoc {
	user, ok := m.users[userID]
	if !ok {
		user = &UserDoc{UserID: userID}
		m.users[userID] = user
	}
	return user
}

func (m *Memory) AddUser(_ context.Context, userID int64, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, known := m.users[userID]
	m.user(userID).Name = name
	return !known, nil
}

func (m *Memory) Find(_ context.Context, userID int64) (*UserDoc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *Memory) TileHeight(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		return user.TileHeight, nil
	}
	return 0, nil
}

func (m *Memory) SetTileHeight(_ context.Context, userID int64, tileHeight int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).TileHeight = tileHeight
	return nil
}

func (m *Memory) IncrementGIFs(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).GIFsMade++
	return nil
}

func (m *Memory) UsersCount(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *Memory) Disconnect(context.Context) error {
	return nil
}
