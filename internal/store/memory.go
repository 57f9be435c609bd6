// Package store — memory.go: хранилище в памяти процесса.
// Подходит для разработки и тестов, данные теряются при перезапуске.
package store

import (
	"context"
	"slices"
	"sync"
)

// Memory — хранилище в памяти с мьютексом на пользователя.
type Memory struct {
	// mu защищает users и locks
	mu    sync.Mutex
	users map[string]map[string][]byte
	// locks сериализуют транзакции пользователя
	locks map[string]*sync.Mutex
}

// NewMemory создаёт пустое хранилище.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]map[string][]byte),
		locks: make(map[string]*sync.Mutex),
	}
}

// userLock возвращает мьютекс пользователя. Мьютексы не удаляются:
// карта растёт на одну запись на каждого пользователя, для dev и тестов это допустимо.
func (m *Memory) userLock(userID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	return l
}

// Transact выполняет fn под мьютексом пользователя. Записи буферизуются
// и применяются только при успешном fn.
func (m *Memory) Transact(ctx context.Context, userID string, fn func(Tx) error) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	l := m.userLock(userID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryTx{m: m, userID: userID, writes: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	records := m.users[userID]
	if records == nil {
		records = make(map[string][]byte)
		m.users[userID] = records
	}
	for k, v := range tx.writes {
		if v == nil {
			delete(records, k)
			continue
		}
		records[k] = v
	}
	return nil
}

// UserIDs возвращает отсортированный список пользователей.
func (m *Memory) UserIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.users))
	for id, records := range m.users {
		if len(records) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

type memoryTx struct {
	m      *Memory
	userID string
	writes map[string][]byte // nil-значение — удаление
}

func (t *memoryTx) Get(_ context.Context, key string) ([]byte, bool, error) {
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil, false, nil
		}
		return slices.Clone(v), true, nil
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	v, ok := t.m.users[t.userID][key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (t *memoryTx) Set(_ context.Context, key string, value []byte) error {
	t.writes[key] = append(make([]byte, 0, len(value)), value...)
	return nil
}

func (t *memoryTx) Delete(_ context.Context, key string) error {
	t.writes[key] = nil
	return nil
}
