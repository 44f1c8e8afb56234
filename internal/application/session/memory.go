package session

import "sync"

// MemoryCredentials credencial en memoria, para tests y herramientas.
type MemoryCredentials struct {
	mu    sync.Mutex
	token string
	saves int
}

func (m *MemoryCredentials) Load() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *MemoryCredentials) Save(token string) {
	m.mu.Lock()
	m.token = token
	m.saves++
	m.mu.Unlock()
}

func (m *MemoryCredentials) Clear() {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
}

// Saves cantidad de escrituras de la credencial.
func (m *MemoryCredentials) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
