package state

import "sync"

// Manager хранит сессии диалогов по идентификатору чата. Телеграм запускает
// обработчик каждого сообщения в отдельной горутине, поэтому два быстрых
// сообщения одного чата могут обрабатываться параллельно — сессия выдаётся
// только под пер-чатовым замком, который держится на всё время обработки
// одного сообщения.
type Manager struct {
	mu    sync.Mutex
	chats map[int64]*chat
}

type chat struct {
	mu      sync.Mutex
	session Session
}

// NewManager создаёт новый менеджер сессий
func NewManager() *Manager {
	return &Manager{
		chats: make(map[int64]*chat),
	}
}

func (m *Manager) chatFor(chatID int64) *chat {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.chats[chatID]
	if !ok {
		c = &chat{session: Session{Step: StepIdle}}
		m.chats[chatID] = c
	}
	return c
}

// Lock захватывает сессию чата на время обработки одного сообщения.
// Возвращённый указатель действителен до парного Unlock.
func (m *Manager) Lock(chatID int64) *Session {
	c := m.chatFor(chatID)
	c.mu.Lock()
	return &c.session
}

// Unlock освобождает сессию чата
func (m *Manager) Unlock(chatID int64) {
	m.chatFor(chatID).mu.Unlock()
}

// Get возвращает сессию чата без захвата замка — для просмотра состояния
// вне потока обработки сообщений
func (m *Manager) Get(chatID int64) *Session {
	return &m.chatFor(chatID).session
}

// Reset сбрасывает сессию чата в исходное состояние
func (m *Manager) Reset(chatID int64) {
	c := m.chatFor(chatID)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Reset()
}
