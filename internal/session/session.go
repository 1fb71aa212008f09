package session

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// AdminPassword - фиксированный пароль режима администратора.
// Это переключатель интерфейса, а не защита: пароль не настраивается и не хешируется.
const AdminPassword = "admin123"

// ErrInvalidPassword - введенный пароль не совпал с AdminPassword.
var ErrInvalidPassword = errors.New("incorrect password")

// Preview - сгенерированное изображение, ожидающее сохранения или отмены.
type Preview struct {
	ImageURL string
	Prompt   string
}

// State - снимок состояния одной сессии браузера.
type State struct {
	Admin      bool
	Preview    *Preview
	Generating bool
}

// Manager хранит состояние сессий в памяти процесса.
// Сессия вытесняется после idleTTL без обращений.
type Manager struct {
	mu     sync.Mutex
	cache  *cache.Cache
	logger *zap.Logger
}

// NewManager создает менеджер сессий.
func NewManager(idleTTL time.Duration, logger *zap.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = 24 * time.Hour
	}
	cleanup := idleTTL / 2
	if cleanup > time.Hour {
		cleanup = time.Hour
	}
	return &Manager{
		cache:  cache.New(idleTTL, cleanup),
		logger: logger.Named("SessionManager"),
	}
}

// NewID возвращает новый идентификатор сессии.
func NewID() string {
	return uuid.NewString()
}

// Login переводит сессию в режим администратора при точном совпадении пароля.
func (m *Manager) Login(id, password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(AdminPassword)) != 1 {
		m.logger.Info("Admin login rejected", zap.String("session_id", id))
		return ErrInvalidPassword
	}
	m.update(id, func(s *State) { s.Admin = true })
	m.logger.Info("Admin mode activated", zap.String("session_id", id))
	return nil
}

// Logout всегда возвращает сессию в анонимный режим.
func (m *Manager) Logout(id string) {
	m.update(id, func(s *State) { s.Admin = false })
	m.logger.Info("Admin mode deactivated", zap.String("session_id", id))
}

// IsAdmin сообщает, находится ли сессия в режиме администратора.
func (m *Manager) IsAdmin(id string) bool {
	return m.Snapshot(id).Admin
}

// SetPreview запоминает результат генерации, заменяя предыдущий.
func (m *Manager) SetPreview(id string, p Preview) {
	m.update(id, func(s *State) { s.Preview = &p })
}

// Preview возвращает ожидающий результат генерации, если он есть.
func (m *Manager) Preview(id string) (Preview, bool) {
	st := m.Snapshot(id)
	if st.Preview == nil {
		return Preview{}, false
	}
	return *st.Preview, true
}

// ClearPreview сбрасывает ожидающий результат.
func (m *Manager) ClearPreview(id string) {
	m.update(id, func(s *State) { s.Preview = nil })
}

// BeginGeneration помечает сессию как ожидающую генерацию.
// Возвращает false, если предыдущая генерация еще не завершилась.
func (m *Manager) BeginGeneration(id string) bool {
	started := false
	m.update(id, func(s *State) {
		if !s.Generating {
			s.Generating = true
			started = true
		}
	})
	return started
}

// EndGeneration снимает отметку о генерации.
func (m *Manager) EndGeneration(id string) {
	m.update(id, func(s *State) { s.Generating = false })
}

// Snapshot возвращает копию состояния сессии. Неизвестная сессия анонимна.
func (m *Manager) Snapshot(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.load(id)
	if st == nil {
		return State{}
	}
	// Продлеваем срок жизни при каждом обращении
	m.cache.SetDefault(id, st)

	out := *st
	if st.Preview != nil {
		p := *st.Preview
		out.Preview = &p
	}
	return out
}

// Count возвращает число живых сессий.
func (m *Manager) Count() int {
	return m.cache.ItemCount()
}

func (m *Manager) update(id string, fn func(*State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.load(id)
	if st == nil {
		st = &State{}
	}
	fn(st)
	m.cache.SetDefault(id, st)
}

func (m *Manager) load(id string) *State {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil
	}
	st, _ := v.(*State)
	return st
}
