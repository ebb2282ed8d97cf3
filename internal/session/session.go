// Package session хранит состояние экранов пользователя: вкладку, фильтры и
// контекст запросов, который отменяется при уходе с экрана.
package session

import (
	"context"
	"sync"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/listing"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/models"
)

type Name string // Идентификатор экрана

const (
	BuyerRFQs    Name = "buyer_rfqs"
	SellerRFQs   Name = "seller_rfqs"
	Offers       Name = "offers"
	Orders       Name = "orders"
	Products     Name = "products"
	Documents    Name = "documents"
	SellerReport Name = "seller_dashboard"
)

// State - сохранённое состояние экрана.
type State struct {
	Tab    string         `json:"tab"`
	Filter listing.Filter `json:"filter"`
}

// Session - состояние одного пользователя между переходами по экранам.
type Session struct {
	mu      sync.Mutex
	party   models.Party
	states  map[Name]State
	current *Screen
}

// Screen - посещение экрана. Его контекст живёт, пока пользователь на экране.
type Screen struct {
	Name    Name
	session *Session
	ctx     context.Context
	cancel  context.CancelFunc
}

// New создаёт сессию участника.
func New(party models.Party) *Session {
	return &Session{party: party, states: make(map[Name]State)}
}

// Party возвращает участника сессии.
func (s *Session) Party() models.Party {
	return s.party
}

// Enter открывает экран и отменяет запросы предыдущего.
func (s *Session) Enter(parent context.Context, name Name) *Screen {
	ctx, cancel := context.WithCancel(parent)
	sc := &Screen{Name: name, session: s, ctx: ctx, cancel: cancel}

	s.mu.Lock()
	prev := s.current
	s.current = sc
	s.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
	return sc
}

// Leave закрывает текущий экран.
func (s *Session) Leave() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
}

// Current возвращает имя открытого экрана или пустую строку.
func (s *Session) Current() Name {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Name
}

// State возвращает сохранённое состояние экрана.
func (s *Session) State(name Name) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[name]
}

// SetTab запоминает активную вкладку экрана.
func (s *Session) SetTab(name Name, tab string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[name]
	st.Tab = tab
	s.states[name] = st
}

// SetFilter запоминает фильтры экрана.
func (s *Session) SetFilter(name Name, f listing.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[name]
	st.Filter = f
	s.states[name] = st
}

// Context возвращает контекст запросов экрана.
func (sc *Screen) Context() context.Context {
	return sc.ctx
}

// Active сообщает, что пользователь всё ещё на этом экране.
func (sc *Screen) Active() bool {
	sc.session.mu.Lock()
	defer sc.session.mu.Unlock()
	return sc.session.current == sc && sc.ctx.Err() == nil
}

// Deliver применяет результат запроса, только если экран ещё открыт.
// Результаты, пришедшие после перехода, отбрасываются.
func (sc *Screen) Deliver(apply func()) bool {
	sc.session.mu.Lock()
	defer sc.session.mu.Unlock()
	if sc.session.current != sc || sc.ctx.Err() != nil {
		return false
	}
	apply()
	return true
}
