package services

import (
	"log"
	"sync"
	"time"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
)

// ConversationState is the position of a user inside the conversation flow
type ConversationState string

const (
	StateInitial                ConversationState = "INICIO"
	StateAwaitingAction         ConversationState = "AGUARDANDO_ACAO"
	StateAwaitingBookingDetails ConversationState = "AGUARDANDO_RESERVA"
	StateAwaitingReservationID  ConversationState = "AGUARDANDO_NUMERO_RESERVA"
	StateAwaitingCancelID       ConversationState = "AGUARDANDO_CANCELAMENTO"
	StateAwaitingPaymentID      ConversationState = "AGUARDANDO_PAGAMENTO"
	StateSupportActive          ConversationState = "SUPORTE_ATIVO"
	StateConfirmation           ConversationState = "CONFIRMACAO"
	StatePostBookingMenu        ConversationState = "MENU_POS_RESERVA"
)

// knownStates guards against corrupted session state values
var knownStates = map[ConversationState]bool{
	StateInitial:                true,
	StateAwaitingAction:         true,
	StateAwaitingBookingDetails: true,
	StateAwaitingReservationID:  true,
	StateAwaitingCancelID:       true,
	StateAwaitingPaymentID:      true,
	StateSupportActive:          true,
	StateConfirmation:           true,
	StatePostBookingMenu:        true,
}

// Session carries the per-phone conversational state between messages
type Session struct {
	Phone        string               `json:"phone"`
	State        ConversationState    `json:"state"`
	FirstContact bool                 `json:"first_contact"`
	LastActivity time.Time            `json:"last_activity"`
	Draft        *models.BookingDraft `json:"draft,omitempty"`
}

// Reset returns the session to the initial state, dropping any draft
func (s *Session) Reset() {
	s.State = StateInitial
	s.Draft = nil
}

// lockedSession pairs a session with its own mutex so concurrent messages
// from the same phone serialize while different phones proceed in parallel.
type lockedSession struct {
	mu      sync.Mutex
	session Session
}

// SessionManager owns the session map and its eviction sweep
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*lockedSession

	evictAfter    time.Duration
	sweepInterval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

const (
	defaultEvictAfter    = 2 * time.Hour
	defaultSweepInterval = 5 * time.Minute
)

// NewSessionManager creates a session manager and starts its cleanup sweep
func NewSessionManager() *SessionManager {
	sm := &SessionManager{
		sessions:      make(map[string]*lockedSession),
		evictAfter:    defaultEvictAfter,
		sweepInterval: defaultSweepInterval,
		stop:          make(chan struct{}),
	}

	go sm.sweepLoop()

	return sm
}

// WithSession runs fn with exclusive access to the phone's session, creating
// a fresh one on first contact. The per-session lock is held for the whole
// read-modify-write, which is the serialization the transition logic needs.
func (sm *SessionManager) WithSession(phone string, fn func(s *Session) string) string {
	sm.mu.Lock()
	entry, exists := sm.sessions[phone]
	if !exists {
		entry = &lockedSession{
			session: Session{
				Phone:        phone,
				State:        StateInitial,
				FirstContact: true,
				LastActivity: time.Now(),
			},
		}
		sm.sessions[phone] = entry
	}
	sm.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(&entry.session)
}

// Peek returns a copy of the session, if one exists (monitoring only)
func (sm *SessionManager) Peek(phone string) (Session, bool) {
	sm.mu.Lock()
	entry, exists := sm.sessions[phone]
	sm.mu.Unlock()
	if !exists {
		return Session{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session, true
}

// Count returns the number of tracked sessions
func (sm *SessionManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// Snapshot returns copies of all tracked sessions (monitoring only)
func (sm *SessionManager) Snapshot() []Session {
	sm.mu.Lock()
	entries := make([]*lockedSession, 0, len(sm.sessions))
	for _, entry := range sm.sessions {
		entries = append(entries, entry)
	}
	sm.mu.Unlock()

	sessions := make([]Session, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		sessions = append(sessions, entry.session)
		entry.mu.Unlock()
	}
	return sessions
}

// Stop halts the cleanup sweep (call on shutdown)
func (sm *SessionManager) Stop() {
	sm.stopOnce.Do(func() { close(sm.stop) })
}

func (sm *SessionManager) sweepLoop() {
	ticker := time.NewTicker(sm.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			evicted := sm.sweep(time.Now())
			if evicted > 0 {
				log.Printf("🧹 Session sweep evicted %d idle sessions", evicted)
			}
		case <-sm.stop:
			return
		}
	}
}

// sweep evicts sessions idle longer than evictAfter. An in-flight turn that
// still holds the entry pointer finishes on its private copy; last write
// wins, which is acceptable for an idle-for-hours session.
func (sm *SessionManager) sweep(now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	evicted := 0
	for phone, entry := range sm.sessions {
		if !entry.mu.TryLock() {
			continue // busy session is by definition not idle
		}
		idle := now.Sub(entry.session.LastActivity)
		entry.mu.Unlock()

		if idle > sm.evictAfter {
			delete(sm.sessions, phone)
			evicted++
		}
	}
	return evicted
}
