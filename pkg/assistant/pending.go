package assistant

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hugohenrick/tarefas-ia/pkg/assistant/action"
)

const defaultPendingTTL = 10 * time.Minute

var (
	ErrPendingNotFound = errors.New("operação pendente não encontrada")
	ErrPendingExpired  = errors.New("a operação pendente expirou")
)

// Pending é uma sugestão aguardando confirmação
type Pending struct {
	ID        string
	ActorID   string
	Command   string
	Actions   []action.AIAction
	CreatedAt time.Time
	ExpiresAt time.Time
}

// pendingStore guarda as sugestões em memória. Entradas vencidas são
// descartadas a cada acesso.
type pendingStore struct {
	mu  sync.Mutex
	ttl time.Duration
	ops map[string]*Pending
}

func newPendingStore(ttl time.Duration) *pendingStore {
	return &pendingStore{ttl: ttl, ops: make(map[string]*Pending)}
}

func (s *pendingStore) put(actorID, command string, actions []action.AIAction, now time.Time) *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)

	op := &Pending{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Command:   command,
		Actions:   actions,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.ops[op.ID] = op
	return op
}

// take remove e devolve a pendência; outro usuário recebe ErrPendingNotFound
func (s *pendingStore) take(actorID, id string, now time.Time) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, ok := s.ops[id]
	if !ok || op.ActorID != actorID {
		return nil, ErrPendingNotFound
	}
	delete(s.ops, id)
	if !now.Before(op.ExpiresAt) {
		return nil, ErrPendingExpired
	}
	return op, nil
}

// latest devolve a pendência válida mais recente do usuário, sem removê-la
func (s *pendingStore) latest(actorID string, now time.Time) *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)

	var found *Pending
	for _, op := range s.ops {
		if op.ActorID == actorID && (found == nil || op.CreatedAt.After(found.CreatedAt)) {
			found = op
		}
	}
	return found
}

func (s *pendingStore) sweep(now time.Time) {
	for id, op := range s.ops {
		if !now.Before(op.ExpiresAt) {
			delete(s.ops, id)
		}
	}
}
