package core

import (
	"crypto/subtle"
	"sync"

	"github.com/dkeye/Jukebox/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never touches adapter-owned resources.
type roomImpl struct {
	pin string

	mu    sync.Mutex
	queue *Queue
}

func NewRoomService(code domain.RoomCode, pin string, q *Queue) RoomService {
	q.code = code
	return &roomImpl{pin: pin, queue: q}
}

func (r *roomImpl) Code() domain.RoomCode { return r.queue.code }

func (r *roomImpl) CheckPin(pin string) bool {
	return subtle.ConstantTimeCompare([]byte(pin), []byte(r.pin)) == 1
}

func (r *roomImpl) Pin() string     { return r.pin }
func (r *roomImpl) PinHint() string { return domain.PinHint(r.pin) }

func (r *roomImpl) Summary() domain.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queue.Summary()
}

func (r *roomImpl) Snapshot(withPinHint bool) domain.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.queue.Snapshot()
	if withPinHint {
		st.PinHint = r.PinHint()
	}
	return st
}

func (r *roomImpl) Update(fn func(q *Queue)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.queue)
}
