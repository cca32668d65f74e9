package core

import (
	"crypto/rand"
	"fmt"
	"slices"
	"time"

	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/rs/zerolog/log"
)

type entry struct {
	req    domain.Request
	voters map[domain.VoterID]struct{}
}

// Queue holds the requests and metadata of one room.
// It is not safe for concurrent use; RoomService.Update serializes access.
type Queue struct {
	code       domain.RoomCode
	name       string
	tipsURL    string
	nowPlaying string
	// nowPlayingSrc is the request that produced the current banner, if any.
	nowPlayingSrc domain.RequestID
	createdAt     time.Time

	requests   map[domain.RequestID]*entry
	order      []domain.RequestID
	clientKeys map[string]domain.RequestID

	policy NowPlayingPolicy
	now    func() time.Time
}

func NewQueue(name, tipsURL string, policy NowPlayingPolicy) *Queue {
	if policy == nil {
		policy = PrefixMatch{}
	}
	return &Queue{
		name:       domain.Truncate(name, domain.MaxRoomNameLen),
		tipsURL:    domain.Truncate(tipsURL, domain.MaxTipsURLLen),
		createdAt:  time.Now(),
		requests:   make(map[domain.RequestID]*entry),
		order:      make([]domain.RequestID, 0, 64),
		clientKeys: make(map[string]domain.RequestID),
		policy:     policy,
		now:        time.Now,
	}
}

func (q *Queue) Code() domain.RoomCode { return q.code }
func (q *Queue) NowPlaying() string    { return q.nowPlaying }
func (q *Queue) Len() int              { return len(q.order) }
func (q *Queue) CreatedAt() time.Time  { return q.createdAt }

// Order returns a copy of the current id sequence.
func (q *Queue) Order() []domain.RequestID {
	return slices.Clone(q.order)
}

func (q *Queue) Request(id domain.RequestID) (domain.Request, bool) {
	e, ok := q.requests[id]
	if !ok {
		return domain.Request{}, false
	}
	return e.req, true
}

// AddRequest appends a new request with the submitter's self-vote.
// If in.ClientKey was already used in this room the existing request is
// returned with dup set and nothing changes.
func (q *Queue) AddRequest(in domain.NewRequest) (req domain.Request, dup bool) {
	if in.ClientKey != "" {
		if id, ok := q.clientKeys[in.ClientKey]; ok {
			if e, ok := q.requests[id]; ok {
				return e.req, true
			}
		}
	}

	now := q.now()
	id := q.newID(now)
	e := &entry{
		req: domain.Request{
			ID:          id,
			Song:        domain.Truncate(in.Song, domain.MaxSongLen),
			Artist:      domain.Truncate(in.Artist, domain.MaxArtistLen),
			Note:        domain.Truncate(in.Note, domain.MaxNoteLen),
			SubmittedBy: domain.DisplayName(in.SubmittedBy),
			VoteCount:   1,
			Status:      domain.StatusQueued,
			CreatedAt:   now.UnixMilli(),
		},
		voters: map[domain.VoterID]struct{}{in.Voter: {}},
	}
	q.requests[id] = e
	q.order = append(q.order, id)
	if in.ClientKey != "" {
		q.clientKeys[in.ClientKey] = id
	}
	return e.req, false
}

// Upvote records one vote per voter identity.
func (q *Queue) Upvote(id domain.RequestID, voter domain.VoterID) (domain.Request, error) {
	e, ok := q.requests[id]
	if !ok {
		return domain.Request{}, domain.ErrUnknownRequest
	}
	if _, voted := e.voters[voter]; voted {
		return e.req, domain.ErrAlreadyVoted
	}
	e.voters[voter] = struct{}{}
	e.req.VoteCount = len(e.voters)
	return e.req, nil
}

// SetStatus overwrites the status of id. banner is non-nil when the
// now-playing label changed as a consequence.
func (q *Queue) SetStatus(id domain.RequestID, status domain.Status) (req domain.Request, banner *string, err error) {
	if !status.Valid() {
		return domain.Request{}, nil, domain.ErrInvalidStatus
	}
	e, ok := q.requests[id]
	if !ok {
		return domain.Request{}, nil, domain.ErrUnknownRequest
	}
	e.req.Status = status

	switch status {
	case domain.StatusPlaying:
		if label := domain.Truncate(e.req.Label(), domain.MaxNowPlayingLen); label != "" {
			q.nowPlaying = label
			q.nowPlayingSrc = id
			banner = ptr(q.nowPlaying)
		}
	case domain.StatusDone:
		banner = q.clearBannerFor(e.req)
	}
	return e.req, banner, nil
}

// Reorder replaces the order with ids filtered to known requests, without
// duplicates. Known requests missing from ids keep their relative order at the end.
func (q *Queue) Reorder(ids []domain.RequestID) []domain.RequestID {
	seen := make(map[domain.RequestID]struct{}, len(q.order))
	next := make([]domain.RequestID, 0, len(q.order))
	for _, id := range ids {
		if _, ok := q.requests[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}
	for _, id := range q.order {
		if _, ok := seen[id]; !ok {
			next = append(next, id)
		}
	}
	q.order = next
	return q.Order()
}

// Delete removes id from requests and order. banner is non-nil when the
// now-playing label was cleared.
func (q *Queue) Delete(id domain.RequestID) (banner *string, err error) {
	e, ok := q.requests[id]
	if !ok {
		return nil, domain.ErrUnknownRequest
	}
	delete(q.requests, id)
	q.order = slices.DeleteFunc(q.order, func(x domain.RequestID) bool { return x == id })
	for k, v := range q.clientKeys {
		if v == id {
			delete(q.clientKeys, k)
		}
	}
	return q.clearBannerFor(e.req), nil
}

// UpdateMeta applies the present fields and returns them as stored.
func (q *Queue) UpdateMeta(m domain.RoomMeta) domain.RoomMeta {
	var applied domain.RoomMeta
	if m.Name != nil {
		q.name = domain.Truncate(*m.Name, domain.MaxRoomNameLen)
		applied.Name = ptr(q.name)
	}
	if m.TipsURL != nil {
		q.tipsURL = domain.Truncate(*m.TipsURL, domain.MaxTipsURLLen)
		applied.TipsURL = ptr(q.tipsURL)
	}
	if m.NowPlaying != nil {
		q.nowPlaying = domain.Truncate(*m.NowPlaying, domain.MaxNowPlayingLen)
		q.nowPlayingSrc = ""
		applied.NowPlaying = ptr(q.nowPlaying)
	}
	return applied
}

func (q *Queue) Summary() domain.RoomSummary {
	return domain.RoomSummary{
		Code:       q.code,
		Name:       q.name,
		TipsURL:    q.tipsURL,
		NowPlaying: q.nowPlaying,
	}
}

func (q *Queue) Snapshot() domain.RoomState {
	queue := make([]domain.Request, 0, len(q.order))
	for _, id := range q.order {
		if e, ok := q.requests[id]; ok {
			queue = append(queue, e.req)
		}
	}
	return domain.RoomState{
		Code:       q.code,
		Name:       q.name,
		TipsURL:    q.tipsURL,
		NowPlaying: q.nowPlaying,
		Queue:      queue,
	}
}

func (q *Queue) clearBannerFor(req domain.Request) *string {
	if !q.policy.Clears(q.nowPlaying, q.nowPlayingSrc, req) {
		return nil
	}
	log.Debug().Str("module", "core.room").Str("room", string(q.code)).Str("request", string(req.ID)).Msg("now playing cleared")
	q.nowPlaying = ""
	q.nowPlayingSrc = ""
	return ptr("")
}

func ptr(s string) *string { return &s }

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func (q *Queue) newID(now time.Time) domain.RequestID {
	for {
		id := domain.RequestID(fmt.Sprintf("req_%d_%s", now.UnixMilli(), RandomString(idAlphabet, 5)))
		if _, taken := q.requests[id]; !taken {
			return id
		}
	}
}

// RandomString draws n characters from alphabet using crypto/rand.
func RandomString(alphabet string, n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}
