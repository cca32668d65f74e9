package domain

const (
	MaxSongLen   = 80
	MaxArtistLen = 80
	MaxNoteLen   = 160
)

type (
	RequestID string
	// VoterID is the key used for vote deduplication.
	VoterID string
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusPlaying Status = "playing"
	StatusDone    Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusPlaying, StatusDone:
		return true
	}
	return false
}

// Request is the client-facing view of a song request. Voter identities stay on the server.
type Request struct {
	ID          RequestID `json:"id"`
	Song        string    `json:"song"`
	Artist      string    `json:"artist"`
	Note        string    `json:"note"`
	SubmittedBy string    `json:"submittedBy"`
	VoteCount   int       `json:"voteCount"`
	Status      Status    `json:"status"`
	CreatedAt   int64     `json:"createdAt"`
}

// NewRequest holds audience input for add_request.
type NewRequest struct {
	Song        string
	Artist      string
	Note        string
	SubmittedBy string
	Voter       VoterID
	// ClientKey is an optional idempotency key supplied by the client.
	ClientKey string
}

// Label is the now-playing banner for r: "artist — song", or whichever is present.
func (r Request) Label() string {
	switch {
	case r.Artist != "" && r.Song != "":
		return r.Artist + " — " + r.Song
	case r.Artist != "":
		return r.Artist
	default:
		return r.Song
	}
}
