package board

import (
	"sync"
	"time"

	"headshotstyler/models"
	"headshotstyler/services"
)

type PageState string

const (
	StateIdle      PageState = "idle"
	StateLoading   PageState = "loading"
	StateSuggested PageState = "suggested"
	StateError     PageState = "error"
)

type ItemStatus string

const (
	ItemPending ItemStatus = "pending"
	ItemReady   ItemStatus = "ready"
	ItemFailed  ItemStatus = "failed"
)

type Item struct {
	Index       int        `json:"index"`
	Text        string     `json:"text"`
	Hint        string     `json:"hint"`
	Status      ItemStatus `json:"status"`
	ImageURL    string     `json:"image_url,omitempty"`
	Placeholder bool       `json:"placeholder"`
}

type Snapshot struct {
	RequestID         uint64                  `json:"request_id"`
	State             PageState               `json:"state"`
	Request           *models.StyleRequest    `json:"request,omitempty"`
	Suggestion        *models.StyleSuggestion `json:"suggestion,omitempty"`
	Items             []Item                  `json:"items"`
	Error             string                  `json:"error,omitempty"`
	FeedbackSubmitted bool                    `json:"feedback_submitted"`
	Complete          bool                    `json:"complete"`
}

// Session holds the style board of one browser session.
//
// Every request started with Begin gets a new sequence number. Writes carry
// the number they were started with and are dropped once a newer request
// has begun, so a slow response can never overwrite a fresh one.
type Session struct {
	ID string

	mu                sync.Mutex
	seq               uint64
	state             PageState
	request           *models.StyleRequest
	suggestion        *models.StyleSuggestion
	items             []Item
	errMsg            string
	feedbackSubmitted bool
	lastSeen          time.Time
}

func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		state:    StateIdle,
		items:    []Item{},
		lastSeen: time.Now(),
	}
}

// Begin clears the previous result and moves the page to loading.
func (s *Session) Begin(req models.StyleRequest) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = StateLoading
	s.request = &req
	s.suggestion = nil
	s.items = []Item{}
	s.errMsg = ""
	s.feedbackSubmitted = false
	return s.seq
}

// Succeed stores the suggestion and returns the parsed items, all pending.
func (s *Session) Succeed(seq uint64, suggestion models.StyleSuggestion) ([]Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || s.state != StateLoading {
		return nil, false
	}
	parsed := services.ParseClothingItems(suggestion.ClothingSuggestions)
	items := make([]Item, len(parsed))
	for i, text := range parsed {
		items[i] = Item{
			Index:  i,
			Text:   text,
			Hint:   services.ItemHint(text),
			Status: ItemPending,
		}
	}
	s.state = StateSuggested
	s.suggestion = &suggestion
	s.items = items
	return append([]Item(nil), items...), true
}

func (s *Session) Fail(seq uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || s.state != StateLoading {
		return false
	}
	s.state = StateError
	s.suggestion = nil
	s.items = []Item{}
	s.errMsg = message
	return true
}

func (s *Session) ResolveItem(seq uint64, index int, imageURL string) bool {
	return s.settleItem(seq, index, ItemReady, imageURL)
}

// FailItem puts the placeholder image on a single item.
func (s *Session) FailItem(seq uint64, index int) bool {
	return s.settleItem(seq, index, ItemFailed, services.PlaceholderImageURL)
}

func (s *Session) settleItem(seq uint64, index int, status ItemStatus, imageURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || s.state != StateSuggested {
		return false
	}
	if index < 0 || index >= len(s.items) {
		return false
	}
	item := &s.items[index]
	if item.Status != ItemPending {
		return false
	}
	item.Status = status
	item.ImageURL = imageURL
	item.Placeholder = status == ItemFailed
	return true
}

func (s *Session) IsActive(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}

// Active returns the request and suggestion currently shown, if any.
func (s *Session) Active() (uint64, *models.StyleRequest, *models.StyleSuggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSuggested || s.request == nil || s.suggestion == nil {
		return s.seq, nil, nil, false
	}
	req := *s.request
	suggestion := *s.suggestion
	return s.seq, &req, &suggestion, true
}

func (s *Session) FeedbackSubmitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedbackSubmitted
}

// MarkFeedbackSubmitted is a one shot per request.
func (s *Session) MarkFeedbackSubmitted(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || s.state != StateSuggested || s.feedbackSubmitted {
		return false
	}
	s.feedbackSubmitted = true
	return true
}

// ReopenFeedback undoes MarkFeedbackSubmitted after a failed submission.
func (s *Session) ReopenFeedback(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.seq {
		s.feedbackSubmitted = false
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		RequestID:         s.seq,
		State:             s.state,
		Items:             append([]Item(nil), s.items...),
		Error:             s.errMsg,
		FeedbackSubmitted: s.feedbackSubmitted,
	}
	if snap.Items == nil {
		snap.Items = []Item{}
	}
	if s.request != nil {
		req := *s.request
		snap.Request = &req
	}
	if s.suggestion != nil {
		suggestion := *s.suggestion
		snap.Suggestion = &suggestion
	}
	snap.Complete = s.state == StateSuggested
	for _, item := range s.items {
		if item.Status == ItemPending {
			snap.Complete = false
			break
		}
	}
	return snap
}

// WithoutImages drops generated image data from the items. Polls use it so
// an image is sent once through Session.Image instead of on every poll.
func (snap Snapshot) WithoutImages() Snapshot {
	items := make([]Item, len(snap.Items))
	for i, item := range snap.Items {
		item.ImageURL = ""
		items[i] = item
	}
	snap.Items = items
	return snap
}

// Image returns the settled item at index of request seq.
func (s *Session) Image(seq uint64, index int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || s.state != StateSuggested {
		return Item{}, false
	}
	if index < 0 || index >= len(s.items) || s.items[index].Status == ItemPending {
		return Item{}, false
	}
	return s.items[index], true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
