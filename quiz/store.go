package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "QuizStore")

var (
	ErrPageNotFound       = errors.New("page not found")
	ErrNoCorrectOption    = errors.New("at least one option must be marked as correct")
	ErrNoActiveQuestion   = errors.New("no active question")
	ErrInvalidOption      = errors.New("invalid option index")
	ErrMultipleNotAllowed = errors.New("multiple selections not allowed")
)

// QuestionSpec is the presenter input for publishing a question.
type QuestionSpec struct {
	Text          string       `json:"text"`
	Content       string       `json:"content,omitempty"`
	Options       []OptionSpec `json:"options"`
	AllowMultiple bool         `json:"allow_multiple"`
}

type OptionSpec struct {
	Text      string `json:"text"`
	Content   string `json:"content,omitempty"`
	IsCorrect bool   `json:"is_correct"`
}

// Store owns every live page, keyed by page ID. All state is held in
// memory for the process lifetime, a restart loses everything.
//
// The map is guarded by the store lock, each page carries its own lock
// so mutations on the same page are serialized while different pages
// proceed independently.
type Store struct {
	mtx   sync.RWMutex
	pages map[string]*Page
}

// NewStore builds a store. pageExpires is a TTL in seconds after which
// idle pages are dropped, 0 keeps pages until the process dies.
func NewStore(pageExpires int) *Store {
	store := &Store{pages: make(map[string]*Page)}
	if pageExpires > 0 {
		store.autoCleanup(time.Duration(pageExpires) * time.Second)
	}
	return store
}

func (s *Store) CreatePage(title string, description string) string {
	page := &Page{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}

	s.mtx.Lock()
	s.pages[page.ID] = page
	s.mtx.Unlock()

	return page.ID
}

func (s *Store) getPage(pageID string) (*Page, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	page, found := s.pages[pageID]
	return page, found
}

// Status returns the student-safe view of a page.
func (s *Store) Status(pageID string) (*PageView, error) {
	page, found := s.getPage(pageID)
	if !found {
		return nil, ErrPageNotFound
	}

	page.mtx.Lock()
	defer page.mtx.Unlock()

	return newPageView(page), nil
}

// PublishQuestion replaces the page's current question and clears
// collected answers in one step, no observer ever sees a new question
// with stale answers. A question without a single correct option is
// rejected and the previous question stays untouched.
func (s *Store) PublishQuestion(pageID string, spec QuestionSpec) error {
	page, found := s.getPage(pageID)
	if !found {
		return ErrPageNotFound
	}

	correct := 0
	options := make([]Option, len(spec.Options))
	for i, o := range spec.Options {
		if o.IsCorrect {
			correct++
		}
		options[i] = Option{Text: o.Text, Content: o.Content, IsCorrect: o.IsCorrect}
	}
	if correct == 0 {
		return ErrNoCorrectOption
	}

	question := &Question{
		Text:          spec.Text,
		Content:       spec.Content,
		Options:       options,
		AllowMultiple: spec.AllowMultiple || correct > 1,
		Active:        true,
		CreatedAt:     time.Now(),
	}

	page.mtx.Lock()
	page.CurrentQuestion = question
	page.Answers = nil
	page.mtx.Unlock()

	logger.Info("question published on page ", pageID)
	return nil
}

// SubmitAnswer records one student submission against the current
// question. Open to any caller, no authentication.
func (s *Store) SubmitAnswer(pageID string, optionIndices []int) error {
	page, found := s.getPage(pageID)
	if !found {
		return ErrPageNotFound
	}

	page.mtx.Lock()
	defer page.mtx.Unlock()

	question := page.CurrentQuestion
	if question == nil || !question.Active {
		return ErrNoActiveQuestion
	}

	// normalize to a set, duplicates collapse
	seen := make(map[int]struct{}, len(optionIndices))
	indices := make([]int, 0, len(optionIndices))
	for _, idx := range optionIndices {
		if idx < 0 || idx >= len(question.Options) {
			return ErrInvalidOption
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}

	if !question.AllowMultiple && len(indices) > 1 {
		return ErrMultipleNotAllowed
	}

	page.Answers = append(page.Answers, Answer{
		OptionIndices: indices,
		IsCorrect:     question.grade(indices),
		Timestamp:     time.Now(),
	})

	return nil
}

// CloseQuestion stops the current question from accepting answers and
// returns the aggregated statistics. This is the only operation that
// reveals which options were correct.
func (s *Store) CloseQuestion(pageID string) (*Statistics, error) {
	page, found := s.getPage(pageID)
	if !found {
		return nil, ErrPageNotFound
	}

	page.mtx.Lock()
	defer page.mtx.Unlock()

	question := page.CurrentQuestion
	if question == nil {
		return nil, ErrNoActiveQuestion
	}

	question.Active = false

	return newStatistics(question, page.Answers), nil
}

func (s *Store) autoCleanup(ttl time.Duration) {
	go func() {
		for {
			time.Sleep(time.Minute)
			s.removeExpired(ttl)
		}
	}()
}

func (s *Store) removeExpired(ttl time.Duration) {
	deadline := time.Now().Add(-ttl)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	for id, page := range s.pages {
		if page.CreatedAt.Before(deadline) {
			logger.Tracef("page %s expired, removed from store", id)
			delete(s.pages, id)
		}
	}
}
