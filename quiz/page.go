package quiz

import (
	"sync"
	"time"
)

// Page is one live quiz page : presenter metadata plus at most one
// current question and the answers collected for it. Title and
// description are fixed at creation, there is no update path.
type Page struct {
	mtx sync.Mutex

	ID              string
	Title           string
	Description     string
	CurrentQuestion *Question
	Answers         []Answer
	CreatedAt       time.Time
}

type Question struct {
	Text    string
	Content string
	Options []Option

	// AllowMultiple is derived once at publish time : the presenter
	// asked for it, or more than one option is correct. It never
	// changes afterwards.
	AllowMultiple bool

	// Active governs whether answers are accepted.
	Active bool

	CreatedAt time.Time
}

// Option order is significant, answers reference options by position.
type Option struct {
	Text      string
	Content   string
	IsCorrect bool
}

// Answer is one student submission. Correctness is computed once at
// submission time and frozen.
type Answer struct {
	OptionIndices []int
	IsCorrect     bool
	Timestamp     time.Time
}

func (q *Question) correctCount() int {
	count := 0
	for _, option := range q.Options {
		if option.IsCorrect {
			count++
		}
	}
	return count
}

// grade scores a deduplicated index list against the question.
//
// Multiple choice : correct iff the submitted set equals exactly the
// set of correct options, no more, no fewer.
// Single choice : correct iff the one submitted index is correct.
// An empty submission scores as incorrect, it is not an error.
func (q *Question) grade(indices []int) bool {
	if !q.AllowMultiple {
		return len(indices) == 1 && q.Options[indices[0]].IsCorrect
	}

	if len(indices) != q.correctCount() {
		return false
	}
	for _, idx := range indices {
		if !q.Options[idx].IsCorrect {
			return false
		}
	}
	return true
}
