package quiz

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func twoPlusTwo() QuestionSpec {
	return QuestionSpec{
		Text: "2+2?",
		Options: []OptionSpec{
			{Text: "3", IsCorrect: false},
			{Text: "4", IsCorrect: true},
		},
	}
}

func multiSelect() QuestionSpec {
	return QuestionSpec{
		Text: "pick the primes",
		Options: []OptionSpec{
			{Text: "2", IsCorrect: true},
			{Text: "3", IsCorrect: true},
			{Text: "4", IsCorrect: false},
		},
	}
}

func TestCreatePageAndStatus(t *testing.T) {
	store := NewStore(0)

	pageID := store.CreatePage("Algebra", "warmup")
	if pageID == "" {
		t.Fatal("empty page id")
	}

	view, err := store.Status(pageID)
	if err != nil {
		t.Fatal("status failed :", err)
	}
	if view.Title != "Algebra" || view.Description != "warmup" {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.CurrentQuestion != nil {
		t.Fatal("fresh page must have no question")
	}
	if view.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	if _, err := store.Status("nope"); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("unknown page : got %v, want ErrPageNotFound", err)
	}
}

func TestPublishQuestionActivatesAndClearsAnswers(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")

	if err := store.PublishQuestion(pageID, twoPlusTwo()); err != nil {
		t.Fatal("publish failed :", err)
	}
	if err := store.SubmitAnswer(pageID, []int{1}); err != nil {
		t.Fatal("submit failed :", err)
	}

	if err := store.PublishQuestion(pageID, multiSelect()); err != nil {
		t.Fatal("second publish failed :", err)
	}

	page, _ := store.getPage(pageID)
	if len(page.Answers) != 0 {
		t.Fatal("publish must clear previous answers")
	}
	if !page.CurrentQuestion.Active {
		t.Fatal("published question must be active")
	}
}

func TestPublishQuestionRejectsNoCorrectOption(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")

	if err := store.PublishQuestion(pageID, twoPlusTwo()); err != nil {
		t.Fatal("publish failed :", err)
	}
	if err := store.SubmitAnswer(pageID, []int{1}); err != nil {
		t.Fatal("submit failed :", err)
	}

	bad := QuestionSpec{
		Text:    "unanswerable",
		Options: []OptionSpec{{Text: "a"}, {Text: "b"}},
	}
	if err := store.PublishQuestion(pageID, bad); !errors.Is(err, ErrNoCorrectOption) {
		t.Fatalf("got %v, want ErrNoCorrectOption", err)
	}

	// prior question and its answers stay untouched
	page, _ := store.getPage(pageID)
	if page.CurrentQuestion.Text != "2+2?" {
		t.Fatal("rejected publish replaced the question")
	}
	if len(page.Answers) != 1 {
		t.Fatal("rejected publish dropped answers")
	}

	if err := store.PublishQuestion("nope", twoPlusTwo()); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("unknown page : got %v, want ErrPageNotFound", err)
	}
}

func TestAllowMultipleDerivation(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")

	// one correct option, no explicit flag
	if err := store.PublishQuestion(pageID, twoPlusTwo()); err != nil {
		t.Fatal(err)
	}
	page, _ := store.getPage(pageID)
	if page.CurrentQuestion.AllowMultiple {
		t.Fatal("single correct option must not enable multi select")
	}

	// two correct options force multi select even without the flag
	if err := store.PublishQuestion(pageID, multiSelect()); err != nil {
		t.Fatal(err)
	}
	if !page.CurrentQuestion.AllowMultiple {
		t.Fatal("several correct options must enable multi select")
	}

	// explicit flag with a single correct option
	spec := twoPlusTwo()
	spec.AllowMultiple = true
	if err := store.PublishQuestion(pageID, spec); err != nil {
		t.Fatal(err)
	}
	if !page.CurrentQuestion.AllowMultiple {
		t.Fatal("explicit flag must enable multi select")
	}
}

func TestStatusNeverRevealsCorrectness(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")
	if err := store.PublishQuestion(pageID, twoPlusTwo()); err != nil {
		t.Fatal(err)
	}

	view, err := store.Status(pageID)
	if err != nil {
		t.Fatal(err)
	}
	if view.CurrentQuestion == nil || len(view.CurrentQuestion.Options) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}

	encoded, err := json.Marshal(view)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(encoded), "is_correct") || strings.Contains(string(encoded), "IsCorrect") {
		t.Fatalf("sanitized view leaks correctness : %s", encoded)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")

	if err := store.SubmitAnswer("nope", []int{0}); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("unknown page : got %v, want ErrPageNotFound", err)
	}
	if err := store.SubmitAnswer(pageID, []int{0}); !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("no question : got %v, want ErrNoActiveQuestion", err)
	}

	if err := store.PublishQuestion(pageID, twoPlusTwo()); err != nil {
		t.Fatal(err)
	}

	if err := store.SubmitAnswer(pageID, []int{2}); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("out of range : got %v, want ErrInvalidOption", err)
	}
	if err := store.SubmitAnswer(pageID, []int{-1}); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("negative : got %v, want ErrInvalidOption", err)
	}
	if err := store.SubmitAnswer(pageID, []int{0, 1}); !errors.Is(err, ErrMultipleNotAllowed) {
		t.Fatalf("multi on single select : got %v, want ErrMultipleNotAllowed", err)
	}

	// failed submissions leave nothing behind
	page, _ := store.getPage(pageID)
	if len(page.Answers) != 0 {
		t.Fatal("rejected submissions were recorded")
	}
}

func TestSingleSelectGrading(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")
	if err := store.PublishQuestion(pageID, twoPlusTwo()); err != nil {
		t.Fatal(err)
	}

	for _, submission := range [][]int{{1}, {0}, {}} {
		if err := store.SubmitAnswer(pageID, submission); err != nil {
			t.Fatalf("submit %v failed : %v", submission, err)
		}
	}

	page, _ := store.getPage(pageID)
	want := []bool{true, false, false} // {1} correct, {0} wrong, empty counts as wrong
	for i, answer := range page.Answers {
		if answer.IsCorrect != want[i] {
			t.Fatalf("answer %d graded %v, want %v", i, answer.IsCorrect, want[i])
		}
		if answer.Timestamp.IsZero() {
			t.Fatalf("answer %d missing timestamp", i)
		}
	}
}

func TestMultiSelectGrading(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")
	if err := store.PublishQuestion(pageID, multiSelect()); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		submission []int
		correct    bool
	}{
		{[]int{0, 1}, true},     // exact correct set
		{[]int{0}, false},       // partial
		{[]int{0, 1, 2}, false}, // superset
		{[]int{1, 0}, true},     // order does not matter
		{[]int{0, 0, 1}, true},  // duplicates collapse
		{[]int{}, false},        // empty is a wrong answer, not an error
	}

	for _, c := range cases {
		if err := store.SubmitAnswer(pageID, c.submission); err != nil {
			t.Fatalf("submit %v failed : %v", c.submission, err)
		}
	}

	page, _ := store.getPage(pageID)
	for i, c := range cases {
		if page.Answers[i].IsCorrect != c.correct {
			t.Fatalf("submission %v graded %v, want %v", c.submission, page.Answers[i].IsCorrect, c.correct)
		}
	}
}

func TestCloseQuestionStatistics(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")
	if err := store.PublishQuestion(pageID, twoPlusTwo()); err != nil {
		t.Fatal(err)
	}

	if err := store.SubmitAnswer(pageID, []int{1}); err != nil {
		t.Fatal(err)
	}
	if err := store.SubmitAnswer(pageID, []int{0}); err != nil {
		t.Fatal(err)
	}

	stats, err := store.CloseQuestion(pageID)
	if err != nil {
		t.Fatal("close failed :", err)
	}

	if stats.TotalAnswers != 2 || stats.CorrectAnswers != 1 || stats.CorrectPercentage != 50 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.IsMultipleChoice {
		t.Fatal("single select question reported as multiple choice")
	}

	if s := stats.OptionStats[0]; s.Count != 1 || s.Percentage != 50 || s.IsCorrect {
		t.Fatalf("option 0 stats %+v", s)
	}
	if s := stats.OptionStats[1]; s.Count != 1 || s.Percentage != 50 || !s.IsCorrect {
		t.Fatalf("option 1 stats %+v", s)
	}

	// the question no longer accepts answers
	if err := store.SubmitAnswer(pageID, []int{1}); !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("submit after close : got %v, want ErrNoActiveQuestion", err)
	}
}

func TestCloseQuestionWithoutAnswers(t *testing.T) {
	store := NewStore(0)
	pageID := store.CreatePage("p", "")
	if err := store.PublishQuestion(pageID, multiSelect()); err != nil {
		t.Fatal(err)
	}

	stats, err := store.CloseQuestion(pageID)
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalAnswers != 0 || stats.CorrectAnswers != 0 || stats.CorrectPercentage != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	for idx, s := range stats.OptionStats {
		if s.Count != 0 || s.Percentage != 0 {
			t.Fatalf("option %d stats %+v, want zeros", idx, s)
		}
	}
	if !stats.IsMultipleChoice {
		t.Fatal("multi select question not flagged")
	}
}

func TestCloseQuestionErrors(t *testing.T) {
	store := NewStore(0)

	if _, err := store.CloseQuestion("nope"); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("unknown page : got %v, want ErrPageNotFound", err)
	}

	pageID := store.CreatePage("p", "")
	if _, err := store.CloseQuestion(pageID); !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("no question : got %v, want ErrNoActiveQuestion", err)
	}
}

func TestRemoveExpiredPages(t *testing.T) {
	store := NewStore(0)

	oldID := store.CreatePage("stale", "")
	freshID := store.CreatePage("fresh", "")

	page, _ := store.getPage(oldID)
	page.CreatedAt = time.Now().Add(-2 * time.Hour)

	store.removeExpired(time.Hour)

	if _, found := store.getPage(oldID); found {
		t.Fatal("stale page survived cleanup")
	}
	if _, found := store.getPage(freshID); !found {
		t.Fatal("fresh page removed by cleanup")
	}
}
