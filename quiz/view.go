package quiz

import "time"

// PageView is the sanitized page representation students poll.
type PageView struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	CurrentQuestion *QuestionView `json:"current_question"`
	CreatedAt       time.Time     `json:"created_at"`
}

type QuestionView struct {
	Text          string       `json:"text"`
	Content       string       `json:"content,omitempty"`
	Options       []OptionView `json:"options"`
	AllowMultiple bool         `json:"allow_multiple"`
	Active        bool         `json:"active"`
}

// OptionView has no correctness field at all, so a status read cannot
// leak answers no matter how it is serialized.
type OptionView struct {
	Text    string `json:"text"`
	Content string `json:"content,omitempty"`
}

// newPageView copies the page into view types. Caller holds the page lock.
func newPageView(page *Page) *PageView {
	view := &PageView{
		Title:       page.Title,
		Description: page.Description,
		CreatedAt:   page.CreatedAt,
	}

	if q := page.CurrentQuestion; q != nil {
		qv := &QuestionView{
			Text:          q.Text,
			Content:       q.Content,
			Options:       make([]OptionView, len(q.Options)),
			AllowMultiple: q.AllowMultiple,
			Active:        q.Active,
		}
		for i, option := range q.Options {
			qv.Options[i] = OptionView{Text: option.Text, Content: option.Content}
		}
		view.CurrentQuestion = qv
	}

	return view
}
