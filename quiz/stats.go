package quiz

// Statistics is the aggregate returned when a question is closed.
// Correctness flags are revealed here and nowhere else.
type Statistics struct {
	TotalAnswers      int                `json:"total_answers"`
	CorrectAnswers    int                `json:"correct_answers"`
	CorrectPercentage float64            `json:"correct_percentage"`
	OptionStats       map[int]OptionStat `json:"option_stats"`
	IsMultipleChoice  bool               `json:"is_multiple_choice"`
}

type OptionStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	IsCorrect  bool    `json:"is_correct"`
}

// newStatistics aggregates the stored answers. An answer selecting
// several options contributes to each selected option's count.
// All percentages are 0 when there are no answers.
func newStatistics(question *Question, answers []Answer) *Statistics {
	stats := &Statistics{
		TotalAnswers:     len(answers),
		OptionStats:      make(map[int]OptionStat, len(question.Options)),
		IsMultipleChoice: question.AllowMultiple,
	}

	counts := make([]int, len(question.Options))
	for _, answer := range answers {
		if answer.IsCorrect {
			stats.CorrectAnswers++
		}
		for _, idx := range answer.OptionIndices {
			counts[idx]++
		}
	}

	if stats.TotalAnswers > 0 {
		stats.CorrectPercentage = float64(stats.CorrectAnswers) / float64(stats.TotalAnswers) * 100
	}

	for i, option := range question.Options {
		stat := OptionStat{Count: counts[i], IsCorrect: option.IsCorrect}
		if stats.TotalAnswers > 0 {
			stat.Percentage = float64(counts[i]) / float64(stats.TotalAnswers) * 100
		}
		stats.OptionStats[i] = stat
	}

	return stats
}
