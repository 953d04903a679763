package tasks

// Summary holds the headline counts shown above the task list.
type Summary struct {
	Total              int `json:"total"`
	Completed          int `json:"completed"`
	HighPriorityActive int `json:"highPriorityActive"`
	Home               int `json:"home"`
	Away               int `json:"away"`
}

// Summarize counts list. Home and away count every task with that trigger,
// completed or not.
func Summarize(list []Task) Summary {
	summary := Summary{Total: len(list)}
	for _, task := range list {
		if task.Completed {
			summary.Completed++
		} else if task.Priority == PriorityHigh {
			summary.HighPriorityActive++
		}
		switch task.NetworkTrigger {
		case TriggerHome:
			summary.Home++
		case TriggerAway:
			summary.Away++
		}
	}
	return summary
}
