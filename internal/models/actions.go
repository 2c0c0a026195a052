package models

// Actions bundles habit creations and submission loggings proposed by the
// assistant, pending confirmation by the user.
type Actions struct {
	Creations []Habit
	Loggings  map[string][]Submission
}

// NewActions normalizes the proposal: per-habit logging lists that are empty
// are dropped, empty collections become nil, and nil is returned when
// nothing is left.
func NewActions(creations []Habit, loggings map[string][]Submission) *Actions {
	var kept map[string][]Submission
	for habit, subs := range loggings {
		if len(subs) == 0 {
			continue
		}
		if kept == nil {
			kept = make(map[string][]Submission)
		}
		kept[habit] = subs
	}
	if len(creations) == 0 {
		creations = nil
	}
	if creations == nil && kept == nil {
		return nil
	}
	return &Actions{Creations: creations, Loggings: kept}
}

// Count is the number of proposed creations plus submissions.
func (a *Actions) Count() int {
	if a == nil {
		return 0
	}
	n := len(a.Creations)
	for _, subs := range a.Loggings {
		n += len(subs)
	}
	return n
}
