package engine

// Cohort is the cross-week per-user state the engine carries through a run.
// It grows monotonically: users are never removed, and a user's active-week
// list is append-only, sorted ascending, with no duplicates. Correct metric
// derivation depends on weeks being observed strictly in ascending order.
type Cohort struct {
	// activeWeeks maps user id to the ordered distinct weeks the user was
	// active in.
	activeWeeks map[string][]int

	// eventCounts maps user id to total events across all weeks.
	eventCounts map[string]int

	// lastActive maps user id to the most recent active week.
	lastActive map[string]int

	// featureWeeks maps feature name to user id to the set of weeks the
	// user touched that feature. This memo grows across the whole run,
	// independent of any single week's record.
	featureWeeks map[string]map[string]map[int]bool
}

func newCohort() *Cohort {
	return &Cohort{
		activeWeeks:  make(map[string][]int),
		eventCounts:  make(map[string]int),
		lastActive:   make(map[string]int),
		featureWeeks: make(map[string]map[string]map[int]bool),
	}
}

// observe records one user's activity for a week: appends the week to the
// user's active-week list if new, adds the week's event count, and advances
// the last-active marker. Weeks arrive in ascending order, so appending
// keeps the list sorted.
func (c *Cohort) observe(userID string, week, events int) {
	weeks := c.activeWeeks[userID]
	if len(weeks) == 0 || weeks[len(weeks)-1] != week {
		c.activeWeeks[userID] = append(weeks, week)
	}
	c.eventCounts[userID] += events
	if week > c.lastActive[userID] {
		c.lastActive[userID] = week
	}
}

// markFeature records that a user touched a feature in a given week.
func (c *Cohort) markFeature(feature, userID string, week int) {
	users := c.featureWeeks[feature]
	if users == nil {
		users = make(map[string]map[int]bool)
		c.featureWeeks[feature] = users
	}
	weeks := users[userID]
	if weeks == nil {
		weeks = make(map[int]bool)
		users[userID] = weeks
	}
	weeks[week] = true
}

// Size returns the number of distinct users ever observed.
func (c *Cohort) Size() int {
	return len(c.activeWeeks)
}

// lastActiveBefore returns the user's most recent active week strictly
// before the given week, or 0 if the user has no earlier activity.
func (c *Cohort) lastActiveBefore(userID string, week int) int {
	weeks := c.activeWeeks[userID]
	for i := len(weeks) - 1; i >= 0; i-- {
		if weeks[i] < week {
			return weeks[i]
		}
	}
	return 0
}

// featureWeekCount returns how many distinct weeks the user has touched the
// feature so far.
func (c *Cohort) featureWeekCount(feature, userID string) int {
	return len(c.featureWeeks[feature][userID])
}
