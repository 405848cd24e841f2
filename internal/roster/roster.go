// Package roster resolves course enrollment counts and staff identities.
package roster

// Roster answers enrolled-count lookups and teacher membership checks.
// The teacher set is the configured teacher ids minus the blacklist.
type Roster struct {
	enrolled map[string]int
	teachers map[string]bool
}

// New builds a Roster from configuration data. Blacklisted ids are removed
// from the teacher set so shared or test accounts count as students.
func New(enrolled map[string]int, teacherIDs, blacklist []string) *Roster {
	banned := make(map[string]bool, len(blacklist))
	for _, id := range blacklist {
		banned[id] = true
	}

	teachers := make(map[string]bool, len(teacherIDs))
	for _, id := range teacherIDs {
		if id == "" || banned[id] {
			continue
		}
		teachers[id] = true
	}

	return &Roster{
		enrolled: enrolled,
		teachers: teachers,
	}
}

// Enrolled returns the enrolled student count for a course, and whether the
// roster has one. Callers without a roster count fall back to the cumulative
// observed-user count.
func (r *Roster) Enrolled(course string) (int, bool) {
	if r == nil || r.enrolled == nil {
		return 0, false
	}
	n, ok := r.enrolled[course]
	return n, ok
}

// IsTeacher reports whether the user id belongs to the effective teacher set.
func (r *Roster) IsTeacher(id string) bool {
	if r == nil {
		return false
	}
	return r.teachers[id]
}

// TeacherCount returns the size of the effective teacher set.
func (r *Roster) TeacherCount() int {
	if r == nil {
		return 0
	}
	return len(r.teachers)
}
