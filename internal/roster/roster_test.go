package roster

import "testing"

func TestEnrolled(t *testing.T) {
	r := New(map[string]int{"cs101": 120}, nil, nil)

	n, ok := r.Enrolled("cs101")
	if !ok || n != 120 {
		t.Errorf("Enrolled(cs101) = %d, %v; want 120, true", n, ok)
	}

	if _, ok := r.Enrolled("math201"); ok {
		t.Error("Enrolled(math201) found, want miss")
	}
}

func TestEnrolled_NoRosterData(t *testing.T) {
	r := New(nil, nil, nil)
	if _, ok := r.Enrolled("cs101"); ok {
		t.Error("empty roster reported an enrollment count")
	}
}

func TestIsTeacher_BlacklistWins(t *testing.T) {
	r := New(nil, []string{"t1", "t2", "shared"}, []string{"shared"})

	if !r.IsTeacher("t1") {
		t.Error("t1 should be a teacher")
	}
	if r.IsTeacher("shared") {
		t.Error("blacklisted id should not be a teacher")
	}
	if r.IsTeacher("student9") {
		t.Error("unknown id should not be a teacher")
	}
	if got := r.TeacherCount(); got != 2 {
		t.Errorf("TeacherCount = %d, want 2", got)
	}
}

func TestNilRosterIsSafe(t *testing.T) {
	var r *Roster

	if _, ok := r.Enrolled("cs101"); ok {
		t.Error("nil roster reported an enrollment count")
	}
	if r.IsTeacher("x") {
		t.Error("nil roster reported a teacher")
	}
	if r.TeacherCount() != 0 {
		t.Error("nil roster reported a nonzero teacher count")
	}
}
