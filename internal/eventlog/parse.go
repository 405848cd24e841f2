package eventlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// userIDColumns lists accepted user-id header names; first match wins.
var userIDColumns = []string{"user_id", "student_id"}

// errNoUserColumn and errNoTimestampColumn mark structurally deficient files.
var (
	errNoUserColumn      = errors.New("no user id column (user_id or student_id)")
	errNoTimestampColumn = errors.New("no timestamp column")
)

// columnMap resolves header names to column indexes. Optional columns are -1
// when absent.
type columnMap struct {
	user      int
	timestamp int
	event     int
	tab       int
	concept   int
	course    int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{user: -1, timestamp: -1, event: -1, tab: -1, concept: -1, course: -1}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, name := range userIDColumns {
		if i, ok := index[name]; ok {
			cols.user = i
			break
		}
	}
	if i, ok := index["timestamp"]; ok {
		cols.timestamp = i
	}
	if i, ok := index["event_name"]; ok {
		cols.event = i
	}
	if i, ok := index["tab"]; ok {
		cols.tab = i
	}
	if i, ok := index["concept"]; ok {
		cols.concept = i
	}
	if i, ok := index["course_id"]; ok {
		cols.course = i
	}

	if cols.user < 0 {
		return cols, errNoUserColumn
	}
	if cols.timestamp < 0 {
		return cols, errNoTimestampColumn
	}
	return cols, nil
}

// parseTimestamp accepts unix seconds or RFC 3339 timestamps.
func parseTimestamp(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// ParseFile reads one weekly export. Rows with a missing user id or an
// unparseable timestamp are dropped individually; a file missing a required
// column fails as a whole so the caller can skip it with a warning. When
// course is non-empty and the file carries a course_id column, rows for
// other courses are dropped.
func ParseFile(path, course string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var events []Event
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		field := func(i int) string {
			if i < 0 || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		userID := field(cols.user)
		if userID == "" {
			continue
		}

		ts, ok := parseTimestamp(field(cols.timestamp))
		if !ok {
			continue
		}

		if course != "" && cols.course >= 0 {
			if field(cols.course) != course {
				continue
			}
		}

		events = append(events, Event{
			UserID:    userID,
			Name:      strings.ToLower(field(cols.event)),
			Tab:       field(cols.tab),
			Concept:   field(cols.concept),
			Timestamp: ts,
		})
	}

	return events, nil
}
