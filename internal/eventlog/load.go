package eventlog

import (
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// parseWorkers bounds concurrent CSV parsing. Parsing is parallel but the
// resulting weeks are returned in ascending week order; all downstream
// processing is sequential because cohort state is a prefix aggregate.
const parseWorkers = 4

// LoadWeeks discovers, filters, and parses the weekly exports under dir.
//
// A week is eligible only when its end date is strictly before now (an
// in-progress week would undercount) and its start falls on or after the
// semester start. Unreadable or structurally deficient files are logged and
// skipped; the remaining weeks still load. Weeks with no surviving rows are
// dropped.
func LoadWeeks(dir string, semesterStart, now time.Time, course string, log *slog.Logger) ([]Week, error) {
	if log == nil {
		log = slog.Default()
	}

	files, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}

	today := now.Truncate(24 * time.Hour)

	var eligible []File
	for _, f := range files {
		if f.From.Before(semesterStart) {
			log.Warn("skipping pre-semester export", "file", f.Path)
			continue
		}
		if !f.To.Before(today) {
			log.Info("skipping in-progress week", "file", f.Path, "ends", f.To.Format("2006-01-02"))
			continue
		}
		eligible = append(eligible, f)
	}

	parsed := make([][]Event, len(eligible))
	var g errgroup.Group
	g.SetLimit(parseWorkers)

	for i, f := range eligible {
		i, f := i, f
		g.Go(func() error {
			events, err := ParseFile(f.Path, course)
			if err != nil {
				// Skip-and-continue: one bad export must not abort the run.
				log.Warn("skipping unreadable export", "file", f.Path, "err", err)
				return nil
			}
			parsed[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var weeks []Week
	lastNumber := 0
	for i, f := range eligible {
		if len(parsed[i]) == 0 {
			continue
		}
		n := f.WeekNumber(semesterStart)
		if n <= lastNumber {
			// Overlapping or duplicate export for an already-loaded week.
			log.Warn("skipping out-of-order export", "file", f.Path, "week", n)
			continue
		}
		lastNumber = n
		weeks = append(weeks, Week{
			Number: n,
			From:   f.From,
			To:     f.To,
			Events: parsed[i],
		})
	}

	return weeks, nil
}
