package eventlog

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// filePattern matches weekly export names like events_2025-09-01_2025-09-07.csv.
var filePattern = regexp.MustCompile(`^events_(\d{4}-\d{2}-\d{2})_(\d{4}-\d{2}-\d{2})\.csv$`)

// DiscoverFiles scans dir for weekly export files and returns them in
// filename-sorted order. Files that do not match the naming convention are
// ignored; a missing directory yields an empty result rather than an error
// so a fresh deployment renders an empty report.
func DiscoverFiles(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filePattern.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var files []File
	for _, name := range names {
		m := filePattern.FindStringSubmatch(name)
		from, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			continue
		}
		to, err := time.Parse("2006-01-02", m[2])
		if err != nil {
			continue
		}
		if to.Before(from) {
			continue
		}
		files = append(files, File{
			Path: filepath.Join(dir, name),
			From: from,
			To:   to,
		})
	}

	return files, nil
}
