// Package inference derives a best-effort "date taken" for a selected file.
//
// Sources are strictly prioritized: embedded EXIF metadata, a full date in the
// filename, a bare year in the filename, and finally the filesystem mtime.
// Every failure is silent and falls through to the next source; the provenance
// tag tells the UI how much to trust the result.
package inference

import (
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/mediavault/mediavault-go/types"
)

var (
	// Tried in order; the first pattern that matches and survives the
	// re-derived-year check wins.
	reCompactYMD = regexp.MustCompile(`(?:^|[^0-9])(\d{4})(\d{2})(\d{2})(?:[^0-9]|$)`)
	reDashYMD    = regexp.MustCompile(`(?:^|[^0-9])(\d{4})-(\d{2})-(\d{2})(?:[^0-9]|$)`)
	reDashDMY    = regexp.MustCompile(`(?:^|[^0-9])(\d{2})-(\d{2})-(\d{4})(?:[^0-9]|$)`)

	// Bare year as a whole token, not a substring of a longer digit run.
	reBareYear = regexp.MustCompile(`(?:^|[^0-9])(\d{4})(?:[^0-9]|$)`)
)

const (
	minBareYear = 1950
	maxBareYear = 2039
)

// Resolve returns the inferred date taken for the file at path and the source
// that produced it. A nil date with DateSourceNone means nothing usable was found.
func Resolve(path string, modTime time.Time) (*time.Time, types.DateSource) {
	if t := exifDate(path); t != nil {
		return t, types.DateSourceExif
	}
	name := filepath.Base(path)
	if t := fullDateFromName(name); t != nil {
		return t, types.DateSourceFilenameFull
	}
	if t := yearFromName(name); t != nil {
		return t, types.DateSourceFilenamePartial
	}
	if !modTime.IsZero() {
		t := modTime
		return &t, types.DateSourceFile
	}
	return nil, types.DateSourceNone
}

func fullDateFromName(name string) *time.Time {
	if m := reCompactYMD.FindStringSubmatch(name); m != nil {
		if t := makeDate(m[1], m[2], m[3]); t != nil {
			return t
		}
	}
	if m := reDashYMD.FindStringSubmatch(name); m != nil {
		if t := makeDate(m[1], m[2], m[3]); t != nil {
			return t
		}
	}
	if m := reDashDMY.FindStringSubmatch(name); m != nil {
		if t := makeDate(m[3], m[2], m[1]); t != nil {
			return t
		}
	}
	return nil
}

// makeDate builds a date from string tokens and rejects it when normalization
// moved the year (e.g. month 13 rolls into the next year).
func makeDate(year, month, day string) *time.Time {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	if t.Year() != y {
		return nil
	}
	return &t
}

func yearFromName(name string) *time.Time {
	// An out-of-range token (film stock codes, resolutions) must not mask a
	// later plausible year, so scan all candidates left to right.
	for _, m := range reBareYear.FindAllStringSubmatch(name, -1) {
		y, _ := strconv.Atoi(m[1])
		if y < minBareYear || y > maxBareYear {
			continue
		}
		t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.Local)
		return &t
	}
	return nil
}
