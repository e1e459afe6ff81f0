package ripping

import "errors"

// TitleInfo describes one track on a disc's title list, as reported by the
// scanner before ripping begins (spec.md §4.3 step 3).
type TitleInfo struct {
	ID              int
	DurationSeconds int
	SizeBytes       int64
	Filename        string
}

// ErrNoTitles is returned by SelectMainTitle when the disc reports no titles
// at all (spec.md §4.3 step 4: "if the disc has no titles, fail the job").
var ErrNoTitles = errors.New("disc reports no titles")

const minFeatureSecondsDefault = 60 * 60

// SelectMainTitle picks the title the ripper should extract: the longest
// title at or above minFeatureSeconds, or, if none qualify, the globally
// longest title. Ties keep the earliest-scanned title (stable selection).
func SelectMainTitle(titles []TitleInfo, minFeatureSeconds int) (TitleInfo, error) {
	if len(titles) == 0 {
		return TitleInfo{}, ErrNoTitles
	}
	if minFeatureSeconds <= 0 {
		minFeatureSeconds = minFeatureSecondsDefault
	}

	var bestQualifying TitleInfo
	haveQualifying := false
	var longest TitleInfo
	haveLongest := false

	for _, t := range titles {
		if !haveLongest || t.DurationSeconds > longest.DurationSeconds {
			longest = t
			haveLongest = true
		}
		if t.DurationSeconds >= minFeatureSeconds {
			if !haveQualifying || t.DurationSeconds > bestQualifying.DurationSeconds {
				bestQualifying = t
				haveQualifying = true
			}
		}
	}

	if haveQualifying {
		return bestQualifying, nil
	}
	return longest, nil
}
