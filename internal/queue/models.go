package queue

import (
	"strings"
	"time"
)

// Status represents a job's position in the ingestion pipeline.
type Status string

const (
	StatusPending     Status = "pending"
	StatusRipping     Status = "ripping"
	StatusRipped      Status = "ripped"
	StatusEncoding    Status = "encoding"
	StatusEncoded     Status = "encoded"
	StatusIdentifying Status = "identifying"
	StatusReview      Status = "review"
	StatusMoving      Status = "moving"
	StatusComplete    Status = "complete"
	StatusFailed      Status = "failed"
	StatusArchived    Status = "archived"
)

var allStatuses = []Status{
	StatusPending,
	StatusRipping,
	StatusRipped,
	StatusEncoding,
	StatusEncoded,
	StatusIdentifying,
	StatusReview,
	StatusMoving,
	StatusComplete,
	StatusFailed,
	StatusArchived,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, s := range allStatuses {
		set[s] = struct{}{}
	}
	return set
}()

// transitionGraph mirrors spec.md §4.1 exactly: the only status changes a
// write is permitted to make. archived is reachable only from complete and
// failed, driven by the control surface rather than a worker.
var transitionGraph = map[Status]map[Status]struct{}{
	StatusPending: {
		StatusRipping: {},
		StatusFailed:  {},
	},
	StatusRipping: {
		StatusRipped: {},
		StatusFailed: {},
	},
	StatusRipped: {
		StatusEncoding: {},
		StatusFailed:   {},
	},
	StatusEncoding: {
		StatusEncoded: {},
		StatusRipped:  {}, // shutdown checkpoint revert, §4.4 step 6
		StatusFailed:  {},
	},
	StatusEncoded: {
		StatusIdentifying: {},
		StatusFailed:      {},
	},
	StatusIdentifying: {
		StatusReview:  {},
		StatusMoving:  {},
		StatusEncoded: {}, // oversight re-pick on startup, §4.7
		StatusFailed:  {},
	},
	StatusReview: {
		StatusMoving: {},
		StatusFailed: {},
	},
	StatusMoving: {
		StatusComplete: {},
		StatusFailed:   {},
	},
	StatusComplete: {
		StatusArchived: {},
	},
	StatusFailed: {
		StatusArchived: {},
	},
	StatusArchived: {},
}

// CanTransition reports whether moving from one status to another is a legal
// edge in the job state graph.
func CanTransition(from, to Status) bool {
	edges, ok := transitionGraph[from]
	if !ok {
		return false
	}
	_, ok = edges[to]
	return ok
}

// IsTerminal reports whether a status has no further transitions except the
// archive toggle (complete/failed/archived never progress further otherwise).
func IsTerminal(s Status) bool {
	switch s {
	case StatusComplete, StatusFailed, StatusArchived:
		return true
	default:
		return false
	}
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ContentType classifies what kind of title a job represents.
type ContentType string

const (
	ContentUnknown  ContentType = "unknown"
	ContentMovie    ContentType = "movie"
	ContentTVSeason ContentType = "tv_season"
)

// PathField names one of the three filesystem artifact fields a job tracks,
// used by Store.SetJobPath to avoid three near-identical methods.
type PathField string

const (
	PathRip    PathField = "rip"
	PathEncode PathField = "encode"
	PathFinal  PathField = "final"
)

// Job is the central pipeline entity: one row per inserted disc.
type Job struct {
	ID     int64
	Drive  string
	Label  string
	Status Status

	ContentType     ContentType
	IdentifiedTitle string
	IdentifiedYear  *int
	CatalogID       *int64
	Confidence      *float64
	PosterRef       string

	RipPath    string
	EncodePath string
	FinalPath  string

	ErrorMessage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPreIdentified reports whether a human supplied identification with
// perfect confidence, per spec.md §3's invariant that confidence == 1.0 only
// ever comes from a human assertion.
func (j Job) IsPreIdentified() bool {
	return j.IdentifiedTitle != "" && j.Confidence != nil && *j.Confidence == 1.0
}

// CollectionItem records a successfully moved title.
type CollectionItem struct {
	ID          int64
	ContentType ContentType
	Title       string
	Year        *int
	CatalogID   *int64
	FinalPath   string
	AddedAt     time.Time
}

// WantedItem is a user-maintained want-list entry, independent of jobs.
type WantedItem struct {
	ID          int64
	Title       string
	Year        *int
	ContentType ContentType
	CatalogID   *int64
	PosterRef   string
	Notes       string
	AddedAt     time.Time
}

// OversightIssue describes one impossible or stuck state detected by a
// consistency check.
type OversightIssue struct {
	Kind   string
	Detail string
	JobIDs []int64
}
