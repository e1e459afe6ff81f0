package identification

import (
	"regexp"
	"strings"
)

// labelCleanupPatterns strips disc-authoring noise (disc numbers, edition
// tags, region/format codes, studio suffixes) from a raw volume label so the
// remainder makes a usable catalog search query. Ported pattern-for-pattern
// from dvdtoplex's clean_disc_label; order matters (more specific patterns
// must run before the boundary-anchored two/three-letter ones they'd
// otherwise interact with).
var labelCleanupPatterns = compilePatterns([]string{
	`(?i)_*DISC_*\d+`,
	`(?i)_*DISC\d+`,
	`(?i)^DVD_`,
	`(?i)_DVD$`,
	`(?i)_DVD_`,
	`(?i)_*WIDESCREEN`,
	`(?i)(?:^|_)WS(?:_|$)`,
	`(?i)_*FULLSCREEN`,
	`(?i)(?:^|_|\s)FS(?:_|$|\s|$)`,
	`(?i)_*SPECIAL_*EDITION`,
	`(?i)(?:^|_)SE(?:_|$)`,
	`(?i)_*DIRECTORS_*CUT`,
	`(?i)(?:^|_)DC(?:_|$)`,
	`(?i)_*UNRATED`,
	`(?i)_*EXTENDED`,
	`(?i)_*THEATRICAL`,
	`(?i)_*COLLECTORS_*EDITION`,
	`(?i)(?:^|_)CE(?:_|$)`,
	`(?i)_*PLATINUM_*EDITION`,
	`(?i)_*ANNIVERSARY_*EDITION`,
	`(?i)_*\d+TH_*ANNIVERSARY`,
	`(?i)_*BLURAY`,
	`(?i)_*BLU_*RAY`,
	`(?i)(?:^|_)HD(?:_|$)`,
	`(?i)(?:^|_)4K(?:_|$)`,
	`(?i)_*D\d+$`,
	`(?i)_R\d+$`,
	`(?i)_REGION_*\d+`,
	`(?i)_*16X9`,
	`(?i)_*4X3`,
	`(?i)_*ANAMORPHIC`,
	`(?i)_*US_*DES`,
	`(?i)_*UK_*DES`,
	`(?i)(?:^|_)PS(?:_|$)`,
	`(?i)(?:^|_)DES(?:_|$)`,
	`(?i)_*NTSC`,
	`(?i)_*PAL`,
	`(?i)_*V\d+$`,
	`(?i)_*VERSION_*\d+`,
	`(?i)_*DELUXE`,
	`(?i)_*ULTIMATE`,
	`(?i)_*REMASTERED`,
	`(?i)_*RESTORED`,
	`(?i)_+[A-Z]\d*$`,
})

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	underscoreRun = regexp.MustCompile(`_`)
)

func compilePatterns(exprs []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile(expr)
	}
	return compiled
}

// CleanLabel turns a raw disc volume label into a catalog search query
// (spec.md §4.5 step 2). Word interiors are never touched: every pattern is
// anchored on underscore/start/end boundaries, so "Se7en" survives intact.
func CleanLabel(label string) string {
	cleaned := label
	for _, pattern := range labelCleanupPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, " ")
	}
	cleaned = underscoreRun.ReplaceAllString(cleaned, " ")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.ToLower(strings.TrimSpace(cleaned))
}
