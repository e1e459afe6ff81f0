package mover

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var disallowedChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilenameComponent strips characters common library filesystems
// disallow and trims leading/trailing dots and whitespace (spec.md §4.6
// step 2). "A:B/C?" becomes "ABC".
func SanitizeFilenameComponent(s string) string {
	cleaned := disallowedChars.ReplaceAllString(s, "")
	return strings.Trim(cleaned, " .")
}

// MovieFolderName formats a movie's canonical library folder name:
// "<sanitized title> (<year>)".
func MovieFolderName(title string, year int) string {
	return fmt.Sprintf("%s (%d)", SanitizeFilenameComponent(title), year)
}

// MovieFilename formats a movie's canonical filename, including extension.
func MovieFilename(title string, year int, ext string) string {
	return MovieFolderName(title, year) + ext
}

// MovieDestination returns the full destination path for a movie under
// moviesRoot: "<moviesRoot>/<Title> (<Year>)/<Title> (<Year>).<ext>".
func MovieDestination(moviesRoot, title string, year int, ext string) string {
	folder := MovieFolderName(title, year)
	return filepath.Join(moviesRoot, folder, MovieFilename(title, year, ext))
}

// TVEpisodeFilename formats a TV episode's canonical filename (spec.md §4.6:
// interface preserved, deferred from the current core). show/title are
// sanitized independently; season/episode are always two digits.
func TVEpisodeFilename(show string, season, episode int, title string, ext string) string {
	return fmt.Sprintf("%s - S%02dE%02d - %s%s",
		SanitizeFilenameComponent(show), season, episode, SanitizeFilenameComponent(title), ext)
}
