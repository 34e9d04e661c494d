package domain

import "strings"

// NormalizeTitle lowercases a title and drops everything outside [a-z0-9].
// "The   MATRIX!!" and "the matrix" both normalize to "thematrix".
func NormalizeTitle(title string) string {
	lower := strings.ToLower(title)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsDuplicate reports whether the library already holds an entry with the
// same normalized title and the same year.
func IsDuplicate(title string, year int, library []Entry) bool {
	norm := NormalizeTitle(title)
	for i := range library {
		if library[i].Year == year && NormalizeTitle(library[i].Title) == norm {
			return true
		}
	}
	return false
}

// FindImportMatch returns the index of an entry that an imported item
// collides with: same IMDb id when one is given, or same normalized title.
// Returns -1 when there is no match.
func FindImportMatch(imdbID, title string, library []Entry) int {
	norm := NormalizeTitle(title)
	for i := range library {
		if imdbID != "" && library[i].IMDbID == imdbID {
			return i
		}
		if NormalizeTitle(library[i].Title) == norm {
			return i
		}
	}
	return -1
}
