package genre

import "slices"

// CanonicalAliases maps slug variations to canonical slugs. TMDB's combined
// tv genres expand to the movie genres they cover.
var CanonicalAliases = map[string][]string{
	// TMDB tv genres
	"sci-fi-fantasy":   {"science-fiction", "fantasy"},
	"action-adventure": {"action", "adventure"},
	"war-politics":     {"war", "politics"},
	"kids":             {"family"},
	"soap":             {"drama"},
	"talk":             {"talk-show"},

	// Common spellings
	"sci-fi":                 {"science-fiction"},
	"scifi":                  {"science-fiction"},
	"sf":                     {"science-fiction"},
	"rom-com":                {"romance", "comedy"},
	"romcom":                 {"romance", "comedy"},
	"romantic-comedy":        {"romance", "comedy"},
	"docu":                   {"documentary"},
	"documentaries":          {"documentary"},
	"animated":               {"animation"},
	"anime":                  {"animation"},
	"suspense":               {"thriller"},
	"crime-thriller":         {"crime", "thriller"},
	"psychological-thriller": {"thriller"},
	"musical":                {"music"},
	"tv-movie":               {"tv-movie"},
}

// Slugs returns the canonical slugs for a list of genre names, expanded
// through CanonicalAliases, deduplicated, in first-seen order.
func Slugs(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		slug := Slugify(name)
		if slug == "" {
			continue
		}
		canonical, ok := CanonicalAliases[slug]
		if !ok {
			canonical = []string{slug}
		}
		for _, c := range canonical {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}
