package domain

// Suggestion is a title recommended by the suggestion provider.
type Suggestion struct {
	Title              string    `json:"title"`
	Year               int       `json:"year"`
	Type               MediaType `json:"type"`
	Reason             string    `json:"reason"`
	AlreadyInWatchlist bool      `json:"alreadyInWatchlist"`
	IMDbID             *string   `json:"imdb_id"`
	Poster             *string   `json:"poster"`
}

// StremioImport is the export file produced by Stremio library exporters.
type StremioImport struct {
	ExportedAt string        `json:"exported_at"`
	Source     string        `json:"source"`
	Version    string        `json:"version"`
	Items      []StremioItem `json:"items" validate:"required,dive"`
}

// StremioItem is one title in a Stremio export.
type StremioItem struct {
	IMDbID string      `json:"imdb_id"`
	Title  string      `json:"title" validate:"required"`
	Type   MediaType   `json:"type" validate:"required,oneof=movie series"`
	Status WatchStatus `json:"status" validate:"omitempty,oneof=want_to_watch watching watched dropped"`
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Added   []Entry `json:"added"`
	Skipped int     `json:"skipped"`
	// Unenriched counts entries kept as skeletons because metadata lookup failed.
	Unenriched int `json:"unenriched"`
}
