// Package search provides full-text search over the library using Bleve,
// with fuzzy title matching and genre/type/status filters.
package search

import (
	"strings"

	"github.com/HO1806/reeltrack/internal/domain"
	"github.com/HO1806/reeltrack/internal/genre"
)

// EntryDocument is the Bleve document for one library entry.
//
// Cast and genre names are flattened into single strings so one match query
// covers every name.
type EntryDocument struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Director    string   `json:"director,omitempty"`
	Cast        string   `json:"cast,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	GenreSlugs  []string `json:"genre_slugs,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Year        int      `json:"year,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Favorite    bool     `json:"favorite"`
	DateAdded   int64    `json:"date_added"` // Unix millis
}

// NewEntryDocument builds the index document for e.
func NewEntryDocument(e *domain.Entry) *EntryDocument {
	return &EntryDocument{
		ID:          e.ID,
		Type:        string(e.Type),
		Status:      string(e.Status),
		Title:       e.Title,
		Description: e.Description,
		Director:    e.Director,
		Cast:        strings.Join(e.Cast, ", "),
		Notes:       e.PersonalNote,
		GenreSlugs:  genre.Slugs(e.Genres),
		Tags:        e.Tags,
		Year:        e.Year,
		Rating:      e.Rating.OverallOr(0),
		Favorite:    e.IsFavorite,
		DateAdded:   e.DateAdded.UnixMilli(),
	}
}

// ToMap converts the document to a map keyed by the mapping's field names.
// Empty optional fields are left out.
func (d *EntryDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       d.Type,
		"status":     d.Status,
		"title":      d.Title,
		"favorite":   d.Favorite,
		"date_added": d.DateAdded,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Director != "" {
		m["director"] = d.Director
	}
	if d.Cast != "" {
		m["cast"] = d.Cast
	}
	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	if len(d.GenreSlugs) > 0 {
		m["genre_slugs"] = d.GenreSlugs
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}
	if d.Rating > 0 {
		m["rating"] = d.Rating
	}
	return m
}
