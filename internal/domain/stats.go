package domain

// LibraryStats is the dashboard summary of a library.
type LibraryStats struct {
	TotalEntries    int                 `json:"totalEntries"`
	Movies          int                 `json:"movies"`
	Series          int                 `json:"series"`
	ByStatus        map[WatchStatus]int `json:"byStatus"`
	Watched         int                 `json:"watched"`
	Favorites       int                 `json:"favorites"`
	Rated           int                 `json:"rated"`
	AverageRating   *float64            `json:"averageRating"`
	TotalRuntime    int                 `json:"totalRuntimeMinutes"`
	GenreCounts     map[string]int      `json:"genreCounts"`
	TopGenres       []GenreAverage      `json:"topGenres"`
	RatingHistogram map[int]int         `json:"ratingHistogram"`
	CurrentStreak   int                 `json:"currentStreak"`
	BestStreak      int                 `json:"bestStreak"`
}

// GenreAverage pairs a genre with its mean overall rating.
type GenreAverage struct {
	Genre   string  `json:"genre"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
