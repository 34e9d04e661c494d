package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/service"
)

func (s *Server) registerEntryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEntries",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries",
		Summary:     "List entries",
		Description: "Returns the filtered library with Smart Scores, in the requested order",
		Tags:        []string{"Entries"},
	}, s.handleListEntries)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createEntry",
		Method:        http.MethodPost,
		Path:          "/api/v1/entries",
		Summary:       "Add entry",
		Description:   "Adds a movie or series. A title and year already in the library is rejected with 409 DUPLICATE",
		Tags:          []string{"Entries"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Get entry",
		Tags:        []string{"Entries"},
	}, s.handleGetEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceEntry",
		Method:      http.MethodPut,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Replace entry",
		Description: "Replaces every field of an entry, keeping its id",
		Tags:        []string{"Entries"},
	}, s.handleReplaceEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/entries/{id}",
		Summary:     "Delete entry",
		Tags:        []string{"Entries"},
	}, s.handleDeleteEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "rateEntry",
		Method:      http.MethodPut,
		Path:        "/api/v1/entries/{id}/rating",
		Summary:     "Set sub-ratings",
		Description: "Sets story, acting and visuals; overall becomes their mean",
		Tags:        []string{"Entries"},
	}, s.handleRateEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "quickRateEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/{id}/quick-rate",
		Summary:     "Quick rate",
		Description: "Sets the overall rating directly, leaving sub-ratings untouched",
		Tags:        []string{"Entries"},
	}, s.handleQuickRate)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleWatched",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/{id}/toggle-watched",
		Summary:     "Toggle watched",
		Tags:        []string{"Entries"},
	}, s.handleToggleWatched)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/{id}/toggle-favorite",
		Summary:     "Toggle favorite",
		Tags:        []string{"Entries"},
	}, s.handleToggleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "togglePin",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/{id}/toggle-pin",
		Summary:     "Toggle pin",
		Tags:        []string{"Entries"},
	}, s.handleTogglePin)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEpisode",
		Method:      http.MethodPost,
		Path:        "/api/v1/entries/{id}/episode",
		Summary:     "Update episode progress",
		Description: "Moves the current episode by delta. Past episode 10 it rolls into the next season when startNextSeason is set",
		Tags:        []string{"Entries"},
	}, s.handleUpdateEpisode)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEntryScore",
		Method:      http.MethodGet,
		Path:        "/api/v1/entries/{id}/score",
		Summary:     "Get Smart Score",
		Tags:        []string{"Entries"},
	}, s.handleGetScore)

	huma.Register(s.api, huma.Operation{
		OperationID: "genreAverages",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/averages",
		Summary:     "Genre averages",
		Description: "Returns the mean overall rating per genre over rated entries",
		Tags:        []string{"Entries"},
	}, s.handleGenreAverages)
}

// === DTOs ===

// ListEntriesInput contains filter and sort parameters.
type ListEntriesInput struct {
	Tab       string  `query:"tab" doc:"movies, series, favorites or history"`
	Type      string  `query:"type" doc:"movie or series"`
	Status    string  `query:"status" doc:"Watch status"`
	Genre     string  `query:"genre" doc:"Genre name"`
	MinRating float64 `query:"minRating" minimum:"0" maximum:"10" doc:"Minimum overall rating"`
	Search    string  `query:"search" doc:"Title substring"`
	Sort      string  `query:"sort" doc:"smartScore, dateAdded, rating, title, year or recentlyWatched"`
}

// ListEntriesResponse contains a list of entries.
type ListEntriesResponse struct {
	Entries []service.ScoredEntry `json:"entries" doc:"Entries in display order"`
	Total   int                   `json:"total" doc:"Number of entries returned"`
}

// ListEntriesOutput wraps the list entries response for Huma.
type ListEntriesOutput struct {
	Body ListEntriesResponse
}

// RatingRequest carries per-aspect scores on a 0-10 scale.
type RatingRequest struct {
	Story   *float64 `json:"story,omitempty" minimum:"0" maximum:"10" doc:"Story score"`
	Acting  *float64 `json:"acting,omitempty" minimum:"0" maximum:"10" doc:"Acting score"`
	Visuals *float64 `json:"visuals,omitempty" minimum:"0" maximum:"10" doc:"Visuals score"`
	Overall *float64 `json:"overall,omitempty" minimum:"0" maximum:"10" doc:"Overall score, used only when no sub-score is sent"`
}

// EntryRequest is the request body for creating or replacing an entry.
type EntryRequest struct {
	Type           domain.MediaType   `json:"type" enum:"movie,series" doc:"movie or series"`
	Title          string             `json:"title" minLength:"1" doc:"Title"`
	Year           int                `json:"year,omitempty" doc:"Release year"`
	Genres         []string           `json:"genres,omitempty" doc:"Genres"`
	Poster         string             `json:"poster,omitempty" doc:"Poster URL"`
	Description    string             `json:"description,omitempty" doc:"Synopsis"`
	Director       string             `json:"director,omitempty" doc:"Director"`
	Cast           []string           `json:"cast,omitempty" doc:"Top billed cast"`
	Runtime        int                `json:"runtime,omitempty" doc:"Runtime in minutes"`
	Seasons        int                `json:"seasons,omitempty" doc:"Number of seasons"`
	CurrentSeason  int                `json:"currentSeason,omitempty" doc:"Current season"`
	CurrentEpisode int                `json:"currentEpisode,omitempty" doc:"Current episode"`
	Status         domain.WatchStatus `json:"status,omitempty" enum:"want_to_watch,watching,watched,dropped" doc:"Watch status"`
	Rating         *RatingRequest     `json:"rating,omitempty" doc:"Ratings"`
	RewatchCount   int                `json:"rewatchCount,omitempty" doc:"Times rewatched"`
	StreamingURL   string             `json:"streamingUrl,omitempty" doc:"Streaming deep link"`
	IMDbID         string             `json:"imdbId,omitempty" doc:"IMDb id"`
	TMDbID         int                `json:"tmdbId,omitempty" doc:"TMDB id"`
	TMDbPopularity float64            `json:"tmdbPopularity,omitempty" doc:"TMDB popularity"`
	VoteAverage    float64            `json:"vote_average,omitempty" doc:"TMDB vote average"`
	PersonalNote   string             `json:"personalNote,omitempty" doc:"Personal note"`
	DateWatched    *time.Time         `json:"dateWatched,omitempty" doc:"When it was watched"`
	Tags           []string           `json:"tags,omitempty" doc:"Free-form tags"`
	IsFavorite     bool               `json:"isFavorite,omitempty" doc:"Marked favorite"`
	IsPinned       bool               `json:"isPinned,omitempty" doc:"Pinned to the top of the watchlist"`
}

// toEntry converts the request into a domain entry. The service fills ids,
// dates and defaults. Overall is derived from the sub-scores whenever any
// is sent.
func (r *EntryRequest) toEntry() domain.Entry {
	e := domain.Entry{
		Type:           r.Type,
		Title:          r.Title,
		Year:           r.Year,
		Genres:         r.Genres,
		Poster:         r.Poster,
		Description:    r.Description,
		Director:       r.Director,
		Cast:           r.Cast,
		Runtime:        r.Runtime,
		Seasons:        r.Seasons,
		CurrentSeason:  r.CurrentSeason,
		CurrentEpisode: r.CurrentEpisode,
		Status:         r.Status,
		RewatchCount:   r.RewatchCount,
		StreamingURL:   r.StreamingURL,
		IMDbID:         r.IMDbID,
		TMDbID:         r.TMDbID,
		TMDbPopularity: r.TMDbPopularity,
		VoteAverage:    r.VoteAverage,
		PersonalNote:   r.PersonalNote,
		DateWatched:    r.DateWatched,
		Tags:           r.Tags,
		IsFavorite:     r.IsFavorite,
		IsPinned:       r.IsPinned,
	}
	if r.Rating != nil {
		e.Rating = domain.Rating{
			Story:   r.Rating.Story,
			Acting:  r.Rating.Acting,
			Visuals: r.Rating.Visuals,
			Overall: r.Rating.Overall,
		}.Consistent()
	}
	return e
}

// CreateEntryInput wraps the create entry request for Huma.
type CreateEntryInput struct {
	Body EntryRequest
}

// EntryOutput wraps a single entry for Huma.
type EntryOutput struct {
	Body domain.Entry
}

// EntryIDInput identifies an entry by path.
type EntryIDInput struct {
	ID string `path:"id" doc:"Entry ID"`
}

// ReplaceEntryInput wraps the replace entry request for Huma.
type ReplaceEntryInput struct {
	ID   string `path:"id" doc:"Entry ID"`
	Body EntryRequest
}

// SubRatingsRequest is the request body for setting sub-ratings.
type SubRatingsRequest struct {
	Story   *float64 `json:"story,omitempty" minimum:"0" maximum:"10" doc:"Story score, omitted to clear"`
	Acting  *float64 `json:"acting,omitempty" minimum:"0" maximum:"10" doc:"Acting score, omitted to clear"`
	Visuals *float64 `json:"visuals,omitempty" minimum:"0" maximum:"10" doc:"Visuals score, omitted to clear"`
}

// RateEntryInput wraps the sub-ratings request for Huma.
type RateEntryInput struct {
	ID   string `path:"id" doc:"Entry ID"`
	Body SubRatingsRequest
}

// QuickRateRequest is the request body for quick-rate.
type QuickRateRequest struct {
	Overall float64 `json:"overall" minimum:"0" maximum:"10" doc:"Overall score"`
}

// QuickRateInput wraps the quick-rate request for Huma.
type QuickRateInput struct {
	ID   string `path:"id" doc:"Entry ID"`
	Body QuickRateRequest
}

// EpisodeRequest is the request body for episode progress.
type EpisodeRequest struct {
	Delta           int  `json:"delta" doc:"Episodes to move forward, negative to go back"`
	StartNextSeason bool `json:"startNextSeason,omitempty" doc:"Roll into the next season after episode 10"`
}

// EpisodeInput wraps the episode request for Huma.
type EpisodeInput struct {
	ID   string `path:"id" doc:"Entry ID"`
	Body EpisodeRequest
}

// ScoreResponse contains an entry's Smart Score.
type ScoreResponse struct {
	ID         string  `json:"id" doc:"Entry ID"`
	SmartScore float64 `json:"smartScore" doc:"Smart Score, 0 to 100"`
}

// ScoreOutput wraps the score response for Huma.
type ScoreOutput struct {
	Body ScoreResponse
}

// GenreAveragesResponse contains per-genre averages.
type GenreAveragesResponse struct {
	Genres []domain.GenreAverage `json:"genres" doc:"Genres by descending average"`
}

// GenreAveragesOutput wraps the genre averages response for Huma.
type GenreAveragesOutput struct {
	Body GenreAveragesResponse
}

// MessageResponse contains a confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleListEntries(_ context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	sortBy := domain.SortMode(input.Sort)
	if sortBy != "" && !sortBy.Valid() {
		return nil, domainerrors.Validationf("unknown sort %q", input.Sort)
	}

	filter := domain.EntryFilter{
		Tab:       domain.Tab(input.Tab),
		Type:      domain.MediaType(input.Type),
		Status:    domain.WatchStatus(input.Status),
		Genre:     input.Genre,
		MinRating: input.MinRating,
		Query:     input.Search,
	}
	entries := s.services.Library.List(filter, sortBy)

	return &ListEntriesOutput{Body: ListEntriesResponse{Entries: entries, Total: len(entries)}}, nil
}

func (s *Server) handleCreateEntry(ctx context.Context, input *CreateEntryInput) (*EntryOutput, error) {
	res, err := s.services.Library.Add(ctx, input.Body.toEntry())
	if err != nil {
		return nil, err
	}
	if err := duplicateError(res); err != nil {
		return nil, err
	}
	return &EntryOutput{Body: res.Entry}, nil
}

func (s *Server) handleGetEntry(_ context.Context, input *EntryIDInput) (*EntryOutput, error) {
	e, err := s.services.Library.Get(input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) handleReplaceEntry(ctx context.Context, input *ReplaceEntryInput) (*EntryOutput, error) {
	e, err := s.services.Library.Replace(ctx, input.ID, input.Body.toEntry())
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, input *EntryIDInput) (*MessageOutput, error) {
	if err := s.services.Library.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Entry deleted"}}, nil
}

func (s *Server) handleRateEntry(ctx context.Context, input *RateEntryInput) (*EntryOutput, error) {
	e, err := s.services.Library.SetSubRatings(ctx, input.ID, input.Body.Story, input.Body.Acting, input.Body.Visuals)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) handleQuickRate(ctx context.Context, input *QuickRateInput) (*EntryOutput, error) {
	e, err := s.services.Library.QuickRate(ctx, input.ID, input.Body.Overall)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) handleToggleWatched(ctx context.Context, input *EntryIDInput) (*EntryOutput, error) {
	e, err := s.services.Library.ToggleWatched(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *EntryIDInput) (*EntryOutput, error) {
	e, err := s.services.Library.ToggleFavorite(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) handleTogglePin(ctx context.Context, input *EntryIDInput) (*EntryOutput, error) {
	e, err := s.services.Library.TogglePin(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) handleUpdateEpisode(ctx context.Context, input *EpisodeInput) (*EntryOutput, error) {
	e, err := s.services.Library.UpdateEpisode(ctx, input.ID, input.Body.Delta, input.Body.StartNextSeason)
	if err != nil {
		return nil, err
	}
	return &EntryOutput{Body: e}, nil
}

func (s *Server) handleGetScore(_ context.Context, input *EntryIDInput) (*ScoreOutput, error) {
	score, err := s.services.Library.Score(input.ID)
	if err != nil {
		return nil, err
	}
	return &ScoreOutput{Body: ScoreResponse{ID: input.ID, SmartScore: score}}, nil
}

func (s *Server) handleGenreAverages(_ context.Context, _ *struct{}) (*GenreAveragesOutput, error) {
	return &GenreAveragesOutput{Body: GenreAveragesResponse{Genres: s.services.Library.GenreAverages()}}, nil
}

// duplicateError turns a rejected add into a 409 carrying the stored
// notification. It returns nil for a successful add.
func duplicateError(res service.AddResult) error {
	if !res.Duplicate {
		return nil
	}
	msg := "entry is already in your library"
	if res.Notification != nil {
		msg = res.Notification.Message
	}
	return domainerrors.Duplicatef("%s", msg).WithDetails(res.Notification)
}
