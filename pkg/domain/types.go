package domain

import "time"

type BookStatus string

const (
	StatusProcessing BookStatus = "processing"
	StatusReady      BookStatus = "ready"
	StatusFailed     BookStatus = "failed"
)

// User is the account record returned by the auth endpoints.
type User struct {
	ID        int        `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Token is the bearer credential returned by login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Book struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author,omitempty"`
	Filename    string     `json:"filename"`
	Status      BookStatus `json:"status"`
	TotalPages  int        `json:"total_pages"`
	CurrentPage int        `json:"current_page"`
	Progress    float64    `json:"progress"`
	OwnerID     int        `json:"owner_id"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// BookUpdate is a partial update; nil fields are left unchanged.
type BookUpdate struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	CurrentPage *int    `json:"current_page,omitempty"`
}

// PageText is the extracted text of a single book page.
type PageText struct {
	Text string `json:"text"`
}

type DictionaryEntry struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	Word         string     `json:"word"`
	Definition   string     `json:"definition"`
	Context      string     `json:"context,omitempty"`
	BookID       *int       `json:"book_id,omitempty"`
	PageNumber   *int       `json:"page_number,omitempty"`
	Phonetic     string     `json:"phonetic,omitempty"`
	AudioURL     string     `json:"audio_url,omitempty"`
	PartOfSpeech string     `json:"part_of_speech,omitempty"`
	Examples     []string   `json:"examples,omitempty"`
	Mastered     int        `json:"mastered"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// DictionaryEntryCreate is the payload for adding a word to the
// personal dictionary.
type DictionaryEntryCreate struct {
	Word         string   `json:"word"`
	Definition   string   `json:"definition"`
	Context      string   `json:"context,omitempty"`
	BookID       *int     `json:"book_id,omitempty"`
	PageNumber   *int     `json:"page_number,omitempty"`
	Phonetic     string   `json:"phonetic,omitempty"`
	AudioURL     string   `json:"audio_url,omitempty"`
	PartOfSpeech string   `json:"part_of_speech,omitempty"`
	Examples     []string `json:"examples,omitempty"`
}

// DictionaryEntryUpdate is a partial update; nil fields are left unchanged.
type DictionaryEntryUpdate struct {
	Definition *string  `json:"definition,omitempty"`
	Context    *string  `json:"context,omitempty"`
	Mastered   *int     `json:"mastered,omitempty"`
	Examples   []string `json:"examples,omitempty"`
}

// WordLookup is the result of a remote dictionary lookup.
type WordLookup struct {
	Word      string `json:"word"`
	Phonetic  string `json:"phonetic,omitempty"`
	Meanings  []any  `json:"meanings"`
	Phonetics []any  `json:"phonetics"`
}

type ReadingSession struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	BookID           int       `json:"book_id"`
	DurationMinutes  int       `json:"duration_minutes"`
	StartPage        *int      `json:"start_page,omitempty"`
	EndPage          *int      `json:"end_page,omitempty"`
	WordsEncountered int       `json:"words_encountered"`
	WordsSaved       int       `json:"words_saved"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ReadingSessionCreate starts a new reading session.
type ReadingSessionCreate struct {
	BookID          int  `json:"book_id"`
	DurationMinutes int  `json:"duration_minutes"`
	StartPage       *int `json:"start_page,omitempty"`
	EndPage         *int `json:"end_page,omitempty"`
}

// ReadingSessionUpdate ends or amends a session; nil fields are left unchanged.
type ReadingSessionUpdate struct {
	EndPage          *int `json:"end_page,omitempty"`
	WordsEncountered *int `json:"words_encountered,omitempty"`
	WordsSaved       *int `json:"words_saved,omitempty"`
}

// ReadingStats is the server-side aggregate over all of a user's sessions.
type ReadingStats struct {
	TotalSessions        int     `json:"total_sessions"`
	TotalMinutes         int     `json:"total_minutes"`
	TotalBooks           int     `json:"total_books"`
	TotalWordsSaved      int     `json:"total_words_saved"`
	AverageSessionLength float64 `json:"average_session_length"`
	FavoriteReadingTime  string  `json:"favorite_reading_time,omitempty"`
}

type TimerPreset struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

// Health is the liveness probe response.
type Health struct {
	Status string `json:"status"`
}
