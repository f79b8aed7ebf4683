package client

import (
	"context"
	"fmt"
	"net/http"

	"readmark/pkg/domain"
)

// CreateReadingSession starts a reading session for a book.
func (c *Client) CreateReadingSession(ctx context.Context, create domain.ReadingSessionCreate) (domain.ReadingSession, error) {
	var created domain.ReadingSession
	if err := c.doJSON(ctx, http.MethodPost, "/api/reading/session", nil, create, &created); err != nil {
		return domain.ReadingSession{}, err
	}
	return created, nil
}

// UpdateReadingSession ends or amends a session. Providing EndPage also
// advances the book's reading progress server-side.
func (c *Client) UpdateReadingSession(ctx context.Context, id int, update domain.ReadingSessionUpdate) (domain.ReadingSession, error) {
	var updated domain.ReadingSession
	path := fmt.Sprintf("/api/reading/session/%d", id)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, update, &updated); err != nil {
		return domain.ReadingSession{}, err
	}
	return updated, nil
}

// ListReadingSessions returns past sessions, newest first.
func (c *Client) ListReadingSessions(ctx context.Context, opts ListOptions) ([]domain.ReadingSession, error) {
	var sessions []domain.ReadingSession
	if err := c.doJSON(ctx, http.MethodGet, "/api/reading/sessions", opts.query(), nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ReadingStats returns the server-side aggregate over all sessions.
func (c *Client) ReadingStats(ctx context.Context) (domain.ReadingStats, error) {
	var stats domain.ReadingStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/reading/stats", nil, nil, &stats); err != nil {
		return domain.ReadingStats{}, err
	}
	return stats, nil
}

// TimerPresets returns the server's suggested reading timer durations.
func (c *Client) TimerPresets(ctx context.Context) ([]domain.TimerPreset, error) {
	var presets []domain.TimerPreset
	if err := c.doJSON(ctx, http.MethodGet, "/api/reading/timer/presets", nil, nil, &presets); err != nil {
		return nil, err
	}
	return presets, nil
}
