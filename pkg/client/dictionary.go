package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"readmark/pkg/domain"
)

// LookupWord queries the remote dictionary for a definition.
func (c *Client) LookupWord(ctx context.Context, word string) (domain.WordLookup, error) {
	var lookup domain.WordLookup
	path := "/api/dictionary/lookup/" + url.PathEscape(word)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &lookup); err != nil {
		return domain.WordLookup{}, err
	}
	return lookup, nil
}

// CreateDictionaryEntry saves a word to the personal dictionary.
func (c *Client) CreateDictionaryEntry(ctx context.Context, entry domain.DictionaryEntryCreate) (domain.DictionaryEntry, error) {
	var created domain.DictionaryEntry
	if err := c.doJSON(ctx, http.MethodPost, "/api/dictionary/", nil, entry, &created); err != nil {
		return domain.DictionaryEntry{}, err
	}
	return created, nil
}

// DictionaryFilter narrows ListDictionaryEntries. Mastered filters on
// mastery state when non-nil.
type DictionaryFilter struct {
	ListOptions
	Mastered *bool
}

// ListDictionaryEntries returns saved words, newest first.
func (c *Client) ListDictionaryEntries(ctx context.Context, filter DictionaryFilter) ([]domain.DictionaryEntry, error) {
	q := filter.query()
	if filter.Mastered != nil {
		q.Set("mastered", strconv.FormatBool(*filter.Mastered))
	}
	var entries []domain.DictionaryEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/dictionary/", q, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateDictionaryEntry applies a partial update and returns the result.
func (c *Client) UpdateDictionaryEntry(ctx context.Context, id int, update domain.DictionaryEntryUpdate) (domain.DictionaryEntry, error) {
	var entry domain.DictionaryEntry
	path := fmt.Sprintf("/api/dictionary/%d", id)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, update, &entry); err != nil {
		return domain.DictionaryEntry{}, err
	}
	return entry, nil
}

// DeleteDictionaryEntry removes a saved word.
func (c *Client) DeleteDictionaryEntry(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/dictionary/%d", id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
