package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"readmark/pkg/domain"
)

// ListOptions are the shared pagination parameters for list endpoints.
type ListOptions struct {
	Skip  int
	Limit int
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Skip > 0 {
		q.Set("skip", strconv.Itoa(o.Skip))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// ListBooks returns the caller's library.
func (c *Client) ListBooks(ctx context.Context, opts ListOptions) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.doJSON(ctx, http.MethodGet, "/api/books/", opts.query(), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook returns a single book record.
func (c *Client) GetBook(ctx context.Context, id int) (domain.Book, error) {
	var book domain.Book
	path := fmt.Sprintf("/api/books/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// UpdateBook applies a partial update and returns the updated record.
func (c *Client) UpdateBook(ctx context.Context, id int, update domain.BookUpdate) (domain.Book, error) {
	var book domain.Book
	path := fmt.Sprintf("/api/books/%d", id)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, update, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// DeleteBook removes a book and its stored file.
func (c *Client) DeleteBook(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/books/%d", id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetPageText returns the extracted text of one page.
func (c *Client) GetPageText(ctx context.Context, id, page int) (domain.PageText, error) {
	var text domain.PageText
	path := fmt.Sprintf("/api/books/%d/page/%d", id, page)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &text); err != nil {
		return domain.PageText{}, err
	}
	return text, nil
}
