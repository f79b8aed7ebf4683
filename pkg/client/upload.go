package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"readmark/pkg/domain"
)

// DefaultChunkSize is the threshold above which uploads switch to the
// chunked session protocol, and the size of each chunk.
const DefaultChunkSize int64 = 5 << 20

// UploadOptions carries optional metadata and the optional progress channel
// for an upload. OnProgress receives cumulative bytes transferred; it is a
// notification channel only, the method still returns the final record.
type UploadOptions struct {
	Title      string
	Author     string
	OnProgress func(sent, total int64, pct float64)
}

func (o UploadOptions) notify(sent, total int64) {
	if o.OnProgress == nil {
		return
	}
	pct := 0.0
	if total > 0 {
		pct = float64(sent) / float64(total) * 100
	}
	o.OnProgress(sent, total, pct)
}

type uploadSessionStart struct {
	Filename    string `json:"filename"`
	FileSize    int64  `json:"file_size"`
	TotalChunks int    `json:"total_chunks"`
	FileHash    string `json:"file_hash"`
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
}

type uploadSessionCreated struct {
	SessionID string `json:"session_id"`
}

// UploadBookFile uploads the file at path, chunking it when it exceeds the
// configured chunk size.
func (c *Client) UploadBookFile(ctx context.Context, path string, opts UploadOptions) (domain.Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Book{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return domain.Book{}, fmt.Errorf("stat file: %w", err)
	}
	return c.UploadBook(ctx, filepath.Base(path), file, info.Size(), opts)
}

// UploadBook transfers a book file of the given size.
//
// Files at or below the chunk size go up in a single multipart request with
// no session. Larger files are hashed (SHA-256 over the full content, hex
// encoded — part of the start-session contract), split into
// ceil(size/chunkSize) chunks, and uploaded in strictly ascending index
// order, each awaited before the next, followed by exactly one complete
// call. A rejected chunk is not retried here; the classified error
// propagates and the caller may restart the sequence.
func (c *Client) UploadBook(ctx context.Context, filename string, content io.ReaderAt, size int64, opts UploadOptions) (domain.Book, error) {
	if size <= c.chunkSize {
		return c.uploadDirect(ctx, filename, io.NewSectionReader(content, 0, size), size, opts)
	}

	fileHash, err := hashContent(content, size)
	if err != nil {
		return domain.Book{}, fmt.Errorf("hash file: %w", err)
	}
	totalChunks := int((size + c.chunkSize - 1) / c.chunkSize)

	var created uploadSessionCreated
	start := uploadSessionStart{
		Filename:    filename,
		FileSize:    size,
		TotalChunks: totalChunks,
		FileHash:    fileHash,
		Title:       opts.Title,
		Author:      opts.Author,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/books/upload-session", nil, start, &created); err != nil {
		return domain.Book{}, err
	}

	for index := 0; index < totalChunks; index++ {
		offset := int64(index) * c.chunkSize
		length := c.chunkSize
		if remaining := size - offset; remaining < length {
			length = remaining
		}
		chunk := io.NewSectionReader(content, offset, length)

		var chunkSent int64
		report := func(n int64) {
			chunkSent += n
			if chunkSent > length {
				chunkSent = length
			}
			opts.notify(offset+chunkSent, size)
		}
		if err := c.uploadChunk(ctx, created.SessionID, index, totalChunks, chunk, report); err != nil {
			return domain.Book{}, err
		}
		opts.notify(offset+length, size)
	}

	var book domain.Book
	complete := map[string]string{"session_id": created.SessionID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/books/complete-upload", nil, complete, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (c *Client) uploadDirect(ctx context.Context, filename string, r io.Reader, size int64, opts UploadOptions) (domain.Book, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return domain.Book{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return domain.Book{}, err
	}
	if opts.Title != "" {
		if err := writer.WriteField("title", opts.Title); err != nil {
			return domain.Book{}, err
		}
	}
	if opts.Author != "" {
		if err := writer.WriteField("author", opts.Author); err != nil {
			return domain.Book{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return domain.Book{}, err
	}

	var book domain.Book
	if err := c.do(ctx, http.MethodPost, "/api/books/upload", nil, body, writer.FormDataContentType(), &book); err != nil {
		return domain.Book{}, err
	}
	opts.notify(size, size)
	return book, nil
}

// uploadChunk streams one chunk through a pipe so report tracks bytes as the
// transport sends them, not as the body is assembled.
func (c *Client) uploadChunk(ctx context.Context, sessionID string, index, totalChunks int, chunk *io.SectionReader, report func(int64)) error {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if err := writer.WriteField("session_id", sessionID); err != nil {
				return err
			}
			if err := writer.WriteField("chunk_index", strconv.Itoa(index)); err != nil {
				return err
			}
			if err := writer.WriteField("total_chunks", strconv.Itoa(totalChunks)); err != nil {
				return err
			}
			part, err := writer.CreateFormFile("chunk", fmt.Sprintf("chunk-%d", index))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, &progressReader{r: chunk, report: report}); err != nil {
				return err
			}
			return writer.Close()
		}()
		pw.CloseWithError(err)
	}()

	return c.do(ctx, http.MethodPost, "/api/books/upload-chunk", nil, pr, writer.FormDataContentType(), nil)
}

func hashContent(content io.ReaderAt, size int64) (string, error) {
	digest := sha256.New()
	if _, err := io.Copy(digest, io.NewSectionReader(content, 0, size)); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

type progressReader struct {
	r      io.Reader
	report func(n int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.report != nil {
		p.report(int64(n))
	}
	return n, err
}
