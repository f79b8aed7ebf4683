package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"readmark/pkg/session"
)

// uploadRecorder is a fake server implementing the upload endpoints.
type uploadRecorder struct {
	mu sync.Mutex

	directCalls int
	startCalls  int
	starts      []map[string]any

	chunkIndexes []int
	chunkTotals  []int
	chunkBodies  [][]byte

	completeCalls    int
	completeSessions []string
}

func (u *uploadRecorder) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/books/upload", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.directCalls++
		u.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "title": "direct"})
	})
	mux.HandleFunc("/api/books/upload-session", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode start payload: %v", err)
		}
		u.mu.Lock()
		u.startCalls++
		u.starts = append(u.starts, payload)
		u.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"session_id": "sess-1"})
	})
	mux.HandleFunc("/api/books/upload-chunk", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse chunk form: %v", err)
			return
		}
		if got := r.FormValue("session_id"); got != "sess-1" {
			t.Errorf("chunk session_id %q, want sess-1", got)
		}
		index, _ := strconv.Atoi(r.FormValue("chunk_index"))
		total, _ := strconv.Atoi(r.FormValue("total_chunks"))
		file, _, err := r.FormFile("chunk")
		if err != nil {
			t.Errorf("chunk file: %v", err)
			return
		}
		data, _ := io.ReadAll(file)
		file.Close()
		u.mu.Lock()
		u.chunkIndexes = append(u.chunkIndexes, index)
		u.chunkTotals = append(u.chunkTotals, total)
		u.chunkBodies = append(u.chunkBodies, data)
		u.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/books/complete-upload", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		u.mu.Lock()
		u.completeCalls++
		u.completeSessions = append(u.completeSessions, payload["session_id"])
		u.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 9, "title": "assembled"})
	})
	return mux
}

func TestChunkedUploadSequence(t *testing.T) {
	recorder := &uploadRecorder{}
	srv := httptest.NewServer(recorder.handler(t))
	defer srv.Close()

	const chunkSize = 1024
	content := make([]byte, 2*chunkSize+512) // 3 chunks, last one partial
	if _, err := rand.Read(content); err != nil {
		t.Fatalf("rand: %v", err)
	}

	c := New(srv.URL, session.NewMemStore(), WithChunkSize(chunkSize))
	var lastSent int64
	book, err := c.UploadBook(context.Background(), "big.pdf", bytes.NewReader(content), int64(len(content)), UploadOptions{
		Title:  "Big Book",
		Author: "Anon",
		OnProgress: func(sent, total int64, pct float64) {
			if sent < lastSent {
				t.Errorf("progress went backwards: %d after %d", sent, lastSent)
			}
			if total != int64(len(content)) {
				t.Errorf("progress total %d, want %d", total, len(content))
			}
			lastSent = sent
		},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if book.ID != 9 {
		t.Fatalf("unexpected book: %+v", book)
	}

	if recorder.directCalls != 0 {
		t.Fatalf("chunked upload made %d direct calls", recorder.directCalls)
	}
	if recorder.startCalls != 1 {
		t.Fatalf("start called %d times, want 1", recorder.startCalls)
	}
	start := recorder.starts[0]
	if got := start["filename"]; got != "big.pdf" {
		t.Errorf("start filename %v", got)
	}
	if got := start["file_size"]; got != float64(len(content)) {
		t.Errorf("start file_size %v, want %d", got, len(content))
	}
	if got := start["total_chunks"]; got != float64(3) {
		t.Errorf("start total_chunks %v, want 3", got)
	}
	wantHash := sha256.Sum256(content)
	if got := start["file_hash"]; got != hex.EncodeToString(wantHash[:]) {
		t.Errorf("start file_hash %v", got)
	}
	if got := start["title"]; got != "Big Book" {
		t.Errorf("start title %v", got)
	}

	wantIndexes := []int{0, 1, 2}
	if len(recorder.chunkIndexes) != len(wantIndexes) {
		t.Fatalf("chunk calls %v, want %v", recorder.chunkIndexes, wantIndexes)
	}
	for i, index := range recorder.chunkIndexes {
		if index != wantIndexes[i] {
			t.Fatalf("chunk order %v, want strictly ascending %v", recorder.chunkIndexes, wantIndexes)
		}
		if recorder.chunkTotals[i] != 3 {
			t.Fatalf("chunk %d carried total_chunks %d, want 3", i, recorder.chunkTotals[i])
		}
	}

	var reassembled []byte
	for _, part := range recorder.chunkBodies {
		reassembled = append(reassembled, part...)
	}
	if !bytes.Equal(reassembled, content) {
		t.Fatal("reassembled chunks do not match the original content")
	}

	if recorder.completeCalls != 1 {
		t.Fatalf("complete called %d times, want 1", recorder.completeCalls)
	}
	if recorder.completeSessions[0] != "sess-1" {
		t.Fatalf("complete session %q, want sess-1", recorder.completeSessions[0])
	}
	if lastSent != int64(len(content)) {
		t.Fatalf("final progress %d, want %d", lastSent, len(content))
	}
}

func TestSmallUploadIsDirect(t *testing.T) {
	recorder := &uploadRecorder{}
	srv := httptest.NewServer(recorder.handler(t))
	defer srv.Close()

	content := []byte("small file body")
	c := New(srv.URL, session.NewMemStore(), WithChunkSize(1024))
	book, err := c.UploadBook(context.Background(), "small.pdf", bytes.NewReader(content), int64(len(content)), UploadOptions{})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if book.ID != 7 {
		t.Fatalf("unexpected book: %+v", book)
	}
	if recorder.directCalls != 1 {
		t.Fatalf("direct called %d times, want 1", recorder.directCalls)
	}
	if recorder.startCalls != 0 || len(recorder.chunkIndexes) != 0 || recorder.completeCalls != 0 {
		t.Fatalf("small upload touched the session protocol: starts=%d chunks=%d completes=%d",
			recorder.startCalls, len(recorder.chunkIndexes), recorder.completeCalls)
	}
}

func TestChunkFailureAbortsSequence(t *testing.T) {
	recorder := &uploadRecorder{}
	base := recorder.handler(t)
	var chunkCalls int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/books/upload-chunk" {
			mu.Lock()
			chunkCalls++
			calls := chunkCalls
			mu.Unlock()
			if calls == 2 {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "chunk store failed"})
				return
			}
		}
		base.ServeHTTP(w, r)
	}))
	defer srv.Close()

	content := make([]byte, 3*512)
	c := New(srv.URL, session.NewMemStore(), WithChunkSize(512))
	_, err := c.UploadBook(context.Background(), "big.pdf", bytes.NewReader(content), int64(len(content)), UploadOptions{})
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != CodeServerError {
		t.Fatalf("expected SERVER_ERROR from failed chunk, got %v", err)
	}
	// No retry and no completion after a rejected chunk.
	mu.Lock()
	defer mu.Unlock()
	if chunkCalls != 2 {
		t.Fatalf("chunk attempted %d times, want 2 (no retry)", chunkCalls)
	}
	if recorder.completeCalls != 0 {
		t.Fatalf("complete called after failed chunk")
	}
}
