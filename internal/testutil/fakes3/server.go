// Package fakes3 runs an in-process S3-compatible server for tests, backed by
// gofakes3 with in-memory storage. Request signatures are not checked, so
// presigned URLs dereference like real ones.
package fakes3

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
)

// DefaultBucket is created when New is called without bucket names.
const DefaultBucket = "gallery"

// Object is a stored blob.
type Object struct {
	Body        []byte
	ContentType string
}

// Server wraps the gofakes3 handler to count PUTs and inject PUT failures.
type Server struct {
	*httptest.Server

	backend *s3mem.Backend
	faker   *gofakes3.GoFakeS3

	mu      sync.Mutex
	puts    int
	failPut *apiError
}

type apiError struct {
	status  int
	code    string
	message string
}

// New starts a server with the given buckets (DefaultBucket if none). It is
// closed when the test ends.
func New(t testing.TB, buckets ...string) *Server {
	t.Helper()
	if len(buckets) == 0 {
		buckets = []string{DefaultBucket}
	}

	backend := s3mem.New()
	for _, b := range buckets {
		if err := backend.CreateBucket(b); err != nil {
			t.Fatalf("create bucket %q: %v", b, err)
		}
	}

	s := &Server{backend: backend, faker: gofakes3.New(backend)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// FailPuts makes every following PUT answer with an S3 error document.
func (s *Server) FailPuts(status int, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut = &apiError{status: status, code: code, message: message}
}

// Puts reports how many PUT requests reached the server.
func (s *Server) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Object reads bucket/key from the backend.
func (s *Server) Object(bucket, key string) (Object, bool) {
	obj, err := s.backend.GetObject(bucket, key, nil)
	if err != nil {
		return Object{}, false
	}
	defer obj.Contents.Close()

	body, err := io.ReadAll(obj.Contents)
	if err != nil {
		return Object{}, false
	}
	return Object{Body: body, ContentType: obj.Metadata["Content-Type"]}, true
}

// Put seeds an object with an unsigned path-style PUT. Seeding does not
// count towards Puts.
func (s *Server) Put(t testing.TB, bucket, key string, body []byte, contentType string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/"+bucket+"/"+key, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.faker.Server().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed %s/%s: status %d: %s", bucket, key, rec.Code, rec.Body.String())
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPut {
		s.mu.Lock()
		s.puts++
		fail := s.failPut
		s.mu.Unlock()

		if fail != nil {
			_, _ = io.Copy(io.Discard, r.Body)
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(fail.status)
			_, _ = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message><RequestId>fake</RequestId></Error>`, fail.code, fail.message)
			return
		}
	}
	s.faker.Server().ServeHTTP(w, r)
}
