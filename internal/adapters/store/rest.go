package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/betalog/betalog/internal/auth"
	"github.com/betalog/betalog/pkg/metrics"
)

// Default REST client configuration.
const (
	defaultRequestTimeout = 10 * time.Second
)

// REST implements Store against a path-addressed JSON-over-HTTP backend.
// Documents live at {base}/{path}.json and every request carries the
// caller's auth token as a query parameter.
type REST struct {
	baseURL string
	client  *http.Client
	creds   auth.Source
}

// NewREST creates a REST store client. An empty credential from creds
// surfaces as ErrUnauthorized before any request is issued.
func NewREST(baseURL string, creds auth.Source, opts ...Option) *REST {
	s := &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
		creds:   creds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// endpoint builds the request URL for path, attaching the auth token and
// any extra query parameters.
func (s *REST) endpoint(path string, extra url.Values) (string, error) {
	token := s.creds.Token()
	if token == "" {
		return "", fmt.Errorf("building request for %q: %w", path, ErrUnauthorized)
	}
	q := url.Values{}
	q.Set("auth", token)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return fmt.Sprintf("%s/%s.json?%s", s.baseURL, strings.Trim(path, "/"), q.Encode()), nil
}

// do issues one request and maps the response status onto the store error
// taxonomy. The returned body may be the literal "null" for absent paths.
func (s *REST) do(ctx context.Context, op, method, path string, extra url.Values, body any) ([]byte, error) {
	endpoint, err := s.endpoint(path, extra)
	if err != nil {
		metrics.RecordStoreRequest(op, "unauthorized")
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			metrics.RecordStoreRequest(op, "error")
			return nil, fmt.Errorf("%s %s: encoding document: %w", op, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		metrics.RecordStoreRequest(op, "error")
		return nil, fmt.Errorf("%s %s: building request: %w", op, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	metrics.RecordStoreRequestDuration(op, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordStoreRequest(op, "transport")
		return nil, fmt.Errorf("%s %s: %w: %v", op, path, ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordStoreRequest(op, "transport")
		return nil, fmt.Errorf("%s %s: reading response: %w: %v", op, path, ErrTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.RecordStoreRequest(op, "unauthorized")
		return nil, fmt.Errorf("%s %s: %w", op, path, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordStoreRequest(op, "not_found")
		return nil, fmt.Errorf("%s %s: %w", op, path, ErrNotFound)
	case resp.StatusCode >= http.StatusInternalServerError:
		metrics.RecordStoreRequest(op, "transport")
		return nil, fmt.Errorf("%s %s: status %d: %w", op, path, resp.StatusCode, ErrTransport)
	case resp.StatusCode >= http.StatusBadRequest:
		metrics.RecordStoreRequest(op, "error")
		return nil, fmt.Errorf("%s %s: unexpected status %d", op, path, resp.StatusCode)
	}

	metrics.RecordStoreRequest(op, "ok")
	return raw, nil
}

// isNullBody reports whether the backend answered with a JSON null,
// which is how it encodes an absent path.
func isNullBody(raw []byte) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (s *REST) Get(ctx context.Context, path string) (json.RawMessage, error) {
	raw, err := s.do(ctx, "get", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if isNullBody(raw) {
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	return json.RawMessage(raw), nil
}

func (s *REST) GetAll(ctx context.Context, path string) ([]KeyedDocument, error) {
	raw, err := s.do(ctx, "get_all", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if isNullBody(raw) {
		return []KeyedDocument{}, nil
	}
	var children map[string]json.RawMessage
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("get_all %s: decoding response: %w", path, err)
	}
	docs := make([]KeyedDocument, 0, len(children))
	for key, doc := range children {
		docs = append(docs, KeyedDocument{Key: key, Document: doc})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

func (s *REST) Put(ctx context.Context, path string, doc any) error {
	_, err := s.do(ctx, "put", http.MethodPut, path, nil, doc)
	return err
}

func (s *REST) Post(ctx context.Context, path string, doc any) (string, error) {
	raw, err := s.do(ctx, "post", http.MethodPost, path, nil, doc)
	if err != nil {
		return "", err
	}
	var generated struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &generated); err != nil {
		return "", fmt.Errorf("post %s: decoding generated key: %w", path, err)
	}
	if generated.Name == "" {
		return "", fmt.Errorf("post %s: backend returned no key", path)
	}
	return generated.Name, nil
}

func (s *REST) Delete(ctx context.Context, path string) error {
	_, err := s.do(ctx, "delete", http.MethodDelete, path, nil, nil)
	// Deleting an absent path is a success per the store contract.
	if err != nil && IsNotFound(err) {
		return nil
	}
	return err
}

func (s *REST) ListChildKeys(ctx context.Context, path string) ([]string, error) {
	raw, err := s.do(ctx, "list_child_keys", http.MethodGet, path, url.Values{"shallow": {"true"}}, nil)
	if err != nil {
		return nil, err
	}
	if isNullBody(raw) {
		return []string{}, nil
	}
	var children map[string]any
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("list_child_keys %s: decoding response: %w", path, err)
	}
	keys := make([]string, 0, len(children))
	for key := range children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
