package config

import "testing"

// memStore is an in-memory TokenStore for tests.
type memStore struct {
	m map[string]string
}

func (s *memStore) key(service, key string) string { return service + "/" + key }

func (s *memStore) Get(service, key string) (string, error) {
	v, ok := s.m[s.key(service, key)]
	if !ok {
		return "", errNotFound
	}
	return v, nil
}

func (s *memStore) Set(service, key, value string) error {
	s.m[s.key(service, key)] = value
	return nil
}

func (s *memStore) Delete(service, key string) error {
	delete(s.m, s.key(service, key))
	return nil
}

var errNotFound = &notFoundErr{}

type notFoundErr struct{}

func (*notFoundErr) Error() string { return "not found" }

func withMemStore(t *testing.T) *memStore {
	t.Helper()
	prev := tokenStore
	ms := &memStore{m: map[string]string{}}
	tokenStore = ms
	t.Cleanup(func() { tokenStore = prev })
	return ms
}

func TestShareTokenRoundTrip(t *testing.T) {
	withMemStore(t)
	if got := ShareToken(); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
	if err := SetShareToken("  tok-123  "); err != nil {
		t.Fatalf("SetShareToken: %v", err)
	}
	if got := ShareToken(); got != "tok-123" {
		t.Fatalf("expected trimmed token, got %q", got)
	}
}

func TestSetShareTokenEmptyDeletes(t *testing.T) {
	ms := withMemStore(t)
	if err := SetShareToken("tok"); err != nil {
		t.Fatalf("SetShareToken: %v", err)
	}
	if err := SetShareToken(""); err != nil {
		t.Fatalf("SetShareToken empty: %v", err)
	}
	if len(ms.m) != 0 {
		t.Fatalf("expected store emptied, got %v", ms.m)
	}
	if got := ShareToken(); got != "" {
		t.Fatalf("expected empty token after delete, got %q", got)
	}
}
