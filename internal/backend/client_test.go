package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListProjectsSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/projects" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode([]SharedProject{{ID: 7, Name: "Shared Saga"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	list, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if len(list) != 1 || list[0].Name != "Shared Saga" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestGetManifestDecodesProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/7/manifest" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"project_id":7,"version":3,"manifest":{"name":"Shared Saga","continuities":[{"id":"t1","name":"Main","x":0,"y":0,"chapters":[]}]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	env, err := c.GetManifest(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetManifest error: %v", err)
	}
	if env.Version != 3 || env.Manifest.Name != "Shared Saga" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if len(env.Manifest.Continuities) != 1 {
		t.Fatalf("manifest continuities missing")
	}
}

func TestClientReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.ListProjects(context.Background()); err == nil {
		t.Fatalf("expected error for 403 response")
	}
}

func TestFromEnvDisabledWithoutURL(t *testing.T) {
	t.Setenv("PL_SHARE_URL", "")
	if c := FromEnv(); c != nil {
		t.Fatalf("expected nil client when sharing unset")
	}
	t.Setenv("PL_SHARE_URL", "https://example.test/")
	t.Setenv("PL_SHARE_TOKEN", "tok")
	c := FromEnv()
	if c == nil || c.BaseURL != "https://example.test" || c.Token != "tok" {
		t.Fatalf("unexpected client: %+v", c)
	}
}
