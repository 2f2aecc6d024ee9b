package pkgmeta_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"romkit/internal/pkgmeta"
)

func TestPyPIClientLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pypi/diambra-arena/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"info":{"name":"diambra-arena","version":"2.2.7"},"releases":{}}`))
	}))
	defer server.Close()

	client := pkgmeta.NewPyPIClient(server.URL+"/pypi/", pkgmeta.WithHTTPClient(server.Client()))
	got, err := client.Latest(context.Background(), "diambra-arena")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != "2.2.7" {
		t.Fatalf("got %q", got)
	}
}

func TestPyPIClientReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := pkgmeta.NewPyPIClient(server.URL).Latest(context.Background(), "nope")
	if err == nil || !strings.Contains(err.Error(), "http 404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestPyPIClientRejectsEmptyVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"info":{}}`))
	}))
	defer server.Close()

	if _, err := pkgmeta.NewPyPIClient(server.URL).Latest(context.Background(), "diambra-arena"); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestPyPIClientRequiresName(t *testing.T) {
	if _, err := pkgmeta.NewPyPIClient("").Latest(context.Background(), " "); err == nil {
		t.Fatal("expected error")
	}
}
