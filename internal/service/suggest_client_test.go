package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/model"
)

func TestSuggestClient_Suggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client") != "firefox" || q.Get("ds") != "yt" {
			t.Errorf("unexpected params: %v", q)
		}
		if q.Get("q") != "drone reviews" {
			t.Errorf("q = %q, want %q", q.Get("q"), "drone reviews")
		}
		w.Write([]byte(`["drone reviews",["drone reviews 2024","drone reviews for beginners"]]`))
	}))
	defer server.Close()

	c := NewSuggestClient(server.URL, 0, nil, zerolog.New(io.Discard))
	got, err := c.Suggest(context.Background(), "drone reviews")
	if err != nil {
		t.Fatalf("Suggest returned error: %v", err)
	}

	want := []string{"drone reviews 2024", "drone reviews for beginners"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}
}

func TestSuggestClient_NonSuccessStatusReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewSuggestClient(server.URL, 0, nil, zerolog.New(io.Discard))
	got, err := c.Suggest(context.Background(), "drone")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Suggest = %v, want empty", got)
	}
}

func TestSuggestClient_BlankQuerySkipsRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewSuggestClient(server.URL, 0, nil, zerolog.New(io.Discard))
	got, err := c.Suggest(context.Background(), "   ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if called {
		t.Error("blank query should not reach the endpoint")
	}
	if len(got) != 0 {
		t.Errorf("Suggest = %v, want empty", got)
	}
}

func TestSuggestClient_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>nope</html>`))
	}))
	defer server.Close()

	c := NewSuggestClient(server.URL, 0, nil, zerolog.New(io.Discard))
	_, err := c.Suggest(context.Background(), "drone")
	if !model.IsUpstream(err) {
		t.Errorf("err = %v, want UpstreamError", err)
	}
}
