package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nomadpal/concierge-service/internal/models"
)

func TestRecommended(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/services/recommended" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("location") != "El Nido" || r.URL.Query().Get("limit") != "3" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"s1","type":"tour","title":"Island hopping","price":1200,"currency":"PHP","rating":4.9,"verified":true}]`))
	}))
	defer srv.Close()

	client := NewMarketplaceClient(srv.URL + "/")
	got, err := client.Recommended(context.Background(), "El Nido", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Island hopping" || !got[0].Verified {
		t.Errorf("got %+v", got)
	}
}

func TestRecommendedUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewMarketplaceClient(srv.URL).Recommended(context.Background(), "", 3)
	if !errors.Is(err, models.ErrUpstream) {
		t.Errorf("got %v, want ErrUpstream", err)
	}
}
