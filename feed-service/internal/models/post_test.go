package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want string
	}{
		{0, "Just now"},
		{59 * time.Minute, "Just now"},
		{time.Hour, "1h ago"},
		{23*time.Hour + 59*time.Minute, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{75 * time.Hour, "3d ago"},
	}
	for _, tc := range cases {
		if got := TimeAgo(now.Add(-tc.age), now); got != tc.want {
			t.Errorf("TimeAgo(%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Transport, Port-Barton ,,", "VAN-share", "  "})
	want := []string{"transport", "port-barton", "van-share"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTagListAcceptsStringOrArray(t *testing.T) {
	var req PostRequest
	if err := json.Unmarshal([]byte(`{"tags":"hiking, sunrise"}`), &req); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(NormalizeTags(req.Tags), []string{"hiking", "sunrise"}) {
		t.Errorf("string form: %v", req.Tags)
	}

	if err := json.Unmarshal([]byte(`{"tags":["Visa","cambodia"]}`), &req); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(NormalizeTags(req.Tags), []string{"visa", "cambodia"}) {
		t.Errorf("array form: %v", req.Tags)
	}

	if err := json.Unmarshal([]byte(`{"tags":42}`), &req); err == nil {
		t.Error("expected error for numeric tags")
	}
}
