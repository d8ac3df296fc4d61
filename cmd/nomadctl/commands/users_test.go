package commands

import (
	"bytes"
	"strings"
	"testing"

	"nomadpal/internal/seed"
)

func TestPrintUsers(t *testing.T) {
	var buf bytes.Buffer
	printUsers(&buf, []seed.UserSummary{
		{ID: "1", Username: "sarah", Name: "Sarah Mitchell", Location: "El Nido, Philippines", TrustRating: 4.9, Verified: true, MemberType: "guide", Role: "user"},
		{ID: "2", Username: "jonas", Name: "Jonas Weber", Location: "Siem Reap, Cambodia", TrustRating: 5, MemberType: "traveler", Role: "user"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "4.9") || !strings.Contains(lines[1], "yes") {
		t.Errorf("sarah row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "5.0") || !strings.Contains(lines[2], "no") {
		t.Errorf("jonas row = %q", lines[2])
	}
}
