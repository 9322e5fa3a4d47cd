package dashboard

import (
	"testing"
	"time"
)

func TestSearchURL(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Nuit Blanche 2026 & more", "https://www.google.com/search?q=Nuit%20Blanche%202026%20%26%20more"},
		{"1+1 (enfin)!", "https://www.google.com/search?q=1%2B1%20(enfin)!"},
		{"Fête d'été*", "https://www.google.com/search?q=F%C3%AAte%20d'%C3%A9t%C3%A9*"},
		{"a/b?c=d#e", "https://www.google.com/search?q=a%2Fb%3Fc%3Dd%23e"},
	}
	for _, tt := range tests {
		if got := SearchURL(tt.title); got != tt.want {
			t.Errorf("SearchURL(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestFormatSyncTimeUsesLocalClock(t *testing.T) {
	at := time.Date(2026, 10, 19, 21, 5, 0, 0, time.Local)
	if got := FormatSyncTime(at); got != "21:05" {
		t.Errorf("FormatSyncTime = %q, want 21:05", got)
	}
}

func TestSyncingOnlyWhileRefreshing(t *testing.T) {
	for p, want := range map[Phase]bool{
		PhaseLoading:    false,
		PhaseReady:      false,
		PhaseRefreshing: true,
		PhaseError:      false,
	} {
		if got := (State{Phase: p}).Syncing(); got != want {
			t.Errorf("Syncing(%v) = %v, want %v", p, got, want)
		}
	}
}
