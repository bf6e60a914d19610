package app

import (
	"strings"
	"testing"
)

func TestRosterBuildSinglePlayer(t *testing.T) {
	b := NewRosterBuilder("You")
	params, verr := b.Build(10)
	if verr != nil {
		t.Fatalf("build failed: %v", verr)
	}
	if params.IsMultiplayer {
		t.Fatalf("expected single-player params")
	}
	if len(params.Players) != 1 || !params.Players[0].IsMainPlayer {
		t.Fatalf("expected one main player, got %+v", params.Players)
	}
	if params.QuestionsCount != 10 {
		t.Fatalf("expected 10 questions, got %d", params.QuestionsCount)
	}
}

func TestRosterBuildMultiplayerOrder(t *testing.T) {
	b := NewRosterBuilder("You")
	b.AddPlayer("Alice")
	b.AddPlayer("Bob")

	params, verr := b.Build(5)
	if verr != nil {
		t.Fatalf("build failed: %v", verr)
	}
	if !params.IsMultiplayer {
		t.Fatalf("expected multiplayer params")
	}
	names := []string{params.Players[0].Name, params.Players[1].Name, params.Players[2].Name}
	if names[0] != "You" || names[1] != "Alice" || names[2] != "Bob" {
		t.Fatalf("expected list order preserved, got %v", names)
	}
}

func TestRosterRejectsCaseInsensitiveDuplicate(t *testing.T) {
	b := NewRosterBuilder("You")
	b.AddPlayer("you")

	_, verr := b.Build(5)
	if verr == nil {
		t.Fatalf("expected duplicate-name failure")
	}
	if !strings.Contains(verr.Message, "already taken") {
		t.Fatalf("expected duplicate message, got %q", verr.Message)
	}
}

func TestRosterNameRules(t *testing.T) {
	cases := []struct {
		name string
		main string
		want string
	}{
		{"empty", "   ", "cannot be empty"},
		{"too long", "abcdefghijklmnop", "too long"},
		{"bad charset", "Bad!Name", "invalid characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, verr := NewRosterBuilder(tc.main).Build(5)
			if verr == nil {
				t.Fatalf("expected validation failure for %q", tc.main)
			}
			if !strings.Contains(verr.Message, tc.want) {
				t.Fatalf("expected message containing %q, got %q", tc.want, verr.Message)
			}
		})
	}

	// Hyphen, underscore, space, and digits are all allowed.
	b := NewRosterBuilder("Player_1")
	b.AddPlayer("Mary-Jane II")
	if _, verr := b.Build(3); verr != nil {
		t.Fatalf("expected valid roster, got %v", verr)
	}
}

func TestRosterMainValidatedBeforeExtras(t *testing.T) {
	b := NewRosterBuilder("")
	b.AddPlayer("also bad!")

	_, verr := b.Build(5)
	if verr == nil || !strings.Contains(verr.Message, "cannot be empty") {
		t.Fatalf("expected main-player failure first, got %v", verr)
	}
}

func TestRosterCapIsNoOp(t *testing.T) {
	b := NewRosterBuilder("You")
	for i := 0; i < 20; i++ {
		if b.CanAddPlayer() {
			b.AddPlayer(playerName(i))
		} else {
			b.AddPlayer(playerName(i)) // must be ignored, not fail
		}
	}
	if b.Size() != MaxRosterSize {
		t.Fatalf("expected roster capped at %d, got %d", MaxRosterSize, b.Size())
	}
	params, verr := b.Build(5)
	if verr != nil {
		t.Fatalf("build failed: %v", verr)
	}
	if len(params.Players) != MaxRosterSize {
		t.Fatalf("expected %d players, got %d", MaxRosterSize, len(params.Players))
	}
}

func TestRosterRejectsZeroQuestions(t *testing.T) {
	if _, verr := NewRosterBuilder("You").Build(0); verr == nil {
		t.Fatalf("expected failure for zero questions")
	}
}

func playerName(i int) string {
	return "Player " + string(rune('A'+i))
}
