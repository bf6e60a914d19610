package app

import (
	"fmt"
	"strings"
	"unicode"

	"signparty-service/internal/domain"
)

const (
	// MaxRosterSize caps the total number of participants in a session.
	MaxRosterSize = 10
	// MaxNameLength caps a player name after trimming.
	MaxNameLength = 15
)

// ValidationError carries a human-readable roster problem back to the
// caller. It is a result value, not a fault: nothing in setup panics.
type ValidationError struct {
	Name    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RosterBuilder collects player names for a session and turns them into
// GameParameters. The main player is validated before the additions, in
// list order; the first violated rule wins.
type RosterBuilder struct {
	main   string
	extras []string
}

// NewRosterBuilder starts a roster with the main player's name.
func NewRosterBuilder(mainName string) *RosterBuilder {
	return &RosterBuilder{main: mainName}
}

// CanAddPlayer reports whether the roster has room for another player.
func (b *RosterBuilder) CanAddPlayer() bool {
	return 1+len(b.extras) < MaxRosterSize
}

// AddPlayer appends an additional player. Adding past the cap is a
// no-op; callers gate the control on CanAddPlayer.
func (b *RosterBuilder) AddPlayer(name string) {
	if !b.CanAddPlayer() {
		return
	}
	b.extras = append(b.extras, name)
}

// Size returns the current participant count including the main player.
func (b *RosterBuilder) Size() int { return 1 + len(b.extras) }

// Build validates every name and produces the parameter bundle for the
// session engine, or the first validation failure.
func (b *RosterBuilder) Build(questionsCount int) (domain.GameParameters, *ValidationError) {
	if questionsCount <= 0 {
		return domain.GameParameters{}, &ValidationError{Message: "questions count must be positive"}
	}

	seen := make(map[string]string, b.Size())
	players := make([]*domain.Player, 0, b.Size())

	main, verr := validateName(b.main, seen)
	if verr != nil {
		return domain.GameParameters{}, verr
	}
	players = append(players, domain.NewPlayer(main, true))

	for _, raw := range b.extras {
		name, verr := validateName(raw, seen)
		if verr != nil {
			return domain.GameParameters{}, verr
		}
		players = append(players, domain.NewPlayer(name, false))
	}

	return domain.GameParameters{
		IsMultiplayer:  len(players) > 1,
		Players:        players,
		QuestionsCount: questionsCount,
	}, nil
}

// validateName trims and checks one name against the roster rules,
// recording it in seen for case-insensitive uniqueness.
func validateName(raw string, seen map[string]string) (string, *ValidationError) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &ValidationError{Name: raw, Message: "player name cannot be empty"}
	}
	if len([]rune(name)) > MaxNameLength {
		return "", &ValidationError{
			Name:    name,
			Message: fmt.Sprintf("player name %q is too long (max %d characters)", name, MaxNameLength),
		}
	}
	for _, r := range name {
		if !isNameRune(r) {
			return "", &ValidationError{
				Name:    name,
				Message: fmt.Sprintf("player name %q contains invalid characters", name),
			}
		}
	}
	key := strings.ToLower(name)
	if taken, ok := seen[key]; ok {
		return "", &ValidationError{
			Name:    name,
			Message: fmt.Sprintf("player name %q is already taken by %q", name, taken),
		}
	}
	seen[key] = name
	return name, nil
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_'
}
