package domain

// Player is a per-participant record for one session. The score only
// changes through RecordAnswer, so the final score always equals the
// number of rounds whose last recorded answer was correct.
type Player struct {
	Name         string
	IsMainPlayer bool

	score     int
	answered  bool
	correct   bool
	observers []func()
}

// NewPlayer creates a player with a zero score.
func NewPlayer(name string, isMain bool) *Player {
	return &Player{Name: name, IsMainPlayer: isMain}
}

// OnChange registers a callback fired after every state mutation.
// Replaces the UI data-binding the record originally fed.
func (p *Player) OnChange(fn func()) {
	p.observers = append(p.observers, fn)
}

// Score returns the accumulated score.
func (p *Player) Score() int { return p.score }

// HasAnswered reports whether the player answered the current round.
func (p *Player) HasAnswered() bool { return p.answered }

// AnswerCorrect reports whether the current round's answer is correct.
// Only meaningful when HasAnswered is true.
func (p *Player) AnswerCorrect() bool { return p.correct }

// RecordAnswer records or revises the player's answer for the current
// round. A first answer awards a point iff correct; changing an answer
// applies the delta between old and new correctness.
func (p *Player) RecordAnswer(correct bool) {
	switch {
	case !p.answered:
		if correct {
			p.score++
		}
	case p.correct && !correct:
		p.score--
	case !p.correct && correct:
		p.score++
	}
	p.answered = true
	p.correct = correct
	p.notify()
}

// ResetForNewRound clears the per-round answer state.
func (p *Player) ResetForNewRound() {
	p.answered = false
	p.correct = false
	p.notify()
}

func (p *Player) notify() {
	for _, fn := range p.observers {
		fn()
	}
}

// Snapshot returns a read-only view for scoreboards.
func (p *Player) Snapshot() ScoreEntry {
	return ScoreEntry{
		Name:     p.Name,
		IsMain:   p.IsMainPlayer,
		Score:    p.score,
		Answered: p.answered,
		Correct:  p.correct,
	}
}
