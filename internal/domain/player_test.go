package domain

import "testing"

func TestRecordAnswerFirstAnswer(t *testing.T) {
	p := NewPlayer("Alice", false)

	p.RecordAnswer(true)
	if p.Score() != 1 {
		t.Fatalf("expected score 1 after correct answer, got %d", p.Score())
	}
	if !p.HasAnswered() || !p.AnswerCorrect() {
		t.Fatalf("expected answered+correct, got answered=%v correct=%v", p.HasAnswered(), p.AnswerCorrect())
	}

	p.ResetForNewRound()
	p.RecordAnswer(false)
	if p.Score() != 1 {
		t.Fatalf("expected wrong answer to leave score at 1, got %d", p.Score())
	}
}

func TestRecordAnswerChangeRevertsScore(t *testing.T) {
	p := NewPlayer("You", true)

	p.RecordAnswer(true)
	p.RecordAnswer(false) // same round, correct -> incorrect
	if p.Score() != 0 {
		t.Fatalf("expected score to revert to 0, got %d", p.Score())
	}

	p.RecordAnswer(true) // incorrect -> correct
	if p.Score() != 1 {
		t.Fatalf("expected score back to 1, got %d", p.Score())
	}

	p.RecordAnswer(true) // same -> same
	if p.Score() != 1 {
		t.Fatalf("expected unchanged score, got %d", p.Score())
	}
}

// Final score must equal the number of rounds whose final answer was
// correct, regardless of intermediate changes.
func TestRecordAnswerFinalAnswerWins(t *testing.T) {
	p := NewPlayer("Bob", false)
	rounds := [][]bool{
		{true},
		{true, false},
		{false, true, false, true},
		{false, false},
		{true, true, true},
	}
	want := 0
	for _, answers := range rounds {
		for _, correct := range answers {
			p.RecordAnswer(correct)
		}
		if answers[len(answers)-1] {
			want++
		}
		p.ResetForNewRound()
	}
	if p.Score() != want {
		t.Fatalf("expected score %d, got %d", want, p.Score())
	}
}

func TestResetForNewRoundClearsState(t *testing.T) {
	p := NewPlayer("Alice", false)
	p.RecordAnswer(true)
	p.ResetForNewRound()
	if p.HasAnswered() || p.AnswerCorrect() {
		t.Fatalf("expected cleared round state")
	}
	if p.Score() != 1 {
		t.Fatalf("reset must not touch score, got %d", p.Score())
	}
}

func TestOnChangeFires(t *testing.T) {
	p := NewPlayer("Alice", false)
	calls := 0
	p.OnChange(func() { calls++ })

	p.RecordAnswer(true)
	p.ResetForNewRound()
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
}
