package app

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"signparty-service/internal/domain"
)

// Scheduler defers fn by delay and returns a stop function. The default
// wraps time.AfterFunc; tests inject a synchronous one.
type Scheduler func(delay time.Duration, fn func()) (stop func())

func timerScheduler(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

// GameSession drives one game from setup to game over: it serves signs
// drawn without replacement per lap, records answers through the Player
// records, shows feedback, and advances rounds after a fixed delay.
type GameSession struct {
	id      string
	params  domain.GameParameters
	catalog []domain.SignEntry
	delay   time.Duration

	mu            sync.RWMutex
	mode          domain.Mode
	state         domain.SessionState
	current       *domain.SignEntry
	remaining     []int
	served        int
	correctRounds int
	feedback      string
	signHidden    bool
	processing    bool
	startedAt     time.Time
	stopAdvance   func()
	subscribers   map[chan domain.SessionSnapshot]struct{}

	onRoundComplete func(sign domain.SignEntry, mode domain.Mode, correct bool)
	onGameOver      func(result domain.GameResult)

	now      func() time.Time
	rnd      *rand.Rand
	schedule Scheduler
}

// NewGameSession builds a session and serves the first sign. An empty
// catalog yields a terminal no-content session instead of an error.
func NewGameSession(id string, params domain.GameParameters, mode domain.Mode, signs []domain.SignEntry, delay time.Duration) *GameSession {
	return NewGameSessionWithClock(id, params, mode, signs, delay, time.Now, time.Now().UnixNano(), timerScheduler)
}

// NewGameSessionWithClock is test-only for deterministic timestamps,
// draws, and round advancement.
func NewGameSessionWithClock(id string, params domain.GameParameters, mode domain.Mode, signs []domain.SignEntry, delay time.Duration, now func() time.Time, seed int64, schedule Scheduler) *GameSession {
	s := &GameSession{
		id:          id,
		params:      params,
		catalog:     signs,
		delay:       delay,
		mode:        mode,
		state:       domain.StateLoading,
		subscribers: make(map[chan domain.SessionSnapshot]struct{}),
		now:         now,
		rnd:         rand.New(rand.NewSource(seed)),
		schedule:    schedule,
	}
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return s
}

// resetLocked returns the session to the start of a fresh game. Used at
// construction and on mode switches, which deliberately discard any
// in-flight state.
func (s *GameSession) resetLocked() {
	if s.stopAdvance != nil {
		s.stopAdvance()
		s.stopAdvance = nil
	}
	s.served = 0
	s.correctRounds = 0
	s.remaining = nil
	s.feedback = ""
	s.processing = false
	s.startedAt = s.now()
	for _, p := range s.params.Players {
		p.ResetForNewRound()
	}
	if len(s.catalog) == 0 {
		s.current = nil
		s.state = domain.StateNoContent
		return
	}
	s.nextSignLocked()
	s.signHidden = s.mode == domain.ModePerform
	s.state = domain.StateRoundActive
}

// nextSignLocked pops an unused catalog index; an exhausted pool is
// refilled with the full range, so repeats only happen across laps.
func (s *GameSession) nextSignLocked() {
	if len(s.remaining) == 0 {
		s.remaining = make([]int, len(s.catalog))
		for i := range s.remaining {
			s.remaining[i] = i
		}
	}
	i := s.rnd.Intn(len(s.remaining))
	idx := s.remaining[i]
	s.remaining = append(s.remaining[:i], s.remaining[i+1:]...)
	s.current = &s.catalog[idx]
	s.served++
}

func (s *GameSession) findPlayerLocked(name string) *domain.Player {
	for _, p := range s.params.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// submitAnswer records a guess-mode choice. The first answer of a round
// starts the feedback window and schedules the advance; during that
// window multiplayer participants may still change their answers, while
// single-player input is locked until the next round.
func (s *GameSession) submitAnswer(playerName, choice string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acceptingLocked(); err != nil {
		return false, err
	}
	if s.mode != domain.ModeGuess {
		return false, domain.ErrWrongMode
	}
	p := s.findPlayerLocked(playerName)
	if p == nil {
		return false, domain.ErrPlayerNotFound
	}

	correct := choice == s.current.CorrectAnswer
	p.RecordAnswer(correct)

	if correct {
		s.feedback = "Correct!"
	} else {
		s.feedback = fmt.Sprintf("Not quite — the sign was %q", s.current.CorrectAnswer)
	}
	s.beginFeedbackLocked()
	s.broadcastLocked()
	return correct, nil
}

// judge resolves a perform-mode round by explicit adjudication.
func (s *GameSession) judge(playerName string, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acceptingLocked(); err != nil {
		return err
	}
	if s.mode != domain.ModePerform {
		return domain.ErrWrongMode
	}
	p := s.findPlayerLocked(playerName)
	if p == nil {
		return domain.ErrPlayerNotFound
	}

	p.RecordAnswer(correct)
	if correct {
		s.feedback = fmt.Sprintf("%s nailed it!", p.Name)
	} else {
		s.feedback = fmt.Sprintf("%s missed this one", p.Name)
	}
	s.beginFeedbackLocked()
	s.broadcastLocked()
	return nil
}

// acceptingLocked reports whether answer input is currently allowed.
func (s *GameSession) acceptingLocked() error {
	switch s.state {
	case domain.StateGameOver:
		return domain.ErrSessionOver
	case domain.StateNoContent:
		return domain.ErrNoContent
	case domain.StateLoading:
		return domain.ErrRoundTransition
	}
	if s.processing {
		return domain.ErrRoundTransition
	}
	return nil
}

func (s *GameSession) beginFeedbackLocked() {
	if s.state != domain.StateRoundActive {
		return
	}
	s.state = domain.StateFeedback
	if !s.params.IsMultiplayer {
		// Single-player input stays locked until the round advances so a
		// second tap cannot land mid-transition.
		s.processing = true
	}
	if s.stopAdvance != nil {
		s.stopAdvance()
	}
	s.stopAdvance = s.schedule(s.delay, s.advance)
}

// reveal shows the hidden sign in perform mode. Signs stay hidden until
// explicitly requested.
func (s *GameSession) reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case domain.StateNoContent:
		return domain.ErrNoContent
	case domain.StateGameOver:
		return domain.ErrSessionOver
	}
	s.signHidden = false
	s.broadcastLocked()
	return nil
}

// setMode switches between guess and perform, fully resetting the game.
func (s *GameSession) setMode(mode domain.Mode) {
	s.mu.Lock()
	if mode == s.mode {
		s.mu.Unlock()
		return
	}
	s.mode = mode
	s.resetLocked()
	s.broadcastLocked()
	s.mu.Unlock()
}

// advance seals the current round and either serves the next sign or
// finishes the game once the configured question count has been served.
func (s *GameSession) advance() {
	s.mu.Lock()
	if s.state != domain.StateFeedback {
		s.mu.Unlock()
		return
	}
	s.stopAdvance = nil

	main := s.params.Players[0]
	answered := main.HasAnswered()
	correct := main.AnswerCorrect()
	if answered && correct {
		s.correctRounds++
	}
	sign := *s.current
	mode := s.mode
	roundDone := s.onRoundComplete

	if s.served >= s.params.QuestionsCount {
		s.state = domain.StateGameOver
		s.processing = false
		s.signHidden = false
		result := domain.GameResult{
			Mode:         mode,
			CorrectCount: s.correctRounds,
			TotalRounds:  s.served,
			Elapsed:      s.now().Sub(s.startedAt),
		}
		gameOver := s.onGameOver
		s.broadcastLocked()
		s.mu.Unlock()
		if roundDone != nil && answered {
			roundDone(sign, mode, correct)
		}
		if gameOver != nil {
			gameOver(result)
		}
		return
	}

	for _, p := range s.params.Players {
		p.ResetForNewRound()
	}
	s.nextSignLocked()
	s.feedback = ""
	s.signHidden = mode == domain.ModePerform
	s.processing = false
	s.state = domain.StateRoundActive
	s.broadcastLocked()
	s.mu.Unlock()

	if roundDone != nil && answered {
		roundDone(sign, mode, correct)
	}
}

// end abandons the session: the pending round timer is stopped and
// subscribers are released. No other cleanup is owed.
func (s *GameSession) end() {
	s.mu.Lock()
	if s.stopAdvance != nil {
		s.stopAdvance()
		s.stopAdvance = nil
	}
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
}

// IsOver reports whether the session reached a terminal state.
func (s *GameSession) IsOver() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == domain.StateGameOver || s.state == domain.StateNoContent
}

// Snapshot returns the current render state.
func (s *GameSession) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *GameSession) subscribe() (<-chan domain.SessionSnapshot, func()) {
	ch := make(chan domain.SessionSnapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *GameSession) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale update so a slow client never blocks the round.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *GameSession) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		SessionID:   s.id,
		State:       s.state,
		Mode:        s.mode,
		Round:       s.served,
		TotalRounds: s.params.QuestionsCount,
		SignHidden:  s.signHidden,
		Feedback:    s.feedback,
		UpdatedAt:   s.now(),
	}
	if s.current != nil {
		snap.VideoRef = s.current.VideoRef
		if s.mode == domain.ModeGuess {
			snap.Choices = append([]string(nil), s.current.Choices...)
		}
		if s.state == domain.StateFeedback || s.state == domain.StateGameOver || !s.signHidden && s.mode == domain.ModePerform {
			snap.Answer = s.current.CorrectAnswer
		}
	}

	entries := make([]domain.ScoreEntry, 0, len(s.params.Players))
	for _, p := range s.params.Players {
		entries = append(entries, p.Snapshot())
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	snap.Scoreboard = entries
	return snap
}
