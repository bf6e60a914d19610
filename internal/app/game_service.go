package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"signparty-service/internal/domain"
)

// SessionRepository abstracts how game sessions are stored.
type SessionRepository interface {
	Put(id string, session *GameSession)
	Get(id string) (*GameSession, bool)
	Delete(id string)
}

// CatalogRepository loads sign catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) ([]domain.SignEntry, error)
}

// ProgressRecorder receives the activity stream a session produces.
type ProgressRecorder interface {
	RecordRound(ctx context.Context, sign domain.SignEntry, mode domain.Mode, correct bool) error
	RecordGameResult(ctx context.Context, result domain.GameResult) error
}

// GameService contains the party-game use cases.
type GameService struct {
	sessions SessionRepository
	catalogs CatalogRepository
	progress ProgressRecorder
	delay    time.Duration
	log      *logrus.Logger
}

// NewGameService wires the session engine to its collaborators.
// progress may be nil when no tracker is configured.
func NewGameService(sessions SessionRepository, catalogs CatalogRepository, progress ProgressRecorder, advanceDelay time.Duration, log *logrus.Logger) *GameService {
	if log == nil {
		log = logrus.New()
	}
	return &GameService{
		sessions: sessions,
		catalogs: catalogs,
		progress: progress,
		delay:    advanceDelay,
		log:      log,
	}
}

// StartInput names everything needed to open a session.
type StartInput struct {
	SessionID      string
	CatalogID      string
	MainPlayer     string
	Players        []string
	Mode           domain.Mode
	QuestionsCount int
}

// Start validates the roster, loads the catalog, and opens a session.
// Roster problems come back as *ValidationError; an empty or missing
// catalog degrades to a terminal no-content session rather than a fault.
func (s *GameService) Start(ctx context.Context, in StartInput) (domain.SessionSnapshot, error) {
	builder := NewRosterBuilder(in.MainPlayer)
	for _, name := range in.Players {
		builder.AddPlayer(name)
	}
	params, verr := builder.Build(in.QuestionsCount)
	if verr != nil {
		return domain.SessionSnapshot{}, verr
	}

	signs, err := s.catalogs.GetCatalog(ctx, in.CatalogID)
	if err != nil {
		s.log.WithError(err).WithField("catalog", in.CatalogID).Error("catalog unavailable, starting without content")
		signs = nil
	}

	session := NewGameSession(in.SessionID, params, in.Mode, signs, s.delay)
	session.onRoundComplete = func(sign domain.SignEntry, mode domain.Mode, correct bool) {
		s.recordRound(sign, mode, correct)
	}
	session.onGameOver = func(result domain.GameResult) {
		s.recordGameResult(result)
	}
	s.sessions.Put(in.SessionID, session)
	return session.Snapshot(), nil
}

// SubmitAnswer records a guess-mode choice for a player.
func (s *GameService) SubmitAnswer(_ context.Context, sessionID, playerName, choice string) (domain.SessionSnapshot, bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, false, domain.ErrSessionNotFound
	}
	correct, err := session.submitAnswer(playerName, choice)
	if err != nil {
		return domain.SessionSnapshot{}, false, err
	}
	return session.Snapshot(), correct, nil
}

// Judge resolves a perform-mode round for the named player.
func (s *GameService) Judge(_ context.Context, sessionID, playerName string, correct bool) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	if err := session.judge(playerName, correct); err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Reveal shows the current sign's answer in perform mode.
func (s *GameService) Reveal(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	if err := session.reveal(); err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// SetMode switches the session mode, resetting the game in flight.
func (s *GameService) SetMode(_ context.Context, sessionID string, mode domain.Mode) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	session.setMode(mode)
	return session.Snapshot(), nil
}

// Subscribe returns a channel of session snapshots. The caller must
// invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionSnapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// End abandons a session: the round timer stops and the session is
// dropped from the store.
func (s *GameService) End(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.end()
	s.sessions.Delete(sessionID)
}

func (s *GameService) recordRound(sign domain.SignEntry, mode domain.Mode, correct bool) {
	if s.progress == nil {
		return
	}
	if err := s.progress.RecordRound(context.Background(), sign, mode, correct); err != nil {
		s.log.WithError(err).Warn("failed to record round activity")
	}
}

func (s *GameService) recordGameResult(result domain.GameResult) {
	if s.progress == nil {
		return
	}
	if err := s.progress.RecordGameResult(context.Background(), result); err != nil {
		s.log.WithError(err).Warn("failed to record game result")
	}
}
