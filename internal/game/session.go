package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/match"
	"github.com/tkoide/isekadle/internal/pool"
)

// State is the session lifecycle.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateWon
	StateLost
)

// Stored outcome labels for persisted rounds.
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in progress"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "idle"
	}
}

// Guess-submission and round-start rejections. None of these leave the
// session mutated.
var (
	ErrRoundOver         = errors.New("round is over")
	ErrAlreadyGuessed    = errors.New("already guessed")
	ErrNoGuessesLeft     = errors.New("no guesses left")
	ErrNotInPool         = errors.New("not in the guessable pool")
	ErrTargetUnavailable = errors.New("target not available under current filters")
	ErrEmptyPool         = errors.New("no candidates under current filters")
)

// Guess is one recorded submission with its scored verdicts.
type Guess struct {
	Candidate *pool.Candidate
	Verdicts  map[string]Verdict
	Correct   bool
}

// HintState tracks whether a hint has been revealed and whether it is open.
type HintState struct {
	Seen bool `json:"seen"`
	Open bool `json:"open"`
}

// Session is one isolated round: pools, target, guesses and hint state. It is
// constructed per round and mutated only through its command methods, so two
// sessions never share state.
type Session struct {
	cfg        *catalog.Config
	settings   pool.Settings
	entries    []catalog.Entry
	comparator *Comparator
	rng        *rand.Rand

	pool      *pool.Pool
	guessable []*pool.Candidate
	target    *pool.Candidate

	guesses    []*Guess
	guessedIDs map[string]struct{}
	skips      int
	hints      map[string]*HintState
	state      State
	dailyID    string
}

// NewSession builds a session over the catalog with the given settings. A nil
// rng gets a time-seeded source; tests pass a fixed seed for determinism.
func NewSession(entries []catalog.Entry, cfg *catalog.Config, settings pool.Settings, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		cfg:        cfg,
		settings:   settings,
		entries:    entries,
		comparator: NewComparator(cfg, match.NewIndex(cfg.SimilarityGroups)),
		rng:        rng,
		state:      StateIdle,
	}
}

// StartRound rebuilds the pools, clears all per-round state and picks a
// target: a uniform draw from the answer pool, or the given id when forced
// (daily mode). A forced id that does not resolve under the current filters
// leaves the session idle and reports ErrTargetUnavailable.
func (s *Session) StartRound(targetID string) error {
	s.pool = pool.Build(s.entries, s.cfg, s.settings)
	s.guessable = make([]*pool.Candidate, len(s.pool.Candidates))
	copy(s.guessable, s.pool.Candidates)
	s.guesses = nil
	s.guessedIDs = make(map[string]struct{})
	s.skips = 0
	s.hints = make(map[string]*HintState)
	s.dailyID = targetID
	s.state = StateIdle

	if len(s.pool.Candidates) == 0 {
		return ErrEmptyPool
	}
	if targetID != "" {
		target := s.pool.Lookup(targetID)
		if target == nil {
			return fmt.Errorf("daily id %s: %w", targetID, ErrTargetUnavailable)
		}
		s.target = target
	} else {
		s.target = s.pool.Candidates[s.rng.Intn(len(s.pool.Candidates))]
	}
	s.state = StateInProgress
	return nil
}

// SubmitGuess scores the candidate with the given id against the target and
// advances the state machine. Rejections (finished round, duplicate id,
// exhausted guesses, unknown id) mutate nothing.
func (s *Session) SubmitGuess(id string) (*Guess, error) {
	if s.state != StateInProgress {
		return nil, ErrRoundOver
	}
	if s.GuessesExhausted() {
		return nil, ErrNoGuessesLeft
	}
	if _, dup := s.guessedIDs[id]; dup {
		return nil, ErrAlreadyGuessed
	}
	candidate := s.pool.Lookup(id)
	if candidate == nil {
		return nil, fmt.Errorf("guess %s: %w", id, ErrNotInPool)
	}

	guess := &Guess{
		Candidate: candidate,
		Verdicts:  s.comparator.Compare(candidate.Entry, s.target.Entry),
		Correct:   s.isCorrect(candidate),
	}
	s.guessedIDs[id] = struct{}{}
	s.guesses = append(s.guesses, guess)
	s.removeFromGuessable(id)

	if guess.Correct {
		s.state = StateWon
	} else if s.GuessesExhausted() {
		s.state = StateLost
	}
	return guess, nil
}

func (s *Session) isCorrect(candidate *pool.Candidate) bool {
	if candidate.ID == s.target.ID {
		return true
	}
	if s.settings.Mode(s.cfg) == catalog.ModeGrouped {
		return candidate.GroupID() == s.target.GroupID()
	}
	return false
}

func (s *Session) removeFromGuessable(id string) {
	for i, c := range s.guessable {
		if c.ID == id {
			s.guessable = append(s.guessable[:i], s.guessable[i+1:]...)
			return
		}
	}
}

// Suggest ranks the still-guessable candidates against a query.
func (s *Session) Suggest(query string, limit int) []*pool.Candidate {
	return pool.Search(query, s.guessable, limit)
}

// GuessCount is the unlock counter: submitted guesses plus skips taken.
func (s *Session) GuessCount() int {
	return len(s.guesses) + s.skips
}

// MaxGuesses returns the configured guess budget, or 0 for unlimited.
func (s *Session) MaxGuesses() int {
	if s.cfg.MaxGuesses > 0 {
		return s.cfg.MaxGuesses
	}
	return 0
}

// GuessesExhausted reports whether the guess-plus-skip budget is spent.
func (s *Session) GuessesExhausted() bool {
	max := s.MaxGuesses()
	return max > 0 && s.GuessCount() >= max
}

// Hint lifecycle. A hint unlocks once the guess-plus-skip counter reaches its
// threshold and stays toggleable from then on; opening it marks it seen.

// HintUnlocked reports whether the hint's threshold has been reached.
func (s *Session) HintUnlocked(hint catalog.Hint) bool {
	return s.GuessCount() >= hint.UnlockAt
}

// HintState returns the current state of a hint key.
func (s *Session) HintState(key string) HintState {
	if st, ok := s.hints[key]; ok {
		return *st
	}
	return HintState{}
}

// ToggleHint opens or closes an unlocked hint and returns whether it is now
// open. Locked hints do not react.
func (s *Session) ToggleHint(hint catalog.Hint) bool {
	if !s.HintUnlocked(hint) {
		return false
	}
	st, ok := s.hints[hint.Key]
	if !ok {
		st = &HintState{}
		s.hints[hint.Key] = st
	}
	st.Open = !st.Open
	if st.Open {
		st.Seen = true
	}
	return st.Open
}

// SkipToNextHint trades guess slots for the next unseen hint: the skip
// counter jumps to that hint's threshold, the hint opens, and every other
// hint closes. Skipping can exhaust the budget and lose the round. Returns
// the revealed hint, or false when every hint has been seen.
func (s *Session) SkipToNextHint() (catalog.Hint, bool) {
	if s.state != StateInProgress {
		return catalog.Hint{}, false
	}
	var next *catalog.Hint
	for i := range s.cfg.Hints {
		if !s.HintState(s.cfg.Hints[i].Key).Seen {
			next = &s.cfg.Hints[i]
			break
		}
	}
	if next == nil {
		return catalog.Hint{}, false
	}
	if next.UnlockAt > s.GuessCount() {
		s.skips += next.UnlockAt - s.GuessCount()
	}
	for _, hint := range s.cfg.Hints {
		st, ok := s.hints[hint.Key]
		if !ok {
			st = &HintState{}
			s.hints[hint.Key] = st
		}
		if hint.Key == next.Key {
			st.Seen = true
			st.Open = true
		} else {
			st.Open = false
		}
	}
	if s.GuessesExhausted() {
		s.state = StateLost
	}
	return *next, true
}

// HintValue resolves the target's value for a hint key: the synopsis, a
// category value, or one of the entry's own fields; "-" when absent.
func (s *Session) HintValue(key string) string {
	if s.target == nil {
		return "-"
	}
	entry := s.target.Entry
	switch key {
	case "synopsis":
		return orDash(entry.Synopsis)
	case "type":
		return orDash(entry.Type)
	case "status":
		return orDash(entry.Status)
	case "members":
		if entry.Members > 0 {
			return fmt.Sprintf("%d", entry.Members)
		}
		return "-"
	}
	if _, ok := entry.Categories[key]; ok {
		if list := entry.List(key); list != nil {
			return orDash(strings.Join(list, ", "))
		}
		if n, ok := entry.Number(key); ok {
			return formatNumber(n)
		}
		return orDash(entry.Text(key))
	}
	return "-"
}

// Accessors for the presentation layer.

func (s *Session) State() State                 { return s.state }
func (s *Session) Target() *pool.Candidate      { return s.target }
func (s *Session) Guesses() []*Guess            { return s.guesses }
func (s *Session) Skips() int                   { return s.skips }
func (s *Session) DailyID() string              { return s.dailyID }
func (s *Session) Config() *catalog.Config      { return s.cfg }
func (s *Session) Pool() *pool.Pool             { return s.pool }
func (s *Session) Guessable() []*pool.Candidate { return s.guessable }

// Comparator exposes the scorer for presentation-side re-rendering.
func (s *Session) Comparator() *Comparator { return s.comparator }

// Restore replays a persisted round: guesses in submission order, then the
// skip count and hint state, then the recorded outcome. Guesses replay before
// skips are applied so a saved skip count cannot trip the exhaustion check
// mid-replay. A round lost purely by skips has no final guess to retrigger
// the transition, so the stored outcome settles the state; without one the
// budget is re-checked after replay. Unknown guess ids are dropped rather
// than failing, since filters may have changed since the round was saved.
func (s *Session) Restore(guessIDs []string, skips int, hints map[string]HintState, outcome string) {
	for key, st := range hints {
		copied := st
		s.hints[key] = &copied
	}
	for _, id := range guessIDs {
		if _, err := s.SubmitGuess(id); err != nil {
			continue
		}
	}
	s.skips = skips
	switch outcome {
	case OutcomeWon:
		s.state = StateWon
	case OutcomeLost:
		s.state = StateLost
	default:
		if s.state == StateInProgress && s.GuessesExhausted() {
			s.state = StateLost
		}
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
