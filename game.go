package main

import (
	"strings"
	"time"
)

// normalizeGuess trims and lowercases a guess string for comparison.
func normalizeGuess(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// classifyGuess classifies a raw guess against the current session. Pure:
// no state change, deterministic for a given (guess, session) pair.
// Priority order: empty input is ignored, then correct answers, then
// guesses that are not in the gazetteer, then wrong-but-valid countries.
func classifyGuess(raw string, s *GameSession) string {
	guess := normalizeGuess(raw)
	if guess == "" {
		return OutcomeIgnored
	}
	if guess == s.Target {
		return OutcomeCorrect
	}
	if _, ok := s.Aliases[guess]; ok {
		return OutcomeCorrect
	}
	if _, ok := s.ValidCountries[guess]; !ok {
		return OutcomeInvalidCountry
	}
	return OutcomeWrongValid
}

// NewGameSession constructs a session and applies the given round data.
func NewGameSession(data RoundData) *GameSession {
	s := &GameSession{}
	s.LoadRound(data)
	return s
}

// LoadRound replaces the whole session state with a fresh round. All fields
// are assigned in one pass so a caller never observes a partial update.
// A payload without a country is substituted with the built-in default
// round, and an empty gazetteer falls back to the built-in default list,
// so the session always ends up playable.
func (s *GameSession) LoadRound(data RoundData) {
	if strings.TrimSpace(data.Country) == "" {
		logWarn("Round payload missing country, substituting default round")
		data = defaultRound()
	}

	target := normalizeGuess(data.Country)

	valid := data.ValidCountries
	if len(valid) == 0 {
		logWarn("Round payload has empty gazetteer, using built-in default")
		valid = defaultGazetteer()
	}
	validSet := make(map[string]struct{}, len(valid))
	for _, name := range valid {
		validSet[normalizeGuess(name)] = struct{}{}
	}

	hints := make([]string, len(data.Hints))
	copy(hints, data.Hints)

	s.Target = target
	s.Aliases = aliasesFor(target)
	s.Hints = hints
	s.ValidCountries = validSet
	s.WrongAttempts = 0
	s.Status = StatusPlaying
	s.RevealedHintCount = 1
	s.Round = data
	s.LastAccessTime = time.Now()
}

// SubmitGuess runs one step of the state machine. Safe to call in any
// status: once the round is won or lost it is a no-op that reports the
// current state, so late or duplicate input events cannot corrupt a
// finished round.
func (s *GameSession) SubmitGuess(raw string) GuessResult {
	res := GuessResult{
		Status:        s.Status,
		WrongAttempts: s.WrongAttempts,
	}

	if s.Status != StatusPlaying {
		res.Outcome = OutcomeIgnored
		res.CorrectAnswer = s.Target
		return res
	}

	outcome := classifyGuess(raw, s)
	res.Outcome = outcome

	switch outcome {
	case OutcomeIgnored, OutcomeInvalidCountry:
		// No attempt counted, no hint revealed.

	case OutcomeCorrect:
		s.Status = StatusWon
		s.LastAccessTime = time.Now()
		res.Status = StatusWon
		res.CorrectAnswer = s.Target
		res.JustWon = true
		logInfo("Player won, target country was: %s", s.Target)

	case OutcomeWrongValid:
		s.WrongAttempts++
		s.LastAccessTime = time.Now()
		res.WrongAttempts = s.WrongAttempts
		if s.WrongAttempts >= MaxErrors {
			s.Status = StatusLost
			res.Status = StatusLost
			res.CorrectAnswer = s.Target
			logInfo("Player lost after %d wrong guesses, target country was: %s", s.WrongAttempts, s.Target)
		} else {
			// Hint 1 is shown at load; each wrong-valid guess reveals the
			// next one. The bound check never fires with MaxErrors ==
			// MaxHints but guards against shorter hint lists.
			next := s.WrongAttempts + 1
			if next <= MaxHints && next <= len(s.Hints) && next > s.RevealedHintCount {
				s.RevealedHintCount = next
				res.RevealedHintIndex = next
			}
		}
	}

	return res
}

// Reset fetches a new round and applies it. If the fetch fails the
// previous round's data is re-applied instead, so the session always
// returns to a playable state rather than locking up. When two resets
// race, whichever LoadRound runs last wins wholesale.
func (s *GameSession) Reset(fetch RoundFetcher) error {
	data, err := fetch()
	if err != nil {
		logWarn("Round fetch failed, keeping previous round: %v", err)
		data = s.Round
	}
	s.LoadRound(data)
	return err
}

// RevealedHints returns the hint texts revealed so far, in order.
func (s *GameSession) RevealedHints() []string {
	n := s.RevealedHintCount
	if n > len(s.Hints) {
		n = len(s.Hints)
	}
	if n < 0 {
		n = 0
	}
	return s.Hints[:n]
}

// InputDisabled reports whether the UI should stop accepting guesses.
func (s *GameSession) InputDisabled() bool {
	return s.Status != StatusPlaying
}

// Answer returns the target country once the round has ended, and an
// empty string while it is still in play.
func (s *GameSession) Answer() string {
	if s.Status == StatusPlaying {
		return ""
	}
	return s.Target
}

// ImageRef returns the round image path once the round has ended; the
// silhouette stays hidden while the player is still guessing.
func (s *GameSession) ImageRef() string {
	if s.Status == StatusPlaying {
		return ""
	}
	return s.Round.ImagePath
}
