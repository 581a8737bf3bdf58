package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const sessionDir = "data/sessions"

// saveGameSessionToFile persists a game session to disk
var saveGameSessionToFile = func(sessionID string, session *GameSession) error {
	if sessionID == "" || len(sessionID) < 10 {
		logWarn("Skipping save for invalid session ID: %s", sessionID)
		return nil
	}

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		logWarn("Failed to create sessions directory: %v", err)
		return err
	}

	sessionFile := filepath.Join(sessionDir, sessionID+".json")
	session.LastAccessTime = time.Now()
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		logWarn("Failed to marshal session %s: %v", sessionID, err)
		return err
	}

	if err := os.WriteFile(sessionFile, data, 0644); err != nil {
		logWarn("Failed to write session file %s: %v", sessionFile, err)
		return err
	}
	return nil
}

// loadGameSessionFromFile loads a game session from disk. The derived
// lookup sets are not serialized, so the round data is re-applied and the
// saved progress restored on top of it. Stale or corrupted files are
// removed and reported as missing.
var loadGameSessionFromFile = func(sessionID string, maxAge time.Duration) (*GameSession, error) {
	if sessionID == "" || len(sessionID) < 10 {
		return nil, os.ErrNotExist
	}

	sessionFile := filepath.Join(sessionDir, sessionID+".json")
	info, err := os.Stat(sessionFile)
	if err != nil {
		return nil, err
	}

	if age := time.Since(info.ModTime()); age > maxAge {
		logInfo("Session file too old (%v, max %v), removing: %s", age, maxAge, sessionFile)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(sessionFile)
	if err != nil {
		return nil, err
	}

	var saved GameSession
	if err := json.Unmarshal(data, &saved); err != nil {
		logWarn("Session file %s corrupted, removing: %v", sessionFile, err)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	if saved.Round.Country == "" {
		logWarn("Session file %s has no round data, removing", sessionFile)
		os.Remove(sessionFile)
		return nil, os.ErrNotExist
	}

	session := NewGameSession(saved.Round)
	session.restoreProgress(&saved)
	return session, nil
}

// restoreProgress copies saved counters onto a freshly loaded round,
// clamping anything out of range back to playable values.
func (s *GameSession) restoreProgress(saved *GameSession) {
	switch saved.Status {
	case StatusWon, StatusLost:
		s.Status = saved.Status
	default:
		s.Status = StatusPlaying
	}

	wrong := saved.WrongAttempts
	if wrong < 0 {
		wrong = 0
	}
	if wrong > MaxErrors {
		wrong = MaxErrors
	}
	s.WrongAttempts = wrong

	revealed := saved.RevealedHintCount
	if revealed < 1 {
		revealed = 1
	}
	if revealed > MaxHints {
		revealed = MaxHints
	}
	if revealed > len(s.Hints) {
		revealed = len(s.Hints)
	}
	s.RevealedHintCount = revealed
	s.LastAccessTime = time.Now()
}

// cleanupOldSessions removes session files older than the given age.
var cleanupOldSessions = func(maxAge time.Duration) error {
	logInfo("Cleaning up sessions older than %v in %s", maxAge, sessionDir)

	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logWarn("Failed to read sessions directory: %v", err)
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	failed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logWarn("Failed to stat session file %s: %v", entry.Name(), err)
			failed++
			continue
		}
		if info.ModTime().Before(cutoff) {
			sessionFile := filepath.Join(sessionDir, entry.Name())
			if err := os.Remove(sessionFile); err != nil {
				logWarn("Failed to remove old session file %s: %v", sessionFile, err)
				failed++
			} else {
				removed++
			}
		}
	}

	logInfo("Session cleanup completed: removed %d files, %d errors", removed, failed)
	return nil
}
