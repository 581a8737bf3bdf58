package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getGameSession retrieves the GameSession for a session ID, restoring it
// from disk if possible and starting a fresh round otherwise.
func (app *App) getGameSession(ctx context.Context, sessionID string) *GameSession {
	app.SessionMutex.RLock()
	session, exists := app.GameSessions[sessionID]
	app.SessionMutex.RUnlock()
	if exists {
		app.SessionMutex.Lock()
		session.LastAccessTime = time.Now()
		app.SessionMutex.Unlock()
		return session
	}

	if restored, err := loadGameSessionFromFile(sessionID, app.SessionTimeout); err == nil {
		logInfo("Restored session %s from disk (country: %s)", sessionID, restored.Target)
		app.SessionMutex.Lock()
		app.GameSessions[sessionID] = restored
		app.SessionMutex.Unlock()
		return restored
	}

	logInfo("Creating new game for session: %s", sessionID)
	session, _ = app.createNewGame(ctx, sessionID, nil)
	return session
}

// createNewGame starts a round for a session and registers it. A provider
// failure degrades to the built-in default round via LoadRound. The
// boolean mirrors the round provider's completed-list reset signal.
func (app *App) createNewGame(ctx context.Context, sessionID string, completed []string) (*GameSession, bool) {
	data, needsReset, err := app.newRound(ctx, completed)
	if err != nil {
		logWarn("Round provider failed for session %s: %v", sessionID, err)
	}
	session := NewGameSession(data)
	logInfo("New round for session %s: %s", sessionID, session.Target)

	app.SessionMutex.Lock()
	app.GameSessions[sessionID] = session
	app.SessionMutex.Unlock()
	app.persistSession(sessionID, session)
	return session, needsReset
}

// saveGameSession updates the in-memory and on-disk state for a session.
func (app *App) saveGameSession(sessionID string, session *GameSession) {
	app.SessionMutex.Lock()
	app.GameSessions[sessionID] = session
	session.LastAccessTime = time.Now()
	app.SessionMutex.Unlock()
	app.persistSession(sessionID, session)
}

// persistSession writes the session file, logging failures instead of
// propagating them: disk persistence is best-effort.
func (app *App) persistSession(sessionID string, session *GameSession) {
	if err := saveGameSessionToFile(sessionID, session); err != nil {
		logWarn("Failed to persist session %s: %v", sessionID, err)
	}
}
