package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// gameView collects everything the templates need to render a session.
func (app *App) gameView(session *GameSession) gin.H {
	return gin.H{
		"status":        session.Status,
		"hints":         session.RevealedHints(),
		"wrongAttempts": session.WrongAttempts,
		"maxErrors":     MaxErrors,
		"answer":        session.Answer(),
		"image":         session.Round.ImagePath,
		"revealImage":   session.ImageRef(),
		"inputDisabled": session.InputDisabled(),
		"won":           session.Status == StatusWon,
		"lost":          session.Status == StatusLost,
		"countries":     app.GazetteerList,
	}
}

// homeHandler renders the main game page for the current session.
func (app *App) homeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	session := app.getGameSession(ctx, sessionID)

	data := app.gameView(session)
	data["title"] = "Landludo - Guess the Country"
	data["message"] = "Which country is this?"
	c.HTML(http.StatusOK, "index.html", data)
}

// guessHandler processes a guess submission and renders the transition.
func (app *App) guessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	session := app.getGameSession(ctx, sessionID)

	wasOver := session.InputDisabled()
	result := session.SubmitGuess(c.PostForm("guess"))
	app.saveGameSession(sessionID, session)

	var feedback string
	switch {
	case wasOver:
		logWarn("Session %s attempted guess on finished round", sessionID)
		feedback = ErrorRoundOver
	case result.Outcome == OutcomeInvalidCountry:
		logWarn("Session %s guessed unrecognised country", sessionID)
		feedback = ErrorNotACountry
	case result.Outcome == OutcomeWrongValid:
		logInfo("Session %s wrong guess (%d/%d)", sessionID, result.WrongAttempts, MaxErrors)
	case result.Outcome == OutcomeCorrect:
		logInfo("Session %s solved the round", sessionID)
	}

	data := app.gameView(session)
	data["feedback"] = feedback
	data["justWon"] = result.JustWon

	if feedback != "" {
		payload := map[string]string{"guess_feedback": feedback}
		if b, jerr := json.Marshal(payload); jerr == nil {
			c.Header("HX-Trigger", string(b))
		} else {
			logWarn("Failed to marshal HX-Trigger payload: %v", jerr)
		}
	}

	if c.GetHeader("HX-Request") == "true" {
		c.HTML(http.StatusOK, "game-content", data)
		return
	}
	data["title"] = "Landludo - Guess the Country"
	data["message"] = "Which country is this?"
	c.HTML(http.StatusOK, "index.html", data)
}

// newRoundHandler starts a fresh round, optionally rotating the session ID.
// A provider failure keeps the previous round's data, so the player always
// lands back in a playable state.
func (app *App) newRoundHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	logInfo("Starting new round for session: %s", sessionID)

	var completed []string
	if c.Request.Method == http.MethodPost {
		if raw := c.PostForm("completedCountries"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &completed); err != nil {
				logWarn("Failed to parse completed countries: %v", err)
				completed = nil
			} else {
				completed = lo.Filter(completed, func(name string, _ int) bool {
					_, exists := app.CountrySet[normalizeGuess(name)]
					if !exists {
						logWarn("Ignoring unknown completed country: %s", name)
					}
					return exists
				})
			}
		}
	}

	if c.Query("reset") == "1" {
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)

		newSessionID := uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, newSessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Rotated session ID: %s", newSessionID)

		app.SessionMutex.Lock()
		delete(app.GameSessions, sessionID)
		app.SessionMutex.Unlock()
		sessionID = newSessionID
	}

	app.SessionMutex.RLock()
	session, exists := app.GameSessions[sessionID]
	app.SessionMutex.RUnlock()

	var needsReset bool
	if exists {
		err := session.Reset(func() (RoundData, error) {
			data, reset, err := app.newRound(ctx, completed)
			needsReset = reset
			return data, err
		})
		if err != nil {
			logWarn("New round fetch failed for session %s, replayed previous round: %v", sessionID, err)
		}
		app.saveGameSession(sessionID, session)
	} else {
		session, needsReset = app.createNewGame(ctx, sessionID, completed)
	}

	if needsReset {
		c.Header("HX-Trigger", "clear-completed-countries")
	}

	if c.GetHeader("HX-Request") == "true" {
		data := app.gameView(session)
		data["newRound"] = true
		c.HTML(http.StatusOK, "game-content", data)
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// retryRoundHandler restarts the current round with the same country:
// the stored round data is re-applied, resetting attempts and hints.
func (app *App) retryRoundHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)

	app.SessionMutex.RLock()
	session, exists := app.GameSessions[sessionID]
	app.SessionMutex.RUnlock()
	if !exists {
		app.createNewGame(ctx, sessionID, nil)
		c.Redirect(http.StatusSeeOther, RouteHome)
		return
	}

	session.LoadRound(session.Round)
	app.saveGameSession(sessionID, session)
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// roundHandler serves a fresh round as JSON: the provider contract for
// non-HTML clients. image_path is null when the entry has no image.
func (app *App) roundHandler(c *gin.Context) {
	ctx := c.Request.Context()
	data, _, err := app.newRound(ctx, nil)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	var imagePath any
	if data.ImagePath != "" {
		imagePath = data.ImagePath
	}
	c.JSON(http.StatusOK, gin.H{
		"country":         data.Country,
		"hints":           data.Hints,
		"valid_countries": data.ValidCountries,
		"image_path":      imagePath,
	})
}

// gameStateHandler renders the current game board as an HTML fragment.
func (app *App) gameStateHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	session := app.getGameSession(ctx, sessionID)
	c.HTML(http.StatusOK, "game-content", app.gameView(session))
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"countries":       len(app.Countries),
		"gazetteer_names": len(app.Gazetteer),
		"uptime":          formatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
