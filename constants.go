package main

// Game configuration constants
const (
	MaxHints  = 4 // Hints available per round; hint 1 is revealed at load
	MaxErrors = 4 // Wrong-but-valid guesses allowed before the round is lost
)

// Game status constants
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// Guess outcome constants
const (
	OutcomeIgnored        = "ignored"
	OutcomeCorrect        = "correct"
	OutcomeInvalidCountry = "invalid_country"
	OutcomeWrongValid     = "wrong_valid"
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome       = "/"
	RouteGuess      = "/guess"
	RouteNewRound   = "/new-round"
	RouteRetryRound = "/retry-round"
	RouteRound      = "/round"
	RouteGameState  = "/game-state"
)

// Error message constants
const (
	ErrorRoundOver     = "Round is over."
	ErrorNotACountry   = "Not a recognised country."
	ErrorNoCountryData = "no countries loaded"
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string
