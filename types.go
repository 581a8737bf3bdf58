package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CountryList represents the JSON structure for loading playable countries
type CountryList struct {
	Countries []CountryEntry `json:"countries"`
}

// CountryEntry is one playable country with its ordered hints and image
type CountryEntry struct {
	Name  string   `json:"name"`
	Hints []string `json:"hints"`
	Image string   `json:"image,omitempty"`
}

// RoundData is the payload a round provider hands to a session. It is
// immutable once applied: LoadRound copies what it needs.
type RoundData struct {
	Country        string   `json:"country"`
	Hints          []string `json:"hints"`
	ValidCountries []string `json:"valid_countries"`
	ImagePath      string   `json:"image_path,omitempty"`
}

// GameSession holds all mutable progress for one round of the game.
// One instance per browser session, replaced wholesale on a new round.
type GameSession struct {
	Target            string              `json:"target"`
	Aliases           map[string]struct{} `json:"-"`
	Hints             []string            `json:"hints"`
	ValidCountries    map[string]struct{} `json:"-"`
	WrongAttempts     int                 `json:"wrongAttempts"`
	Status            string              `json:"status"`
	RevealedHintCount int                 `json:"revealedHintCount"`
	Round             RoundData           `json:"round"`
	LastAccessTime    time.Time           `json:"lastAccessTime"`
}

// GuessResult is what SubmitGuess returns: the outcome classification plus
// everything the caller needs to render the transition.
type GuessResult struct {
	Outcome           string
	Status            string
	WrongAttempts     int
	RevealedHintIndex int    // 1-based index of a newly revealed hint, 0 if none
	CorrectAnswer     string // set only when the round just ended or was already over
	JustWon           bool   // true exactly once, on the transition to won
}

// RoundFetcher produces fresh round data, typically from the provider.
type RoundFetcher func() (RoundData, error)

// App holds all application state and configuration
type App struct {
	Countries     []CountryEntry
	CountrySet    map[string]struct{}
	Gazetteer     map[string]struct{}
	GazetteerList []string

	GameSessions map[string]*GameSession
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	IsProduction   bool
	StartTime      time.Time
	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}
