package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// loadCountries reads the playable country list from disk, dropping
// entries with no name or no hints.
func (app *App) loadCountries(path string) error {
	logInfo("Loading countries from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cl CountryList
	if err := json.Unmarshal(data, &cl); err != nil {
		return err
	}
	app.Countries = lo.Filter(cl.Countries, func(entry CountryEntry, _ int) bool {
		if strings.TrimSpace(entry.Name) == "" {
			logWarn("Skipping country entry with empty name")
			return false
		}
		if len(entry.Hints) == 0 {
			logWarn("Skipping country %q: no hints", entry.Name)
			return false
		}
		return true
	})
	app.CountrySet = make(map[string]struct{}, len(app.Countries))
	lo.ForEach(app.Countries, func(entry CountryEntry, _ int) {
		app.CountrySet[normalizeGuess(entry.Name)] = struct{}{}
	})
	logInfo("Successfully loaded %d countries", len(app.Countries))
	return nil
}

// loadGazetteer reads the recognized-country name list from disk. The
// gazetteer decides whether a guess names a real country at all; it is a
// superset of the playable list.
func (app *App) loadGazetteer(path string) error {
	logInfo("Loading gazetteer from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	app.Gazetteer = make(map[string]struct{}, len(names))
	lo.ForEach(names, func(name string, _ int) {
		app.Gazetteer[normalizeGuess(name)] = struct{}{}
	})
	app.GazetteerList = lo.Keys(app.Gazetteer)
	sort.Strings(app.GazetteerList)
	return nil
}

// getRandomCountryEntry returns a random entry from the loaded country list.
func (app *App) getRandomCountryEntry(ctx context.Context) CountryEntry {
	reqID, _ := ctx.Value(requestIDKey).(string)

	select {
	case <-ctx.Done():
		if reqID != "" {
			logWarn("[request_id=%v] getRandomCountryEntry cancelled: %v", reqID, ctx.Err())
		} else {
			logWarn("getRandomCountryEntry cancelled: %v", ctx.Err())
		}
		return app.Countries[0]
	default:
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(app.Countries))))
	if err != nil {
		logWarn("Error generating random number: %v, using fallback", err)
		return app.Countries[0]
	}
	return app.Countries[n.Int64()]
}

// getRandomCountryEntryExcluding returns a random entry excluding already
// solved countries. The boolean reports that every country has been solved
// and the caller should clear its completed list.
func (app *App) getRandomCountryEntryExcluding(ctx context.Context, completed []string) (CountryEntry, bool) {
	if len(completed) == 0 {
		return app.getRandomCountryEntry(ctx), false
	}

	lowered := lo.Map(completed, func(name string, _ int) string {
		return normalizeGuess(name)
	})
	available := lo.Filter(app.Countries, func(entry CountryEntry, _ int) bool {
		return !slices.Contains(lowered, normalizeGuess(entry.Name))
	})

	if len(available) == 0 {
		logInfo("All countries completed, reset needed. Total: %d, Completed: %d", len(app.Countries), len(completed))
		return app.getRandomCountryEntry(ctx), true
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(available))))
	if err != nil {
		logWarn("Error generating random number for filtered countries: %v, using fallback", err)
		return available[0], false
	}
	return available[n.Int64()], false
}

// buildRound assembles the provider payload for one country entry.
func (app *App) buildRound(entry CountryEntry) RoundData {
	hints := make([]string, len(entry.Hints))
	copy(hints, entry.Hints)
	valid := make([]string, len(app.GazetteerList))
	copy(valid, app.GazetteerList)
	return RoundData{
		Country:        entry.Name,
		Hints:          hints,
		ValidCountries: valid,
		ImagePath:      entry.Image,
	}
}

// newRound picks a fresh random round, excluding completed countries.
// The second return mirrors getRandomCountryEntryExcluding's reset signal.
func (app *App) newRound(ctx context.Context, completed []string) (RoundData, bool, error) {
	if len(app.Countries) == 0 {
		return RoundData{}, false, errors.New(ErrorNoCountryData)
	}
	entry, needsReset := app.getRandomCountryEntryExcluding(ctx, completed)
	return app.buildRound(entry), needsReset, nil
}

// defaultRound is the built-in fallback applied when a round payload is
// missing its country. Keeps a misconfigured provider from producing an
// unplayable session.
func defaultRound() RoundData {
	return RoundData{
		Country: "France",
		Hints: []string{
			"This country is in Western Europe.",
			"Its capital is known as the City of Light.",
			"It shares a land border with eight countries.",
			"Its flag is a blue, white and red tricolour.",
		},
		ValidCountries: defaultGazetteer(),
	}
}

// defaultGazetteer is the built-in fallback list of recognized country
// names, used when a round payload carries no gazetteer.
func defaultGazetteer() []string {
	return []string{
		"argentina", "australia", "brazil", "canada", "china", "egypt",
		"france", "germany", "greece", "india", "indonesia", "iran",
		"italy", "japan", "kenya", "mexico", "morocco", "netherlands",
		"new zealand", "nigeria", "norway", "peru", "poland", "portugal",
		"russia", "south africa", "south korea", "spain", "sweden",
		"switzerland", "thailand", "turkey", "united kingdom",
		"united states", "vietnam",
	}
}
