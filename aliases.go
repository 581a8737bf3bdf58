package main

// countryAliases maps a canonical lowercased country name to its accepted
// alternate spellings. Fixed data, loaded once; keys and values are
// lowercase. A country without an entry simply has no aliases.
var countryAliases = map[string][]string{
	"cambodia":                         {"kampuchea"},
	"china":                            {"people's republic of china", "prc"},
	"czech republic":                   {"czechia"},
	"democratic republic of the congo": {"dr congo", "drc", "zaire"},
	"eswatini":                         {"swaziland"},
	"ethiopia":                         {"abyssinia"},
	"germany":                          {"federal republic of germany"},
	"greece":                           {"hellas"},
	"iran":                             {"persia"},
	"ivory coast":                      {"cote d'ivoire", "côte d'ivoire"},
	"japan":                            {"nippon"},
	"mexico":                           {"méxico", "united mexican states"},
	"myanmar":                          {"burma"},
	"netherlands":                      {"holland", "the netherlands"},
	"new zealand":                      {"aotearoa"},
	"north korea":                      {"dprk", "democratic people's republic of korea"},
	"russia":                           {"russian federation"},
	"south korea":                      {"korea", "republic of korea"},
	"sri lanka":                        {"ceylon"},
	"switzerland":                      {"swiss confederation"},
	"thailand":                         {"siam"},
	"turkey":                           {"türkiye", "turkiye"},
	"united arab emirates":             {"uae", "emirates"},
	"united kingdom":                   {"uk", "great britain", "britain"},
	"united states":                    {"usa", "america", "us", "united states of america"},
	"vatican city":                     {"holy see", "the vatican"},
}

// aliasesFor returns the accepted alternate names for a canonical
// lowercased country name. The returned set is never nil and never
// contains the canonical name itself.
func aliasesFor(name string) map[string]struct{} {
	set := make(map[string]struct{}, len(countryAliases[name]))
	for _, alias := range countryAliases[name] {
		set[alias] = struct{}{}
	}
	return set
}

// acceptedAnswers returns the full accepted-answer set for a target:
// the canonical name plus its aliases.
func acceptedAnswers(target string) map[string]struct{} {
	set := aliasesFor(target)
	set[target] = struct{}{}
	return set
}
