package sportsdb

// soccerAliases maps alternate soccer team spellings to the canonical
// name the search index knows. Keys are pre-normalized (lowercase, no
// diacritics).
var soccerAliases = map[string]string{
	// Premier League
	"man united": "manchester united", "man utd": "manchester united", "manchester utd": "manchester united",
	"man city": "manchester city", "manchester c": "manchester city",
	"wolves": "wolverhampton wanderers", "wolverhampton": "wolverhampton wanderers",
	"brighton": "brighton & hove albion", "brighton hove albion": "brighton & hove albion", "brighton and hove albion": "brighton & hove albion",
	"nottm forest": "nottingham forest", "nott'm forest": "nottingham forest", "nottingham": "nottingham forest",
	"spurs": "tottenham hotspur", "tottenham": "tottenham hotspur",
	"west ham":  "west ham united",
	"newcastle": "newcastle united", "newcastle utd": "newcastle united",
	"leicester":     "leicester city",
	"leeds":         "leeds united",
	"sheffield utd": "sheffield united", "sheffield": "sheffield united",
	"afc bournemouth": "bournemouth",

	// La Liga
	"atletico madrid": "atletico de madrid", "atletico": "atletico de madrid", "atl. madrid": "atletico de madrid", "atl madrid": "atletico de madrid",
	"r. sociedad":     "real sociedad",
	"athletic bilbao": "athletic club", "athletic": "athletic club", "ath bilbao": "athletic club", "bilbao": "athletic club",
	"celta vigo": "celta de vigo", "celta": "celta de vigo",
	"rayo": "rayo vallecano", "vallecano": "rayo vallecano",
	"betis":  "real betis",
	"alaves": "deportivo alaves",

	// Bundesliga
	"bayern munich": "bayern munchen", "bayern": "bayern munchen", "fc bayern": "bayern munchen", "fc bayern munchen": "bayern munchen", "fc bayern munich": "bayern munchen",
	"dortmund": "borussia dortmund", "bvb": "borussia dortmund",
	"borussia m'gladbach": "borussia monchengladbach", "gladbach": "borussia monchengladbach", "monchengladbach": "borussia monchengladbach",
	"leverkusen": "bayer leverkusen", "bayer 04": "bayer leverkusen",
	"rb leipzig": "rasenballsport leipzig", "leipzig": "rasenballsport leipzig",
	"koln": "fc koln", "cologne": "fc koln", "fc cologne": "fc koln",
	"frankfurt": "eintracht frankfurt",

	// Serie A
	"inter": "inter milan", "internazionale": "inter milan", "inter milano": "inter milan",
	"ac milan": "milan", "a.c. milan": "milan",
	"juve":   "juventus",
	"napoli": "ssc napoli", "roma": "as roma", "lazio": "ss lazio",

	// Ligue 1
	"psg": "paris saint-germain", "paris sg": "paris saint-germain", "paris": "paris saint-germain",
	"marseille": "olympique de marseille", "om": "olympique de marseille",
	"lyon": "olympique lyonnais", "ol": "olympique lyonnais",
	"monaco": "as monaco",

	// MLS
	"la galaxy": "los angeles galaxy", "lafc": "los angeles fc",
	"nycfc": "new york city fc", "new york city": "new york city fc",
	"red bulls": "new york red bulls",
	"inter miami": "inter miami cf",
	"atlanta utd": "atlanta united", "atlanta united fc": "atlanta united",
}
