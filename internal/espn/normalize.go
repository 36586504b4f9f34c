package espn

import (
	"strings"
	"time"

	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/telemetry"
)

// Provider is the provider tag stamped on every normalized record.
const Provider = "espn"

// statusMapping collapses ESPN status names to normalized states.
var statusMapping = map[string]model.EventState{
	"STATUS_SCHEDULED":   model.StateScheduled,
	"STATUS_DELAYED":     model.StateScheduled,
	"STATUS_IN_PROGRESS": model.StateLive,
	"STATUS_HALFTIME":    model.StateLive,
	"STATUS_END_PERIOD":  model.StateLive,
	"STATUS_FINAL":       model.StateFinal,
	"STATUS_FINAL_OT":    model.StateFinal,
	"STATUS_FULL_TIME":   model.StateFinal,
	"STATUS_POSTPONED":   model.StatePostponed,
	"STATUS_CANCELED":    model.StateCancelled,
}

// NormalizeState maps a raw ESPN status name; unknown names are scheduled.
func NormalizeState(name string) model.EventState {
	if s, ok := statusMapping[name]; ok {
		return s
	}
	return model.StateScheduled
}

// NormalizeEvents converts raw scoreboard/schedule events, skipping any
// the parser cannot make sense of.
func NormalizeEvents(raw []rawEvent, league string) []model.Event {
	out := make([]model.Event, 0, len(raw))
	for i := range raw {
		if ev, ok := NormalizeEvent(&raw[i], league); ok {
			out = append(out, ev)
		}
	}
	return out
}

// NormalizeEvent converts one raw event. ok is false for malformed
// records (missing id, competitors, or start time); those are skipped,
// never fatal.
func NormalizeEvent(raw *rawEvent, league string) (model.Event, bool) {
	if raw.ID == "" || len(raw.Competitions) == 0 {
		return model.Event{}, false
	}
	comp := &raw.Competitions[0]

	var home, away *rawCompetitor
	for i := range comp.Competitors {
		if comp.Competitors[i].HomeAway == "home" {
			home = &comp.Competitors[i]
		} else {
			away = &comp.Competitors[i]
		}
	}
	if home == nil || away == nil {
		telemetry.Debugf("espn: event %s lacks home/away competitors, skipping", raw.ID)
		return model.Event{}, false
	}

	dateStr := raw.Date
	if dateStr == "" {
		dateStr = comp.Date
	}
	start, err := parseEventTime(dateStr)
	if err != nil {
		telemetry.Debugf("espn: event %s has unparseable date %q, skipping", raw.ID, dateStr)
		return model.Event{}, false
	}

	ev := model.Event{
		ID:         raw.ID,
		Provider:   Provider,
		League:     league,
		Name:       raw.Name,
		ShortName:  raw.ShortName,
		StartUTC:   start.UTC(),
		State:      NormalizeState(comp.Status.Type.Name),
		Detail:     comp.Status.Type.Description,
		Period:     comp.Status.Period,
		Clock:      comp.Status.DisplayClock,
		Home:       normalizeSide(home),
		Away:       normalizeSide(away),
		Venue:      normalizeVenue(comp.Venue),
		Broadcasts: NormalizeBroadcasts(comp.Broadcasts),
		Odds:       normalizeOdds(comp.Odds),
		Leaders:    normalizeGameLeaders(comp.Competitors),
		SeasonYear: raw.Season.Year,
		SeasonType: normalizeSeasonType(raw.Season.Type),
		Attendance: comp.Attendance,
	}
	return ev, true
}

// NormalizeSummary converts an event summary doc into an event. The
// summary header carries the competition but no top-level id/date.
func NormalizeSummary(doc *SummaryDoc, league, eventID string) (model.Event, bool) {
	if len(doc.Header.Competitions) == 0 {
		return model.Event{}, false
	}
	comp := doc.Header.Competitions[0]
	raw := rawEvent{
		ID:           eventID,
		Name:         doc.Header.GameNote,
		Date:         comp.Date,
		Season:       doc.Header.Season,
		Competitions: []rawCompetition{comp},
	}
	return NormalizeEvent(&raw, league)
}

func normalizeSide(c *rawCompetitor) model.Side {
	id := c.Team.ID
	if id == "" {
		id = c.ID
	}
	return model.Side{
		TeamID: id,
		Name:   c.Team.DisplayName,
		Abbrev: c.Team.Abbreviation,
		Score:  c.Score.Value,
		Record: totalRecord(c.Records),
		Rank:   c.CuratedRank.Current,
		Logo:   ExtractLogo(&c.Team),
	}
}

// totalRecord scans the records array for the type=="total" entry.
// The displayValue is "W-L" or "W-L-T".
func totalRecord(records []rawRecord) string {
	for _, r := range records {
		if r.Type == "total" {
			return r.DisplayValue
		}
	}
	return ""
}

// ExtractLogo prefers the flat logo field, then the rel=default entry of
// the logos array, then the first logo.
func ExtractLogo(t *rawTeam) string {
	if t.Logo != "" {
		return t.Logo
	}
	for _, l := range t.Logos {
		for _, rel := range l.Rel {
			if rel == "default" {
				return l.Href
			}
		}
	}
	if len(t.Logos) > 0 {
		return t.Logos[0].Href
	}
	return ""
}

// NormalizeBroadcasts flattens both broadcast shapes into display names:
// the scoreboard form lists names[], the schedule form nests media.shortName.
func NormalizeBroadcasts(raw []rawBroadcast) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, b := range raw {
		if len(b.Names) > 0 {
			for _, n := range b.Names {
				add(n)
			}
			continue
		}
		add(b.Media.ShortName)
	}
	return out
}

func normalizeOdds(raw []rawOdds) *model.Odds {
	if len(raw) == 0 {
		return nil
	}
	o := raw[0]
	return &model.Odds{
		Provider:      o.Provider.Name,
		Details:       o.Details,
		Spread:        o.Spread,
		OverUnder:     o.OverUnder,
		HomeMoneyline: o.HomeTeamOdds.MoneyLine,
		AwayMoneyline: o.AwayTeamOdds.MoneyLine,
		HomeFavorite:  o.HomeTeamOdds.Favorite,
	}
}

func normalizeVenue(raw *rawVenue) *model.Venue {
	if raw == nil || raw.FullName == "" {
		return nil
	}
	return &model.Venue{
		Name:    raw.FullName,
		City:    raw.Address.City,
		State:   raw.Address.State,
		Country: raw.Address.Country,
	}
}

func normalizeSeasonType(t int) model.SeasonType {
	switch t {
	case 1:
		return model.SeasonPreseason
	case 3:
		return model.SeasonPostseason
	default:
		return model.SeasonRegular
	}
}

// normalizeGameLeaders extracts per-game player leaders from both sides.
func normalizeGameLeaders(competitors []rawCompetitor) []model.Leader {
	var out []model.Leader
	for i := range competitors {
		for _, cat := range competitors[i].Leaders {
			if len(cat.Leaders) == 0 {
				continue
			}
			top := cat.Leaders[0]
			name := top.Athlete.DisplayName
			if name == "" {
				name = top.Athlete.ShortName
			}
			if name == "" {
				continue
			}
			out = append(out, model.Leader{
				Category: cat.Name,
				Name:     name,
				Value:    top.DisplayValue,
			})
		}
	}
	return out
}

// parseEventTime handles the two timestamp forms ESPN emits:
// "2026-01-15T19:00Z" (minutes precision) and full RFC 3339.
func parseEventTime(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04Z07:00", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
