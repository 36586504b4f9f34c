package model

// TemplateType separates team-channel templates from event-channel templates.
type TemplateType string

const (
	TemplateTeam  TemplateType = "team"
	TemplateEvent TemplateType = "event"
)

// DurationMode selects how the game programme length is computed.
type DurationMode string

const (
	DurationDefault DurationMode = "default" // global setting
	DurationSport   DurationMode = "sport"   // per-sport table
	DurationCustom  DurationMode = "custom"  // template minutes
)

// CrossoverMode selects what fills the span of a game that runs past
// local midnight, on the following day.
type CrossoverMode string

const (
	CrossoverPostgame CrossoverMode = "postgame"
	CrossoverIdle     CrossoverMode = "idle"
	CrossoverNone     CrossoverMode = "none"
)

// DescriptionOption is one conditional description entry. Lower priority
// wins; priority 100 is the documented always-fallback slot.
type DescriptionOption struct {
	Condition string `json:"condition"`
	Text      string `json:"text"`
	Priority  int    `json:"priority"`
}

// FillerText is the title/description pair for one filler kind.
type FillerText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Template holds the formatting rules for a channel. The JSON-valued
// columns (description options, categories, flags) are parsed once at
// load time into these fields.
type Template struct {
	ID   int64
	Name string
	Type TemplateType

	TitleFormat    string
	SubtitleFormat string

	DescriptionOptions []DescriptionOption

	PregameEnabled  bool
	PregameMinutes  int
	Pregame         FillerText
	PostgameEnabled bool
	PostgameMinutes int
	Postgame        FillerText
	IdleEnabled     bool
	Idle            FillerText

	// Conditional postgame/idle descriptions: when enabled, the Final
	// variant is used once the last game has gone final, the NotFinal
	// variant while it is still live or pending.
	PostgameConditional     bool
	PostgameFinalDesc       string
	PostgameNotFinalDesc    string
	IdleConditional         bool
	IdleFinalDesc           string
	IdleNotFinalDesc        string

	MaxProgramHours       int
	GameDurationMode      DurationMode
	CustomDurationMinutes int
	MidnightCrossover     CrossoverMode

	Categories []string
	Flags      map[string]bool
}

// MaxProgram returns the filler split limit; templates with no explicit
// limit fall back to 4 hours.
func (t *Template) MaxProgramHoursOrDefault() int {
	if t.MaxProgramHours <= 0 {
		return 4
	}
	return t.MaxProgramHours
}
