package events

// RunStarted is published once at the top of a generation run.
type RunStarted struct {
	RunID     string `json:"run_id"`
	TeamCount int    `json:"team_count"`
	DaysAhead int    `json:"days_ahead"`
}

// TeamProgress is published as each team channel is processed. Done
// counts teams finished so far, including failures.
type TeamProgress struct {
	RunID      string `json:"run_id"`
	TeamID     int64  `json:"team_id"`
	TeamName   string `json:"team_name"`
	League     string `json:"league"`
	Done       int    `json:"done"`
	Total      int    `json:"total"`
	Programmes int    `json:"programmes,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RunFinished is published when a run completes or aborts.
type RunFinished struct {
	RunID      string `json:"run_id"`
	Teams      int    `json:"teams"`
	Failed     int    `json:"failed"`
	Programmes int    `json:"programmes"`
	OutputPath string `json:"output_path,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// SoccerRefresh reports a soccer league index crawl.
type SoccerRefresh struct {
	Leagues int   `json:"leagues"`
	Teams   int   `json:"teams"`
	Failed  int   `json:"failed"`
	DurationMS int64 `json:"duration_ms,omitempty"`
}
