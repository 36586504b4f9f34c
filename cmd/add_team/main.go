// Adds a team channel. The ESPN team id can be given directly with
// -id, or resolved from the team name through TheSportsDB's idESPN
// cross-reference.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/teamarr/teamarr/internal/config"
	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/sportsdb"
	"github.com/teamarr/teamarr/internal/store"
	"github.com/teamarr/teamarr/internal/telemetry"
)

func main() {
	league := flag.String("league", "", "canonical league code (nba, nfl, eng.1, ...)")
	name := flag.String("name", "", "team name, used for lookup when -id is not given")
	id := flag.String("id", "", "ESPN team id (skips the name lookup)")
	templateID := flag.Int64("template", 1, "template id for the channel")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	if *league == "" || (*name == "" && *id == "") {
		telemetry.Errorf("Usage: add_team -league nba -name \"Boston Celtics\" [-id 2] [-template 1]")
		os.Exit(1)
	}
	if !espn.Supported(*league) {
		telemetry.Errorf("League %q is not supported", *league)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		telemetry.Errorf("Store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	teamID := *id
	if teamID == "" {
		teamID, err = sportsdb.NewClient().ESPNTeamID(ctx, *name)
		if err != nil {
			telemetry.Errorf("Lookup %q: %v", *name, err)
			os.Exit(1)
		}
		telemetry.Infof("Resolved %q to ESPN team id %s", *name, teamID)
	}

	client := espn.NewClient()
	doc, err := client.Team(ctx, *league, teamID)
	if err != nil {
		telemetry.Errorf("ESPN team %s/%s: %v", *league, teamID, err)
		os.Exit(1)
	}
	displayName, abbrev, logo := espn.TeamProfile(doc)

	rowID, err := st.AddTeam(model.Team{
		ProviderTeamID: teamID,
		Provider:       espn.Provider,
		League:         *league,
		Name:           displayName,
		Abbrev:         abbrev,
		LogoURL:        logo,
		TemplateID:     *templateID,
		Active:         true,
	})
	if err != nil {
		telemetry.Errorf("Add team: %v", err)
		os.Exit(1)
	}

	team := model.Team{Provider: espn.Provider, ProviderTeamID: teamID}
	telemetry.Infof("Added %s (%s) as channel %s (row %d)", displayName, *league, team.ChannelID(), rowID)
}
