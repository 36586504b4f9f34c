package sportsdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Manchester United", "manchester united"},
		{"Man Utd", "manchester united"},
		{"  Spurs  ", "tottenham hotspur"},
		{"Atlético Madrid", "atletico de madrid"},
		{"Bayern München", "bayern munchen"},
		{"PSG", "paris saint-germain"},
		{"Real   Madrid", "real madrid"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTeamByNameCrossReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("t")
		switch q {
		case "Arsenal":
			w.Write([]byte(`{"teams":[
				{"idTeam":"133604","idESPN":"359","strTeam":"Arsenal","strSport":"Soccer","strLeague":"English Premier League"}
			]}`))
		default:
			w.Write([]byte(`{"teams":null}`))
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	doc, err := c.TeamByName(context.Background(), "Arsenal")
	if err != nil {
		t.Fatal(err)
	}
	if doc.IDESPN != "359" {
		t.Errorf("idESPN = %q, want 359", doc.IDESPN)
	}

	id, err := c.ESPNTeamID(context.Background(), "Arsenal")
	if err != nil || id != "359" {
		t.Errorf("ESPNTeamID = (%q, %v)", id, err)
	}

	if _, err := c.TeamByName(context.Background(), "No Such Club"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTeamByNameAliasFallback(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("t")
		queries = append(queries, q)
		if q == "tottenham hotspur" {
			w.Write([]byte(`{"teams":[{"idTeam":"133616","idESPN":"367","strTeam":"Tottenham Hotspur","strSport":"Soccer"}]}`))
			return
		}
		w.Write([]byte(`{"teams":null}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	doc, err := c.TeamByName(context.Background(), "Spurs")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "Tottenham Hotspur" {
		t.Errorf("team = %+v", doc)
	}
	if len(queries) != 2 || queries[0] != "Spurs" || queries[1] != "tottenham hotspur" {
		t.Errorf("queries = %v", queries)
	}
}

func TestTeamByNamePrefersSoccer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"teams":[
			{"idTeam":"1","strTeam":"Barcelona","strSport":"Basketball"},
			{"idTeam":"2","idESPN":"83","strTeam":"Barcelona","strSport":"Soccer"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	doc, err := c.TeamByName(context.Background(), "Barcelona")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Sport != "Soccer" || doc.IDESPN != "83" {
		t.Errorf("doc = %+v", doc)
	}
}
