package espn

import (
	"net/url"
	"strings"
)

// Endpoints are the url templates documents are fetched from. `{key}`,
// `{name}` and `{id}` are substituted with path escaped values.
type Endpoints struct {
	Teams  string `json:"teams"`
	Roster string `json:"roster"`
	Stats  string `json:"stats"`
}

var DefaultEndpoints = Endpoints{
	Teams:  "https://www.espn.com/nba/teams",
	Roster: "https://www.espn.com/nba/team/roster/_/name/{key}/{name}",
	Stats:  "https://www.espn.com/nba/player/stats/_/id/{id}",
}

func expand(template string, pairs ...string) string {
	for i := 1; i < len(pairs); i += 2 {
		pairs[i] = url.PathEscape(pairs[i])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// RosterURL is the listing document of a collection.
func (e Endpoints) RosterURL(key, name string) string {
	return expand(e.Roster, "{key}", key, "{name}", name)
}

// StatsURL is the detail document of a member.
func (e Endpoints) StatsURL(id string) string {
	return expand(e.Stats, "{id}", id)
}
