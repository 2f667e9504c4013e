// Package espntest serves recorded espn documents so the scraping stages can
// be tested without the network.
package espntest

import (
	"context"
	"embed"
	"fmt"
	"hoopstats/internal/scrapers/espn"
	"path"
	"strings"
	"sync"
)

//go:embed testdata/*.html
var testdata embed.FS

// Endpoints point at a fake host so they can never be mistaken for the real site.
var Endpoints = espn.Endpoints{
	Teams:  "https://espn.test/nba/teams",
	Roster: "https://espn.test/nba/team/roster/_/name/{key}/{name}",
	Stats:  "https://espn.test/nba/player/stats/_/id/{id}",
}

func mustRead(name string) string {
	contents, err := testdata.ReadFile(path.Join("testdata", name))
	if err != nil {
		panic(err)
	}
	return string(contents)
}

// Document returns a recorded document by its file name, ex. "teams.html".
func Document(name string) string {
	return mustRead(name)
}

// Documents maps every url of the recorded league to its document. The league
// has two teams:
//
//	boston-celtics: Jayson Tatum (bad height), Short Row (17 entry career row), No Id (no id)
//	golden-state-warriors: Stephen Curry, Klay Thompson, Broken Record (malformed), Rookie Guy (no career row)
func Documents() map[string]string {
	docs := map[string]string{
		Endpoints.Teams: mustRead("teams.html"),
		Endpoints.RosterURL("bos", "boston-celtics"):       mustRead("roster_bos.html"),
		Endpoints.RosterURL("gs", "golden-state-warriors"): mustRead("roster_gs.html"),
	}
	for _, id := range []string{"3975", "6475", "4065648", "5000", "7000"} {
		docs[Endpoints.StatsURL(id)] = mustRead(fmt.Sprintf("stats_%s.html", id))
	}
	return docs
}

// Fetcher is an espn.Fetcher over an in-memory set of documents. Unknown urls
// fail like a 404 would.
type Fetcher struct {
	Docs map[string]string

	mutex     sync.Mutex
	requested []string
}

func NewFetcher() *Fetcher {
	return &Fetcher{Docs: Documents()}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mutex.Lock()
	f.requested = append(f.requested, url)
	f.mutex.Unlock()

	doc, ok := f.Docs[url]
	if !ok {
		return "", fmt.Errorf("fetch %s: unexpected status 404 Not Found", url)
	}
	return doc, nil
}

// Requested lists every url fetched so far, in order.
func (f *Fetcher) Requested() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.requested...)
}

// RequestedMatching counts the fetched urls that contain substr.
func (f *Fetcher) RequestedMatching(substr string) int {
	count := 0
	for _, url := range f.Requested() {
		if strings.Contains(url, substr) {
			count++
		}
	}
	return count
}
