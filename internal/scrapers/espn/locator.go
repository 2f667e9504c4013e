package espn

import (
	"errors"
	"hoopstats/internal/extract"
)

// ErrNoCollectionsFound means the teams directory no longer contains the
// links it used to, most likely because the page format changed.
var ErrNoCollectionsFound = errors.New("no collections found")

// Collection is one team along with where its roster is listed.
type Collection struct {
	Key  string
	Name string
	URL  string
}

// team links embed both the short key and the display slug,
// ex. `"href":"https://www.espn.com/nba/team/_/name/bos/boston-celtics",`
var teamLinks = extract.MustPatternExtractor(`www\.espn\.com/nba/team/_/name/(\w+)/(.+?)",`)

// LocateCollections finds every team linked from the directory document and
// builds the url of its roster. A key that is linked more than once keeps its
// first position and its last name.
func LocateCollections(text string, endpoints Endpoints) ([]Collection, error) {
	var keys []string
	names := map[string]string{}
	for link := range teamLinks.Extract(text) {
		if _, seen := names[link.Key]; !seen {
			keys = append(keys, link.Key)
		}
		names[link.Key] = link.Body
	}
	if len(keys) == 0 {
		return nil, ErrNoCollectionsFound
	}

	collections := make([]Collection, len(keys))
	for i, key := range keys {
		collections[i] = Collection{
			Key:  key,
			Name: names[key],
			URL:  endpoints.RosterURL(key, names[key]),
		}
	}
	return collections, nil
}
