package espn

import (
	"fmt"
	"hoopstats/internal/extract"
	"strconv"
)

// every athlete in the roster page state starts with its name and profile link,
// ex. `{"name":"Stephen Curry","href":"https://www.espn.com/nba/player/_/id/3975/stephen-curry",...}`
var athletes = extract.MustPatternExtractor(`\{"name":"([^"]+)","href":"[^"]*?/player/[^"]*",(.*?)\}`)

// Roster is the members of one listing in the order they first appear.
type Roster struct {
	Order   []string
	Members map[string]extract.Record

	// Skipped holds one error per fragment whose body failed to parse.
	Skipped []error
	// Collisions counts members whose name was already taken in this listing,
	// the later record replaced the earlier one.
	Collisions int
}

// AssembleRoster parses every athlete fragment of a listing document. Bodies
// that fail to parse are skipped and recorded in Roster.Skipped.
func AssembleRoster(text string) Roster {
	roster := Roster{Members: map[string]extract.Record{}}
	for fragment := range athletes.Extract(text) {
		record, err := extract.ParseRecord(fragment.Body)
		if err != nil {
			roster.Skipped = append(roster.Skipped, fmt.Errorf("%s: %w", fragment.Key, err))
			continue
		}
		if _, taken := roster.Members[fragment.Key]; taken {
			roster.Collisions++
		} else {
			roster.Order = append(roster.Order, fragment.Key)
		}
		roster.Members[fragment.Key] = record
	}
	return roster
}

// MemberID returns the identifier used to build a member's detail url.
func MemberID(record extract.Record) (string, bool) {
	switch id := record["id"].(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}
