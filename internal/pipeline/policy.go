package pipeline

import (
	"errors"
	"fmt"
)

// ErrMemberCollision is returned by the CollisionError policy when two
// collections list a member with the same name.
var ErrMemberCollision = errors.New("member collision")

// CollisionPolicy decides what happens when a member name that already
// belongs to one collection shows up in another.
type CollisionPolicy string

const (
	// CollisionLastWriteWins replaces the earlier row with the later one, the
	// row keeps its original position.
	CollisionLastWriteWins CollisionPolicy = "last-write-wins"
	// CollisionError fails the run.
	CollisionError CollisionPolicy = "error"
	// CollisionDisambiguate keeps both rows and suffixes the later member name
	// with its collection, ex. "Stephen Curry (golden-state-warriors)".
	CollisionDisambiguate CollisionPolicy = "disambiguate"
)

func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	switch policy := CollisionPolicy(value); policy {
	case CollisionLastWriteWins, CollisionError, CollisionDisambiguate:
		return policy, nil
	case "":
		return CollisionLastWriteWins, nil
	default:
		return "", fmt.Errorf(
			"unknown collision policy %q, expected one of %q, %q, %q",
			value, CollisionLastWriteWins, CollisionError, CollisionDisambiguate,
		)
	}
}

func disambiguate(member, collection string) string {
	return fmt.Sprintf("%s (%s)", member, collection)
}
