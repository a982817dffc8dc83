package ladder

import (
	"fmt"
	"strings"
)

// Division is a closed set of bracket types. Each fixes the roster size of its teams.
type Division string

const (
	Division1v1 Division = "1v1"
	Division2v2 Division = "2v2"
	Division3v3 Division = "3v3"
)

var rosterSizes = map[Division]int{
	Division1v1: 1,
	Division2v2: 2,
	Division3v3: 3,
}

// Divisions lists every division in display order.
func Divisions() []Division {
	return []Division{Division1v1, Division2v2, Division3v3}
}

// ParseDivision validates raw command input against the known divisions.
func ParseDivision(raw string) (Division, error) {
	d := Division(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := rosterSizes[d]; !ok {
		return "", newError(ErrInvalidDivision, fmt.Sprintf("%q is not a division; use 1v1, 2v2 or 3v3", raw))
	}
	return d, nil
}

func (d Division) Valid() bool {
	_, ok := rosterSizes[d]
	return ok
}

// RosterSize returns the number of players a team in d must have, or 0 for unknown divisions.
func (d Division) RosterSize() int {
	return rosterSizes[d]
}

func (d Division) String() string {
	return string(d)
}
