// Package model defines domain models for Cardano ingestion.
package model

import (
	"fmt"
	"strings"
)

// Era is a named Cardano protocol era.
type Era int16

const (
	Byron Era = iota
	Shelley
	Allegra
	Mary
	Alonzo
	Babbage
	Conway
)

var eraNames = [...]string{"byron", "shelley", "allegra", "mary", "alonzo", "babbage", "conway"}

// AllEras lists every known era in chronological order.
func AllEras() []Era {
	return []Era{Byron, Shelley, Allegra, Mary, Alonzo, Babbage, Conway}
}

// MultiEras lists the post-Byron eras sharing the Shelley block layout.
func MultiEras() []Era {
	return []Era{Shelley, Allegra, Mary, Alonzo, Babbage, Conway}
}

func (e Era) String() string {
	if e < 0 || int(e) >= len(eraNames) {
		return fmt.Sprintf("era(%d)", int16(e))
	}
	return eraNames[e]
}

// Valid reports whether e is a known era.
func (e Era) Valid() bool {
	return e >= Byron && e <= Conway
}

// ParseEra converts a case-insensitive era name to an Era.
func ParseEra(s string) (Era, error) {
	for i, name := range eraNames {
		if strings.EqualFold(name, s) {
			return Era(i), nil
		}
	}
	return 0, fmt.Errorf("unknown era %q", s)
}

// EraFromTag maps the era tag of the block envelope to an Era.
// Tags 0 (epoch boundary block) and 1 (main block) both belong to Byron.
func EraFromTag(tag uint64) (Era, error) {
	switch tag {
	case 0, 1:
		return Byron, nil
	case 2, 3, 4, 5, 6, 7:
		return Era(tag - 1), nil
	default:
		return 0, fmt.Errorf("unknown era tag %d", tag)
	}
}
