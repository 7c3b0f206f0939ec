package domain

import (
	"fmt"
	"strings"
)

type RelationshipType string

const (
	RelationshipAssumes   RelationshipType = "ASSUMES"
	RelationshipExtends   RelationshipType = "EXTENDS"
	RelationshipMatches   RelationshipType = "MATCHES"
	RelationshipUnrelated RelationshipType = "UNRELATED"
)

// RelationshipTypes lists the vote categories in counter order.
var RelationshipTypes = []RelationshipType{
	RelationshipAssumes,
	RelationshipExtends,
	RelationshipMatches,
	RelationshipUnrelated,
}

func ParseRelationshipType(raw string) (RelationshipType, error) {
	t := RelationshipType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown relationship type %q", raw)
	}
	return t, nil
}

func (t RelationshipType) Valid() bool {
	switch t {
	case RelationshipAssumes, RelationshipExtends, RelationshipMatches, RelationshipUnrelated:
		return true
	default:
		return false
	}
}

// Symmetric types read the same in both directions, so a vote on A→B also
// applies to B→A.
func (t RelationshipType) Symmetric() bool {
	return t == RelationshipMatches || t == RelationshipUnrelated
}

func (t RelationshipType) String() string { return string(t) }
