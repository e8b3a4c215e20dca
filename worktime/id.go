package worktime

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID identifies every record the engine reads. Records originate in a
// document store, so identifiers are 24-character hex ObjectIDs.
type ID = primitive.ObjectID

// NilID is the zero identifier.
var NilID = primitive.NilObjectID

// ParseID validates a hex identifier. field names the parameter for the
// error message ("team", "project", ...).
func ParseID(field, s string) (ID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return NilID, &InvalidIDError{Field: field, Value: s}
	}
	return id, nil
}

// MustParseID panics on a malformed identifier. Use in tests and fixtures.
func MustParseID(s string) ID {
	id, err := ParseID("id", s)
	if err != nil {
		panic(err)
	}
	return id
}

// NewID returns a fresh identifier.
func NewID() ID { return primitive.NewObjectID() }
