package store

import "context"

// Collection names the stores persist under. These are part of the
// on-disk/on-database compatibility surface and must not change.
const (
	CollectionSurveys   = "surveys"
	CollectionResponses = "surveyResponses"
)

// Adapter is a durable mapping from a named collection to an ordered
// list of JSON-compatible records.
//
// Load fills out (a pointer to a slice) with the last saved list, or
// leaves it empty when the collection is absent. A corrupted stored
// collection is treated as absent, never as a partial parse: the
// adapter degrades to empty rather than failing the caller.
//
// Save overwrites the whole collection with records (a slice). There
// are no deltas and no transactions spanning multiple collections;
// every mutating store operation saves its entire current collection.
type Adapter interface {
	Load(ctx context.Context, collection string, out any) error
	Save(ctx context.Context, collection string, records any) error
}
