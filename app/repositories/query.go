package repositories

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/pkg/apperr"
)

// Filter accumulates AND-combined predicates for a find or $match stage.
// Zero-valued inputs are skipped so handlers can pass query parameters
// through unchanged.
type Filter struct {
	d bson.D
}

// NewFilter returns an empty filter.
func NewFilter() *Filter { return &Filter{d: bson.D{}} }

// Eq adds field == value when value is non-empty.
func (f *Filter) Eq(field string, value string) *Filter {
	if value != "" {
		f.d = append(f.d, bson.E{Key: field, Value: value})
	}
	return f
}

// EqAny adds field == value unconditionally.
func (f *Filter) EqAny(field string, value interface{}) *Filter {
	f.d = append(f.d, bson.E{Key: field, Value: value})
	return f
}

// EqInt adds field == value when value is non-zero.
func (f *Filter) EqInt(field string, value int) *Filter {
	if value != 0 {
		f.d = append(f.d, bson.E{Key: field, Value: value})
	}
	return f
}

// Bool adds field == *value when value is set.
func (f *Filter) Bool(field string, value *bool) *Filter {
	if value != nil {
		f.d = append(f.d, bson.E{Key: field, Value: *value})
	}
	return f
}

// Search adds a case-insensitive substring match of term over any of fields.
// The term is quoted so user input never becomes a regex pattern.
func (f *Filter) Search(term string, fields ...string) *Filter {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return f
	}
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	if len(fields) == 1 {
		f.d = append(f.d, bson.E{Key: fields[0], Value: rx})
		return f
	}
	or := bson.A{}
	for _, field := range fields {
		or = append(or, bson.D{{Key: field, Value: rx}})
	}
	f.d = append(f.d, bson.E{Key: "$or", Value: or})
	return f
}

// Range adds min <= field <= max for whichever bounds are set.
func (f *Filter) Range(field string, min, max *float64) *Filter {
	cond := bson.D{}
	if min != nil {
		cond = append(cond, bson.E{Key: "$gte", Value: *min})
	}
	if max != nil {
		cond = append(cond, bson.E{Key: "$lte", Value: *max})
	}
	if len(cond) > 0 {
		f.d = append(f.d, bson.E{Key: field, Value: cond})
	}
	return f
}

// Since adds field >= from when from is non-zero.
func (f *Filter) Since(field string, from time.Time) *Filter {
	if !from.IsZero() {
		f.d = append(f.d, bson.E{Key: field, Value: bson.D{{Key: "$gte", Value: from}}})
	}
	return f
}

// Doc returns the built filter document.
func (f *Filter) Doc() bson.D { return f.d }

// SortField is one entry of a sort enum.
type SortField struct {
	Field string
	Dir   int
}

// sortDoc converts a sort spec to a driver sort document.
func sortDoc(fields ...SortField) bson.D {
	d := bson.D{}
	for _, s := range fields {
		d = append(d, bson.E{Key: s.Field, Value: s.Dir})
	}
	return d
}

// ParseID converts a hex id; malformed ids are reported as NotFound(msg)
// since no document can match them.
func ParseID(hex, notFoundMsg string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(notFoundMsg)
	}
	return id, nil
}
