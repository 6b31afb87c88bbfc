package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/crmdesk/crm-system/internal/core/ports"
)

// clientSortFields is the closed whitelist of requester-facing sort keys and
// the document fields they map to. Anything else falls back to the default
// ordering; an invalid sort field is ignored, never an error.
var clientSortFields = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"createdAt": "created_at",
	"city":      "city",
}

// clientPredicate translates the filter bag into a BSON predicate. The
// tenant scope, when present, is the first clause of an $and and cannot be
// displaced by any caller-supplied filter. User input only ever appears as
// BSON values; substrings are regex-escaped before use.
func clientPredicate(f ports.ClientFilter) bson.M {
	var clauses []bson.M

	if f.OwnerID != "" {
		clauses = append(clauses, bson.M{"owner_id": f.OwnerID})
	}

	if f.Name != "" {
		pattern := regexp.QuoteMeta(f.Name)
		re := primitive.Regex{Pattern: pattern, Options: "i"}
		// Match the first name, the last name, or the joined "first last"
		// string so "john smith" finds a record stored as "John"/"Smith".
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"first_name": re},
			bson.M{"last_name": re},
			bson.M{"$expr": bson.M{"$regexMatch": bson.M{
				"input":   bson.M{"$concat": bson.A{"$first_name", " ", "$last_name"}},
				"regex":   pattern,
				"options": "i",
			}}},
		}})
	}

	if f.Email != "" {
		clauses = append(clauses, bson.M{"email": primitive.Regex{Pattern: regexp.QuoteMeta(f.Email), Options: "i"}})
	}
	if f.City != "" {
		clauses = append(clauses, bson.M{"city": primitive.Regex{Pattern: regexp.QuoteMeta(f.City), Options: "i"}})
	}
	if f.IsActive != nil {
		clauses = append(clauses, bson.M{"is_active": *f.IsActive})
	}
	if !f.CreatedAfter.IsZero() {
		clauses = append(clauses, bson.M{"created_at": bson.M{"$gte": f.CreatedAfter.UTC()}})
	}
	if !f.CreatedBefore.IsZero() {
		clauses = append(clauses, bson.M{"created_at": bson.M{"$lte": f.CreatedBefore.UTC()}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// clientSort builds the ordering spec. The primary field comes from the
// whitelist; last name then first name (ascending) are appended as
// tie-breaks whenever they are not already the primary, so repeated queries
// with identical filters paginate deterministically.
func clientSort(f ports.ClientFilter) bson.D {
	dir := 1
	if strings.EqualFold(f.SortDir, "desc") {
		dir = -1
	}

	order := bson.D{}
	field, ok := clientSortFields[f.SortField]
	if ok {
		order = append(order, bson.E{Key: field, Value: dir})
	}
	if field != "last_name" {
		order = append(order, bson.E{Key: "last_name", Value: 1})
	}
	if field != "first_name" {
		order = append(order, bson.E{Key: "first_name", Value: 1})
	}
	return order
}
