package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"familymap/backend/internal/model"
)

// ============================================================================
// Record Mapping
// ============================================================================

func personFromRecord(record *neo4j.Record) model.Person {
	return model.Person{
		ID:                 getStringFromRecord(record, "id"),
		AssociatedUsername: getStringFromRecord(record, "associated_username"),
		FirstName:          getStringFromRecord(record, "first_name"),
		LastName:           getStringFromRecord(record, "last_name"),
		Gender:             model.Gender(getStringFromRecord(record, "gender")),
		FatherID:           getStringFromRecord(record, "father_id"),
		MotherID:           getStringFromRecord(record, "mother_id"),
		SpouseID:           getStringFromRecord(record, "spouse_id"),
	}
}

func eventFromRecord(record *neo4j.Record) model.Event {
	return model.Event{
		ID:                 getStringFromRecord(record, "id"),
		AssociatedUsername: getStringFromRecord(record, "associated_username"),
		PersonID:           getStringFromRecord(record, "person_id"),
		EventType:          getStringFromRecord(record, "event_type"),
		Year:               getIntFromRecord(record, "year"),
		City:               getStringFromRecord(record, "city"),
		Country:            getStringFromRecord(record, "country"),
		Latitude:           getFloat64FromRecord(record, "latitude"),
		Longitude:          getFloat64FromRecord(record, "longitude"),
	}
}

// personParams leaves absent relatives out so SET += does not store empty strings
func personParams(p model.Person) map[string]interface{} {
	params := map[string]interface{}{
		"id":                  p.ID,
		"associated_username": p.AssociatedUsername,
		"first_name":          p.FirstName,
		"last_name":           p.LastName,
		"gender":              string(p.Gender),
	}
	putIfSet(params, "father_id", p.FatherID)
	putIfSet(params, "mother_id", p.MotherID)
	putIfSet(params, "spouse_id", p.SpouseID)
	return params
}

func eventParams(e model.Event) map[string]interface{} {
	return map[string]interface{}{
		"id":                  e.ID,
		"associated_username": e.AssociatedUsername,
		"person_id":           e.PersonID,
		"event_type":          e.EventType,
		"year":                int64(e.Year),
		"city":                e.City,
		"country":             e.Country,
		"latitude":            e.Latitude,
		"longitude":           e.Longitude,
	}
}

func putIfSet(params map[string]interface{}, key, value string) {
	if value != "" {
		params[key] = value
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getIntFromRecord(record *neo4j.Record, key string) int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return int(i)
	}
	if i, ok := val.(int); ok {
		return i
	}
	return 0
}

func getFloat64FromRecord(record *neo4j.Record, key string) float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0.0
	}
	if f, ok := val.(float64); ok {
		return f
	}
	if i, ok := val.(int64); ok {
		return float64(i)
	}
	return 0.0
}
