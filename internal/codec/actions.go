package codec

import (
	"time"

	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
)

// SchemaLookup returns the metrics of an existing habit.
type SchemaLookup func(habit string) ([]models.Metric, bool)

// SchemasFrom builds a SchemaLookup over habits.
func SchemasFrom(habits []models.Habit) SchemaLookup {
	return func(name string) ([]models.Metric, bool) {
		for _, h := range habits {
			if h.Name == name {
				return h.Metrics, true
			}
		}
		return nil, false
	}
}

// DecodeActions reads an assistant reply. The payload may carry "creation"
// and "logging" at the top level or nested under "actions". Creations are
// keyed by habit name; loggings map a habit name to a list of submissions,
// decoded against the schema of a habit created in the same reply or found
// through schemas. A nil result with a nil error means the reply proposes
// nothing.
func DecodeActions(raw map[string]any, schemas SchemaLookup, now time.Time) (*models.Actions, error) {
	if nested, ok := asMap(raw[FieldActions]); ok {
		raw = nested
	}
	creationRaw, hasCreation := raw[FieldCreation]
	loggingRaw, hasLogging := raw[FieldLogging]
	if !hasCreation && !hasLogging {
		return nil, &DecodeError{Entity: "actions", Field: FieldCreation, Reason: "and logging are both missing"}
	}

	var creations []models.Habit
	if hasCreation && creationRaw != nil {
		decoded, err := decodeCreations(creationRaw)
		if err != nil {
			return nil, err
		}
		creations = decoded
	}

	lookup := func(name string) ([]models.Metric, bool) {
		for _, h := range creations {
			if h.Name == name {
				return h.Metrics, true
			}
		}
		if schemas == nil {
			return nil, false
		}
		return schemas(name)
	}

	loggings := map[string][]models.Submission{}
	if hasLogging && loggingRaw != nil {
		byHabit, ok := asMap(loggingRaw)
		if !ok {
			return nil, &DecodeError{Entity: "actions", Field: FieldLogging, Reason: "must be keyed by habit name"}
		}
		for habit, item := range byHabit {
			list, ok := asList(item)
			if !ok {
				logger.Warn("Dropping malformed logging list", "habit", habit)
				continue
			}
			schema, known := lookup(habit)
			if !known {
				logger.Warn("Dropping loggings for unknown habit", "habit", habit, "count", len(list))
				continue
			}
			for _, entry := range list {
				m, ok := asMap(entry)
				if !ok {
					continue
				}
				loggings[habit] = append(loggings[habit], DecodeNewSubmission(m, schema, now))
			}
		}
	}

	return models.NewActions(creations, loggings), nil
}

func decodeCreations(raw any) ([]models.Habit, error) {
	var habits []models.Habit
	add := func(h models.Habit, err error) {
		if err != nil {
			logger.Warn("Dropping unreadable habit creation", "error", err)
			return
		}
		habits = append(habits, h)
	}

	if byName, ok := asMap(raw); ok {
		for name, item := range byName {
			m, ok := asMap(item)
			if !ok {
				continue
			}
			add(DecodeHabitEntry(name, m))
		}
		models.SortHabits(habits)
		return habits, nil
	}
	if list, ok := asList(raw); ok {
		for _, item := range list {
			m, ok := asMap(item)
			if !ok {
				continue
			}
			add(DecodeHabit(m))
		}
		return habits, nil
	}
	return nil, &DecodeError{Entity: "actions", Field: FieldCreation, Reason: "must be keyed by habit name"}
}

// EncodeActions writes proposed actions in the shape DecodeActions reads.
func EncodeActions(a *models.Actions) map[string]any {
	creation := map[string]any{}
	logging := map[string]any{}
	if a != nil {
		for _, h := range a.Creations {
			creation[h.Name] = EncodeHabit(h)
		}
		for habit, subs := range a.Loggings {
			list := make([]any, 0, len(subs))
			for _, s := range subs {
				list = append(list, EncodeNewSubmission(s))
			}
			logging[habit] = list
		}
	}
	return map[string]any{FieldCreation: creation, FieldLogging: logging}
}
