package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/cglprep/blitz/ent/schema"
)

var (
	// AttemptsTable holds one row per finished game.
	AttemptsTable = mustTable("game_attempts", "GameAttempt", entschema.GameAttempt{})
	// BestsTable holds the personal best per (user, game).
	BestsTable = mustTable("game_bests", "GameBest", entschema.GameBest{})
	// LLMRequestEventsTable records every LLM call.
	LLMRequestEventsTable = mustTable("llm_request_events", "LLMRequestEvent", entschema.LLMRequestEvent{})

	// Tables lists every table in migration order.
	Tables = []*schema.Table{
		AttemptsTable,
		BestsTable,
		LLMRequestEventsTable,
	}
)

// mustTable builds the migration table for an ent schema. Mixin fields
// come first, after the id. A schema without an "id" field gets an
// auto-increment integer key. Index names follow ent: the lower-cased type
// name joined with the column names.
func mustTable(name, typeName string, s ent.Interface) *schema.Table {
	t, err := tableFor(name, typeName, s)
	if err != nil {
		panic(fmt.Sprintf("store: schema %s: %v", typeName, err))
	}
	return t
}

func tableFor(name, typeName string, s ent.Interface) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	var id *schema.Column
	columns := make([]*schema.Column, 0, len(fields)+1)
	byName := make(map[string]*schema.Column, len(fields)+1)
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Size:     d.Size,
		}
		if d.Default != nil {
			c.Default = d.Default
		}
		if d.Name == "id" {
			id = c
			continue
		}
		columns = append(columns, c)
		byName[c.Name] = c
	}
	if id == nil {
		id = &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	}
	columns = append([]*schema.Column{id}, columns...)
	byName[id.Name] = id

	t := &schema.Table{
		Name:       name,
		Columns:    columns,
		PrimaryKey: []*schema.Column{id},
	}
	for _, ix := range indexes {
		d := ix.Descriptor()
		cols := make([]*schema.Column, 0, len(d.Fields))
		for _, fname := range d.Fields {
			c, ok := byName[fname]
			if !ok {
				return nil, fmt.Errorf("index on unknown field %q", fname)
			}
			cols = append(cols, c)
		}
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    strings.ToLower(typeName) + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}
	return t, nil
}
