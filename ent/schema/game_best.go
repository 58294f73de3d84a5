package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GameBest holds the personal best of one user on one game.
type GameBest struct {
	ent.Schema
}

func (GameBest) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id"),
		field.String("game_id"),
		field.Int("best_score"),
		field.Int("attempts").
			Comment("Games played, including ones below the best"),
		field.Int64("last_played"),
		field.Int64("updated_at").
			Comment("When best_score last changed"),
	}
}

func (GameBest) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "game_id").
			Unique(),
	}
}
