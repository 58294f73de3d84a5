package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GameAttempt is one finished game. Rows are never updated.
type GameAttempt struct {
	ent.Schema
}

func (GameAttempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable().
			Comment("UUID assigned on save"),
		field.String("user_id"),
		field.String("game_id"),
		field.String("category").
			Comment("QUANT or REASONING"),
		field.String("difficulty"),
		field.Int("score").
			Comment("Final score after the multiplier"),
		field.Int("total_questions"),
		field.Int("correct_answers"),
		field.Int("time_taken").
			Comment("Seconds"),
		field.Int64("created_at").
			Immutable().
			Comment("Unix milliseconds, UTC"),
	}
}

func (GameAttempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "created_at"),
	}
}
