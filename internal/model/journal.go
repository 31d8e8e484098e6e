package model

import "time"

// JournalEntry is one step of an admin mutation, kept for auditing only.
type JournalEntry struct {
	ID        string    `db:"id" json:"id" yaml:"id"`
	Feature   string    `db:"feature" json:"feature" yaml:"feature"`
	Action    string    `db:"action" json:"action" yaml:"action"`
	EntityID  string    `db:"entity_id" json:"entity_id" yaml:"entity_id"`
	Result    string    `db:"result" json:"result" yaml:"result"`
	Error     *string   `db:"error" json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
}
