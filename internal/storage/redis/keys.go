package redis

import (
	"fmt"

	"github.com/mcoot/sportsched/internal/model"
)

// keys builds Redis key names under a common prefix
type keys struct {
	prefix string
}

// entity returns the key holding one record's JSON payload
func (k keys) entity(kind model.EntityKind, id string) string {
	return fmt.Sprintf("%s:%s:%s", k.prefix, kind, id)
}

// index returns the SET of record IDs for a kind
func (k keys) index(kind model.EntityKind) string {
	return fmt.Sprintf("%s:idx:%s", k.prefix, kind)
}

// activity returns the LIST holding the activity log
func (k keys) activity() string {
	return fmt.Sprintf("%s:activity", k.prefix)
}

// version returns the counter bumped by every committed transaction.
// Transactions WATCH it to detect concurrent commits.
func (k keys) version() string {
	return fmt.Sprintf("%s:version", k.prefix)
}
