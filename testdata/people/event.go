package people

import (
	"database/sql"
	"time"

	"github.com/ioklo/Pretune/pretune"
)

// Box carries an arbitrary payload.
type Box struct{ V any }

// Event is something that happened, at a known time or not.
type Event struct {
	_ pretune.AutoConstructor
	_ pretune.ImplementEquatable

	name    string
	at      *time.Time
	aliases *[]string
	note    sql.NullString
	payload Box
}
