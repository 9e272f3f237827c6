package repositories

import (
	"time"

	"chat-thread/errors"

	"github.com/dgraph-io/badger/v4"
)

// Retry replays a read-write transaction when badger reports a conflict with a
// concurrent transaction. Other errors are returned immediately.
type Retry struct {
	Attempts int
	Delay    time.Duration
}

var DefaultRetry = Retry{Attempts: 3, Delay: 50 * time.Millisecond}

func (r Retry) Update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	for attempt := 1; ; attempt++ {
		err := db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) || attempt >= r.Attempts {
			return err
		}
		time.Sleep(r.Delay)
	}
}
