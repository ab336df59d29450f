package cache

import (
	"time"

	"consultacnpj/cmd/internal/domain/entity"
	"consultacnpj/cmd/internal/utils"
)

const DefaultTTL = 5 * time.Minute

// Entry is a cached lookup result. Entries with Found set to false record that
// the registry has no company under the key.
type Entry struct {
	Company  *entity.Company
	Found    bool
	StoredAt int64
}

// Store keeps lookup results keyed by the cleaned 14-digit CNPJ.
// Get returns nil and no error on a miss or when the entry has expired.
type Store interface {
	Get(key string) (*Entry, error)
	Set(key string, entry *Entry) error
	Delete(key string) error
	Clear() error
	Sweep() (int, error)
	Len() (int, error)
}

type options struct {
	ttl time.Duration
	now func() int64
}

type Option func(*options)

func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock overrides the epoch millisecond clock used for expiry.
func WithClock(now func() int64) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, now: utils.NowUTC}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) expired(storedAt int64) bool {
	return o.now()-storedAt >= o.ttl.Milliseconds()
}

// cutoff is the newest StoredAt that counts as expired.
func (o options) cutoff() int64 {
	return o.now() - o.ttl.Milliseconds()
}
