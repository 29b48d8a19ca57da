package cache

import "time"

// Store is the key-value contract shared by the Redis and in-memory
// backends. Sync engines use it to cache platform user directories so a
// run resolves host/speaker identity without re-fetching the user list
// per record.
type Store interface {
	Set(key string, value string, expiration time.Duration)
	Get(key string) (string, bool)
	Delete(key string)
}
