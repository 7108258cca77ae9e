package pooldb

import "hash/fnv"

// Fingerprint returns a stable hash of (url, username, password), used as
// the pool's connection_type_code to detect that a pooled connection was
// issued under a configuration that has since drifted.
func Fingerprint(url, username, password string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(url))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(username))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(password))
	return h.Sum64()
}
