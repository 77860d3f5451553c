package cache

import "golang.org/x/sync/singleflight"

// inflightGroup is golang.org/x/sync/singleflight.Group, aliased for the
// doc comment below rather than embedded directly in Cache's struct
// literal, since singleflight.Group's zero value is ready to use.
type inflightGroup = singleflight.Group

// DoInFlight collapses concurrent calls sharing fingerprint to a single
// invocation of fn: every other caller blocks and receives the same result,
// so at most one generation is ever in flight per fingerprint. singleflight
// is the idiomatic Go primitive for this rather than a hand-rolled
// pending-request map, and it already handles panic safety.
func (c *Cache) DoInFlight(fingerprint string, fn func() (string, error)) (string, error) {
	v, err, _ := c.group.Do(fingerprint, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
