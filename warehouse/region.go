package warehouse

import "crypto/sha1"

// Regions is the fixed set of region buckets used by the warehouse.
var Regions = []string{"US-West", "US-East", "US-South", "US-Midwest", "Canada", "Europe"}

// RegionBucket derives a region bucket from a customer identifier using the
// first byte of its SHA-1 digest. This is an opaque categorical derivation
// used at ingest time: deterministic and non-reversible, with no uniqueness
// guarantees. Not a security control.
func RegionBucket(customerID string) string {
	digest := sha1.Sum([]byte(customerID))
	return Regions[int(digest[0])%len(Regions)]
}
