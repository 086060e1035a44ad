package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AdminSessionKey returns the cache key for an admin's active session JTI.
func (r *CacheKeyStruct) AdminSessionKey(adminID int) string {
	return fmt.Sprintf("admin:%d:session", adminID)
}

// LatencySamplesKey returns the capped list key holding recent request
// durations in milliseconds, consumed by the security dashboard.
func (r *CacheKeyStruct) LatencySamplesKey() string {
	return "metrics:latency_samples"
}

var CacheKey = NewCacheKeyStruct()
