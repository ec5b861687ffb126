// Package cache provides the LRU cache backing per-device object caches:
// deduplicated state objects and bind groups.
//
//	states := cache.New[beholder.BlendDescription, *beholder.BlendState](256, nil)
//	s, err := states.GetOrCreate(desc, func() (*beholder.BlendState, error) {
//	    return createBlendState(desc)
//	})
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
