// Package cache provides a small generic LRU cache with hit and miss
// accounting.
//
// The GBCD result uses it to memoize pole figures, which cost
// O(points² · nsym²) misorientation decompositions each:
//
//	c := cache.New[key, *PoleFigure](32)
//	pf, err := c.GetOrCreate(k, func() (*PoleFigure, error) { ... })
//
// # Thread Safety
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
