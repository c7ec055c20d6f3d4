// Package cache provides a generic fixed-size LRU cache.
//
// The pipeline template selector uses it to memoize template lists per label
// selector so that switching back and forth between builder images does not
// query the cluster again:
//
//	templates := cache.NewLRU[string, []k8s.Resource](32)
//	templates.Add(selector, items)
//	if items, ok := templates.Get(selector); ok {
//		// use items
//	}
package cache
