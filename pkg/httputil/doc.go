// Package httputil provides the HTTP plumbing behind the remote ephemeris
// provider.
//
//   - [Cache]: file-based JSON response cache with TTL and namespaces
//   - [Retry]: retry with exponential backoff for [RetryableError] failures
//   - [Client]: GET + JSON decode with status classification and hooks
//
// Responses for a given Julian day never change, so the remote provider
// caches them indefinitely by default:
//
//	cache, err := httputil.NewCache("", 0)
//	client := httputil.NewClient(cache.Namespace("remote:"), nil)
//	var out positionResponse
//	err = client.Cached(ctx, url, false, &out, func() error {
//	    return client.Get(ctx, url, &out)
//	})
//
// 5xx responses and transport failures are retried; 4xx responses are
// returned immediately as a [*StatusError] carrying the response body.
package httputil
