// Package httputil provides retry helpers for outbound HTTP clients.
//
// [Retry] re-runs an operation whose error is wrapped in [RetryableError],
// doubling the delay between attempts. Callers decide what is transient;
// the NocoDB client wraps network failures and 5xx responses of GET
// requests and never retries mutating requests:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Defaults of [RetryWithBackoff]: 3 attempts, 1 second initial delay.
package httputil
