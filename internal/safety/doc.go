// Package safety protects upstream market-data services with a token-bucket
// rate limiter and a circuit breaker.
package safety
