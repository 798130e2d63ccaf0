// Package resilience contains fault-tolerance utilities for calls to the
// managed photo backend: retry with exponential backoff (retry) and circuit
// breaking (circuitbreaker). The cache layer itself never retries; these
// wrap the network edge only.
package resilience
