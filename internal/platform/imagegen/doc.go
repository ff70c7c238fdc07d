// Package imagegen implements the generation.Generator boundary against the
// external image-generation vendors. It contains the vendor HTTP clients,
// the response-shape normalizer, the vendor error classifier, and the
// retrying caller that applies the shared resilience policy (per-attempt
// timeouts, exponential backoff, no retry on deterministic vendor quirks).
package imagegen
