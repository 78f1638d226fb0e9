// Package pipeline fans independent per-cell work out to a fixed pool of
// workers and hands results back to a single collector, tagged with their
// input index.
//
// Callers that store results by index get output that does not depend on
// the number of workers.
package pipeline
