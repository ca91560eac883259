// Package batch supports multi-topic documentation fetches.
//
// get_documentation accepts a single topic ID, an array, or a JSON-encoded
// array; ParseStringOrArray normalizes all three. ProcessBatch fetches the
// topics in order and reports per-topic success or failure so one missing
// document does not fail the whole request.
package batch
