// Package writers turns dataset results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, pretty blocks, JSON/JSONL, XLSX).
//   - Aggregation stays domain-only; it never formats.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
