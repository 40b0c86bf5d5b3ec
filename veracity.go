// Package veracity checks news articles for authenticity. It accepts raw
// article text or a URL, turns hostile, boilerplate-heavy HTML into clean
// bounded prose, and asks a schema-constrained generative backend for a
// structured verdict.
//
// This package contains domain types, interfaces and the pure pipeline
// stages (URL validation, normalization, length guards, prompt assembly)
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// gemini/, sqlite/).
package veracity
