// Package woocrawl crawls Dutch government organization and document
// portals, extracts structured metadata from their HTML and JSON responses,
// and keeps normalized records with deduplication and incremental
// reprocessing.
//
// This package contains domain types, interfaces and the pure extraction
// helpers shared by every implementation, following Ben Johnson's Standard
// Package Layout. Implementations live in subdirectories named after their
// primary dependency (e.g., sqlite/, goquery/, gjson/).
package woocrawl
