// Package animals scrapes animal profile pages, stores them as flat records,
// enriches them with backfilled fields and keyword tags, and serves a small
// read-only dashboard over the result.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, chi/).
package animals
