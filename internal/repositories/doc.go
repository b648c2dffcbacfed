// Package repositories provides the SQLite persistence layer.
//
// [SeenRepository] records releases already collected into a playlist so
// repeat scans can skip them; duplicates are absorbed by a UNIQUE constraint
// on the Spotify release ID. [RunRepository] records one row per radar
// invocation for the history commands.
package repositories
