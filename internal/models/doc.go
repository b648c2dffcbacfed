// Package models defines domain entities for the release radar.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Spotify data
//   - [Artist] : A followed artist
//   - [Release] : An album or single with its dated release metadata
//   - [Track] : A song with its playlist-addressable URI
//   - [Playlist] : A created playlist with its public URL
//
// 2. Persistent Entities: Database-backed records
//   - [SeenRelease] : Releases already collected into a playlist on a previous run
//   - [RunRecord] : One radar invocation with its window, counts, and resulting playlist
//
// Release dates carry a precision field ("year", "month", "day"); only
// day-precision dates participate in recency checks.
package models
