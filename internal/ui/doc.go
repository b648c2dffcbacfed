// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for release review:
//  1. [ScanView] : Watch the release scan progress
//  2. [ReleaseListView] : Browse found releases and toggle them out of the batch
//  3. [ConfirmView] : Confirm playlist creation
//  4. [BuildView] : Monitor playlist assembly
//  5. [ResultView] : Display the created playlist and dedup stats
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the radar engine, providing
// non-blocking status reporting during scans and builds.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
