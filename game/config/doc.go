// Package config loads and caches named grid configurations.
//
// Boards are JSON files in a configs directory, validated through the
// engine on load. When no directory is configured, or a named board
// is missing, the manager falls back to the built-in default board.
package config
