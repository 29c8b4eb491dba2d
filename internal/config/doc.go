// Package config holds trackedit's runtime settings.
//
// Settings are layered: built-in defaults, then each configuration file in
// the order given to Load, then TRACKEDIT_ environment variables. Files may
// be TOML or YAML; the format is chosen by extension. The watcher
// subpackage reloads a file when it changes on disk.
//
//	[edit]
//	coordinates = "parent"
//	fillName = "black"
//
//	[history]
//	maxEntries = 500
//
//	[logging]
//	level = "debug"
//	format = "console"
package config
