// Package config provides configuration management for the book library.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validating settings before the library starts
//
// # Default Settings
//
// Use DefaultSettings() to get the stock layout:
//
//	settings := config.DefaultSettings()
//	// Library in files/lib.txt, imports from files/books.txt
//	// Help text from files/help.txt
//	// Warnings and errors logged as text to stderr
//
// # Loading from File
//
//	settings, err := config.Load("files/config.toml")
//	if err != nil {
//	    // Defaults are used if the file doesn't exist;
//	    // invalid values are reported per field
//	}
//
// A config file only needs the keys it overrides:
//
//	library_path = "/srv/books/lib.txt"
//	import_paths = ["incoming/a.txt", "incoming/b.txt"]
//
//	[log]
//	level = "debug"
//	file = "library.log"
//
// # Saving Settings
//
// `library config init` writes the defaults this way:
//
//	err := config.DefaultSettings().Save("files/config.toml")
package config
