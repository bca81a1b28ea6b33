// Package config provides centralized configuration management for Attendancify.
// It loads configuration from multiple sources, validates it and resolves the
// directories the server and CLI write to.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ATTENDANCIFY_* for namespacing:
//
//	ATTENDANCIFY_SERVER_PORT=8080
//	ATTENDANCIFY_LOGGING_LEVEL=debug
//	ATTENDANCIFY_RECONCILE_OUTPUT_FORMAT=csv
//	ATTENDANCIFY_RECONCILE_EXCLUSIVE=true
//
// # Path Management
//
// Relative directories are resolved against paths.base_dir, or the executable
// directory when it is unset:
//
//	paths, err := config.ResolvePaths(cfg.Paths)
//	out := paths.GetOutputPath("matching_results.zip")
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
