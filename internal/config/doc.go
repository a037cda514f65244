// SPDX-License-Identifier: MPL-2.0

// Package config handles the modelmanager tool configuration using Viper with
// CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/modelmanager on Linux, ~/Library/Application
// Support/modelmanager on macOS, %APPDATA%\modelmanager on Windows), validated
// against the embedded schema (config_schema.cue) and merged over the
// defaults. MODELMANAGER_* environment variables override file values, e.g.
// MODELMANAGER_CLI_TRACE=false.
//
// This is the configuration of the tool itself. Project settings live in the
// project's settings file and are handled by pkg/settingsfile.
package config
