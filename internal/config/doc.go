// SPDX-License-Identifier: MPL-2.0

// Package config loads the depot CLI configuration.
//
// Configuration lives in a CUE file (config.cue) resolved from the
// platform config directory or the current working directory, validated
// against an embedded schema and merged into viper so defaults and
// DEPOT_* environment variables layer underneath the file values.
package config
