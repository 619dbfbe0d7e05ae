// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.Local.Path == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.MinSchemaVersion > cfg.App.MaxSchemaVersion {
		return ErrInvalidAppConfigs
	}

	return nil
}
