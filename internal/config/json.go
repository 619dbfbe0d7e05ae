package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for the optional config file.
type StructuredJSONConfig struct {
	App struct {
		TokenIssuer          string   `json:"token_issuer"`
		AccessTokenTTL       Duration `json:"access_token_ttl"`
		RefreshTokenTTL      Duration `json:"refresh_token_ttl"`
		VaultAutoLockTimeout Duration `json:"vault_auto_lock_timeout"`
		SessionLockEnabled   bool     `json:"session_lock_enabled"`
		SessionLockThreshold Duration `json:"session_lock_threshold"`
		MinSchemaVersion     int      `json:"min_schema_version"`
		MaxSchemaVersion     int      `json:"max_schema_version"`
		Version              string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		Local struct {
			Path string `json:"path"`
		} `json:"local,omitempty"`

		Shared struct {
			DSN string `json:"dsn"`
		} `json:"shared,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenIssuer:          jsonCfg.App.TokenIssuer,
			AccessTokenTTL:       time.Duration(jsonCfg.App.AccessTokenTTL),
			RefreshTokenTTL:      time.Duration(jsonCfg.App.RefreshTokenTTL),
			VaultAutoLockTimeout: time.Duration(jsonCfg.App.VaultAutoLockTimeout),
			SessionLockEnabled:   jsonCfg.App.SessionLockEnabled,
			SessionLockThreshold: time.Duration(jsonCfg.App.SessionLockThreshold),
			MinSchemaVersion:     jsonCfg.App.MinSchemaVersion,
			MaxSchemaVersion:     jsonCfg.App.MaxSchemaVersion,
			Version:              jsonCfg.App.Version,
		},
		Storage: Storage{
			Local: LocalDB{
				Path: jsonCfg.Storage.Local.Path,
			},
			Shared: SharedDB{
				DSN: jsonCfg.Storage.Shared.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
