package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-local-db local sqlite database file path
//	-d shared store database DSN
//	-c/-config json file path with configs
//	-token-issuer token issuer name
//	-access-token-ttl access token lifetime (e.g., "15m")
//	-refresh-token-ttl refresh token lifetime (e.g., "168h")
//	-vault-auto-lock vault inactivity auto-lock timeout (e.g., "15m")
//	-session-lock enable the solo-mode inactivity session lock
//	-session-lock-threshold session lock inactivity threshold (e.g., "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sweep-interval expired-session sweep interval (e.g., "5m")
//	-migrate-shared run shared store migrations and exit
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var localDBPath string
	var sharedDSN string
	var jsonConfigPath string
	var tokenIssuer string
	var accessTokenTTL time.Duration
	var refreshTokenTTL time.Duration
	var vaultAutoLock time.Duration
	var sessionLockEnabled bool
	var sessionLockThreshold time.Duration
	var requestTimeout time.Duration
	var sweepInterval time.Duration
	var migrateShared bool

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&localDBPath, "local-db", "", "Local sqlite database file path")
	flag.StringVar(&sharedDSN, "d", "", "Shared store database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&accessTokenTTL, "access-token-ttl", 0, "Access token lifetime (e.g., 15m)")
	flag.DurationVar(&refreshTokenTTL, "refresh-token-ttl", 0, "Refresh token lifetime (e.g., 168h)")
	flag.DurationVar(&vaultAutoLock, "vault-auto-lock", 0, "Vault inactivity auto-lock timeout (e.g., 15m)")
	flag.BoolVar(&sessionLockEnabled, "session-lock", false, "Enable the solo-mode inactivity session lock")
	flag.DurationVar(&sessionLockThreshold, "session-lock-threshold", 0, "Session lock inactivity threshold (e.g., 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&sweepInterval, "sweep-interval", 0, "Expired-session sweep interval (e.g., 5m)")
	flag.BoolVar(&migrateShared, "migrate-shared", false, "Run shared store migrations and exit")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenIssuer:          tokenIssuer,
			AccessTokenTTL:       accessTokenTTL,
			RefreshTokenTTL:      refreshTokenTTL,
			VaultAutoLockTimeout: vaultAutoLock,
			SessionLockEnabled:   sessionLockEnabled,
			SessionLockThreshold: sessionLockThreshold,
		},
		Storage: Storage{
			Local: LocalDB{
				Path: localDBPath,
			},
			Shared: SharedDB{
				DSN: sharedDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SweepInterval: sweepInterval,
		},
		JSONFilePath:  jsonConfigPath,
		MigrateShared: migrateShared,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
