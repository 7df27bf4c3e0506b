// Package config reads the chaincode settings from the environment, the way
// the peer and chaincode-as-a-service deployments pass them in.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
)

// Environment variables
const (
	EnvFile            = "CHAINCODE_ENV_FILE"
	EnvServerAddress   = "CHAINCODE_SERVER_ADDRESS"
	EnvChaincodeID     = "CHAINCODE_ID"
	EnvTLSDisabled     = "CHAINCODE_TLS_DISABLED"
	EnvTLSKey          = "CHAINCODE_TLS_KEY"
	EnvTLSCert         = "CHAINCODE_TLS_CERT"
	EnvClientCACert    = "CHAINCODE_CLIENT_CA_CERT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvScoringModel    = "SCORING_MODEL"
	defaultEnvFileName = ".env"
)

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// TLS holds the file paths of the chaincode server TLS material.
type TLS struct {
	Disabled         bool
	KeyPath          string
	CertPath         string
	ClientCACertPath string
}

// Config is the runtime configuration of the chaincode process.
type Config struct {
	// ServerAddress switches to chaincode-as-a-service when set.
	ServerAddress string
	ChaincodeID   string
	TLS           TLS

	LogLevel  logrus.Level
	LogFormat string

	ScoringModel string
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv(EnvFile)
	if !explicit {
		path = defaultEnvFileName
	}
	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %v", path, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		ServerAddress: get(EnvServerAddress, ""),
		ChaincodeID:   get(EnvChaincodeID, ""),
		TLS: TLS{
			KeyPath:          get(EnvTLSKey, ""),
			CertPath:         get(EnvTLSCert, ""),
			ClientCACertPath: get(EnvClientCACert, ""),
		},
		LogFormat:    strings.ToLower(get(EnvLogFormat, LogFormatJSON)),
		ScoringModel: get(EnvScoringModel, fhe.DefaultModelVersion),
	}

	disabled, err := strconv.ParseBool(get(EnvTLSDisabled, "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", EnvTLSDisabled, err)
	}
	cfg.TLS.Disabled = disabled

	level, err := logrus.ParseLevel(get(EnvLogLevel, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations the individual parsers cannot.
func (c *Config) Validate() error {
	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatText {
		return fmt.Errorf("invalid %s: %q", EnvLogFormat, c.LogFormat)
	}
	if !c.AsService() {
		return nil
	}
	if c.ChaincodeID == "" {
		return fmt.Errorf("%s is required when %s is set", EnvChaincodeID, EnvServerAddress)
	}
	if !c.TLS.Disabled && (c.TLS.KeyPath == "" || c.TLS.CertPath == "") {
		return fmt.Errorf("%s and %s are required when TLS is enabled", EnvTLSKey, EnvTLSCert)
	}
	return nil
}

// AsService reports whether the chaincode runs as an external service.
func (c *Config) AsService() bool {
	return c.ServerAddress != ""
}

// NewLogger builds the process logger.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(c.LogLevel)
	if c.LogFormat == LogFormatText {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
