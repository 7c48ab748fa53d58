// Package config loads the client and devserver settings. Sources are applied
// in increasing priority: built-in defaults, an optional JSON file, the
// environment (a .env file is honoured), then command-line flags.
package config

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/patric-chuzhbe/suiteclient/internal/logger"
)

// Config holds every setting of the client and the devserver.
type Config struct {
	BaseURL             string        `env:"SUITE_BASE_URL" validate:"required,url"`
	StorageFile         string        `env:"SUITE_STORAGE_PATH" validate:"storagepath"`
	DatabaseDSN         string        `env:"SUITE_DATABASE_DSN"`
	StorageNamespace    string        `env:"SUITE_STORAGE_NAMESPACE" validate:"required"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT" validate:"gt=0"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	LoginPath           string        `env:"SUITE_LOGIN_PATH" validate:"required,startswith=/"`
	RegisterPath        string        `env:"SUITE_REGISTER_PATH" validate:"required,startswith=/"`
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	JWTSigningKey       string        `env:"JWT_SIGNING_KEY" validate:"required,base64url"`
	TokenLifetime       time.Duration `env:"TOKEN_LIFETIME" validate:"gt=0"`

	// Args holds the command-line arguments left after flag parsing.
	Args []string
}

// fileConfig mirrors Config in the JSON file; durations are Go duration strings.
type fileConfig struct {
	BaseURL             string `json:"base_url"`
	StorageFile         string `json:"storage_path"`
	DatabaseDSN         string `json:"database_dsn"`
	StorageNamespace    string `json:"storage_namespace"`
	DBConnectionTimeout string `json:"db_connection_timeout"`
	LogLevel            string `json:"log_level"`
	LoginPath           string `json:"login_path"`
	RegisterPath        string `json:"register_path"`
	RunAddr             string `json:"server_address"`
	JWTSigningKey       string `json:"jwt_signing_key"`
	TokenLifetime       string `json:"token_lifetime"`
}

var defaultConfig = Config{
	BaseURL:             "http://localhost:5000",
	StorageFile:         "",
	DatabaseDSN:         "",
	StorageNamespace:    "default",
	DBConnectionTimeout: 10 * time.Second,
	LogLevel:            "info",
	LoginPath:           "/login",
	RegisterPath:        "/register",
	RunAddr:             "localhost:5000",
	JWTSigningKey:       base64.URLEncoding.EncodeToString([]byte("suiteclient-development-key-only")),
	TokenLifetime:       30 * 24 * time.Hour,
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
	values.Args = nil
}

func validateStoragePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (values *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("storagepath", validateStoragePath)
	if err != nil {
		return err
	}

	return validate.Struct(values)
}

// SigningKey decodes JWTSigningKey.
func (values *Config) SigningKey() ([]byte, error) {
	return base64.URLEncoding.DecodeString(values.JWTSigningKey)
}

// PublicPaths lists the page paths that do not require a stored token.
func (values *Config) PublicPaths() []string {
	return []string{values.LoginPath, values.RegisterPath}
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	args                []string
	flagSetName         string
}

func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithArgs makes New parse args instead of os.Args[1:].
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.args = args
	}
}

// WithFlagSetName names the flag set in usage output.
func WithFlagSetName(name string) InitOption {
	return func(options *initOptions) {
		options.flagSetName = name
	}
}

// New builds the configuration from all sources and validates it.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		args:                nil,
		flagSetName:         os.Args[0],
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}
	if options.args == nil && len(os.Args) > 1 {
		options.args = os.Args[1:]
	}

	err := godotenv.Load()
	if err != nil {
		logger.Log.Debugln("Unable to load .env file:", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	var flagValues Config
	var configPath string
	var setFlags map[string]bool
	if !options.disableFlagsParsing {
		flags := flag.NewFlagSet(options.flagSetName, flag.ContinueOnError)
		flags.StringVar(&configPath, "c", "", "path to a JSON config file")
		flags.StringVar(&flagValues.BaseURL, "b", "", "base URL of the backend")
		flags.StringVar(&flagValues.StorageFile, "f", "", "JSON file keeping the session")
		flags.StringVar(&flagValues.DatabaseDSN, "d", "", "PostgreSQL DSN keeping the session")
		flags.StringVar(&flagValues.StorageNamespace, "n", "", "session namespace inside the database")
		flags.StringVar(&flagValues.LogLevel, "l", "", "logger level")
		flags.StringVar(&flagValues.RunAddr, "a", "", "devserver address and port")
		if err := flags.Parse(options.args); err != nil {
			return nil, err
		}
		setFlags = map[string]bool{}
		flags.Visit(func(f *flag.Flag) {
			setFlags[f.Name] = true
		})
		values.Args = flags.Args()
	} else {
		values.Args = options.args
	}

	if configPath == "" {
		configPath = os.Getenv("CONFIG")
	}
	if configPath != "" {
		if err := values.applyJSONFile(configPath); err != nil {
			return nil, err
		}
	}

	var valuesFromEnv Config
	err = env.Parse(&valuesFromEnv)
	if err != nil {
		return nil, err
	}
	values.overlay(&valuesFromEnv)

	if setFlags != nil {
		values.applyFlags(&flagValues, setFlags)
	}

	values.BaseURL = strings.TrimRight(values.BaseURL, "/")

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}

func (values *Config) applyJSONFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("in config.applyJSONFile(): error while reading %q: %w", path, err)
	}

	var fromFile fileConfig
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("in config.applyJSONFile(): error while parsing %q: %w", path, err)
	}

	parsed := Config{
		BaseURL:          fromFile.BaseURL,
		StorageFile:      fromFile.StorageFile,
		DatabaseDSN:      fromFile.DatabaseDSN,
		StorageNamespace: fromFile.StorageNamespace,
		LogLevel:         fromFile.LogLevel,
		LoginPath:        fromFile.LoginPath,
		RegisterPath:     fromFile.RegisterPath,
		RunAddr:          fromFile.RunAddr,
		JWTSigningKey:    fromFile.JWTSigningKey,
	}
	if fromFile.DBConnectionTimeout != "" {
		parsed.DBConnectionTimeout, err = time.ParseDuration(fromFile.DBConnectionTimeout)
		if err != nil {
			return fmt.Errorf("in config.applyJSONFile(): db_connection_timeout: %w", err)
		}
	}
	if fromFile.TokenLifetime != "" {
		parsed.TokenLifetime, err = time.ParseDuration(fromFile.TokenLifetime)
		if err != nil {
			return fmt.Errorf("in config.applyJSONFile(): token_lifetime: %w", err)
		}
	}

	values.overlay(&parsed)

	return nil
}

// overlay copies every non-zero field of src over values.
func (values *Config) overlay(src *Config) {
	if src.BaseURL != "" {
		values.BaseURL = src.BaseURL
	}
	if src.StorageFile != "" {
		values.StorageFile = src.StorageFile
	}
	if src.DatabaseDSN != "" {
		values.DatabaseDSN = src.DatabaseDSN
	}
	if src.StorageNamespace != "" {
		values.StorageNamespace = src.StorageNamespace
	}
	if src.DBConnectionTimeout != 0 {
		values.DBConnectionTimeout = src.DBConnectionTimeout
	}
	if src.LogLevel != "" {
		values.LogLevel = src.LogLevel
	}
	if src.LoginPath != "" {
		values.LoginPath = src.LoginPath
	}
	if src.RegisterPath != "" {
		values.RegisterPath = src.RegisterPath
	}
	if src.RunAddr != "" {
		values.RunAddr = src.RunAddr
	}
	if src.JWTSigningKey != "" {
		values.JWTSigningKey = src.JWTSigningKey
	}
	if src.TokenLifetime != 0 {
		values.TokenLifetime = src.TokenLifetime
	}
}

// applyFlags copies the explicitly set flags, so an empty -f "" can clear a file path.
func (values *Config) applyFlags(src *Config, set map[string]bool) {
	if set["b"] {
		values.BaseURL = src.BaseURL
	}
	if set["f"] {
		values.StorageFile = src.StorageFile
	}
	if set["d"] {
		values.DatabaseDSN = src.DatabaseDSN
	}
	if set["n"] {
		values.StorageNamespace = src.StorageNamespace
	}
	if set["l"] {
		values.LogLevel = src.LogLevel
	}
	if set["a"] {
		values.RunAddr = src.RunAddr
	}
}
