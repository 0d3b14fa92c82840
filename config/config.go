package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/filekeep"
	"github.com/sagarc03/filekeep/auth"
	"github.com/sagarc03/filekeep/database"
	filekeephttp "github.com/sagarc03/filekeep/http"
	"github.com/sagarc03/filekeep/s3store"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for filekeep.
type Config struct {
	Server   ServerConfig            `mapstructure:"server"`
	Database database.Config         `mapstructure:"database"`
	Storage  StorageConfig           `mapstructure:"storage"`
	Auth     auth.Config             `mapstructure:"auth"`
	Files    FilesConfig             `mapstructure:"files"`
	CORS     filekeephttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig               `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port          int   `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxUploadSize int64 `mapstructure:"max_upload_size" validate:"min=0"`
}

// StorageConfig holds blob storage configuration.
type StorageConfig struct {
	Type string         `mapstructure:"type" validate:"required,oneof=filesystem s3"`
	Path string         `mapstructure:"path" validate:"required_if=Type filesystem"`
	S3   s3store.Config `mapstructure:"s3"`
}

// FilesConfig holds upload rules.
type FilesConfig struct {
	AllowedExtensions []string `mapstructure:"allowed_extensions" validate:"min=1,dive,required"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":         "database.type",
	"db-dsn":          "database.dsn",
	"storage-type":    "storage.type",
	"storage-path":    "storage.path",
	"auth-type":       "auth.type",
	"port":            "server.port",
	"max-upload-size": "server.max_upload_size",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
// Every key has a default so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5708)
	v.SetDefault("server.max_upload_size", 32<<20)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "filekeep.db")
	v.SetDefault("database.tables.files", "filekeep_files")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.dynamodb.region", "us-east-1")
	v.SetDefault("database.dynamodb.endpoint", "")
	v.SetDefault("database.dynamodb.access_key", "")
	v.SetDefault("database.dynamodb.secret_key", "")

	v.SetDefault("storage.type", "filesystem")
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.use_path_style", false)

	v.SetDefault("auth.type", auth.TypeHMAC)
	v.SetDefault("auth.hmac.secret", "")
	v.SetDefault("auth.hmac.issuer", "filekeep")
	v.SetDefault("auth.hmac.leeway", "0s")
	v.SetDefault("auth.jwks.url", "")
	v.SetDefault("auth.jwks.issuer", "")
	v.SetDefault("auth.jwks.audience", "")
	v.SetDefault("auth.jwks.refresh_interval", "1h")
	v.SetDefault("auth.jwks.client_timeout", "10s")
	v.SetDefault("auth.jwks.leeway", "30s")
	v.SetDefault("auth.admins.inline", []string{})
	v.SetDefault("auth.admins.file", "")

	v.SetDefault("files.allowed_extensions", slices.Clone(filekeep.DefaultAllowedExtensions))

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.exposed_headers", []string{"Content-Disposition", "Content-Length"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("FILEKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
