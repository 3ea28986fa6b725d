// Package config reads the server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StoreLocal  = "local"
	StoreSQLite = "sqlite"
)

// Config holds every setting the server and maintenance commands need.
type Config struct {
	Port     string
	LogLevel slog.Level

	DBDriver     string
	DatabasePath string
	DatabaseURL  string

	FileStore   string
	StorageRoot string

	MaxUploadBytes    int64
	AllowedExtensions []string
	OwnershipEnforced bool

	JWTSecret      string
	CookieSecure   bool
	BcryptCost     int
	RequestTimeout time.Duration
}

// Load reads settings from the process environment, falling back to values
// in the given env files. With no files it reads .env when present. Non-empty
// process variables always win over file values.
func Load(envFiles ...string) (*Config, error) {
	fileVals, err := godotenv.Read(envFiles...)
	if err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		fileVals = nil
	}

	return Parse(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	})
}

// Parse builds a Config from lookup. Empty values count as unset.
func Parse(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Port:         get("PORT", "8080"),
		DBDriver:     strings.ToLower(get("DB_DRIVER", DriverSQLite)),
		DatabasePath: get("DATABASE_PATH", "photo-host.db"),
		DatabaseURL:  get("DATABASE_URL", ""),
		FileStore:    strings.ToLower(get("FILE_STORE", StoreLocal)),
		StorageRoot:  get("STORAGE_ROOT", "uploads"),
		JWTSecret:    get("JWT_SECRET", ""),
		// Default to secure cookies; disable only for local development.
		CookieSecure: get("COOKIE_SECURE", "true") != "false",
	}

	var errs []error

	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(cfg.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.DBDriver))
	}

	switch cfg.FileStore {
	case StoreLocal:
	case StoreSQLite:
		if cfg.DBDriver != DriverSQLite {
			errs = append(errs, errors.New("FILE_STORE=sqlite requires DB_DRIVER=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("FILE_STORE must be %q or %q, got %q", StoreLocal, StoreSQLite, cfg.FileStore))
	}

	maxBytes, err := strconv.ParseInt(get("MAX_UPLOAD_BYTES", "26214400"), 10, 64)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err))
	case maxBytes <= 0:
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", maxBytes))
	}
	cfg.MaxUploadBytes = maxBytes

	cfg.AllowedExtensions, err = parseExtensions(get("ALLOWED_EXTENSIONS", ".jpg,.jpeg,.png"))
	if err != nil {
		errs = append(errs, err)
	}

	cfg.OwnershipEnforced, err = strconv.ParseBool(get("OWNERSHIP_ENFORCED", "true"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid OWNERSHIP_ENFORCED: %w", err))
	}

	cfg.BcryptCost, err = strconv.Atoi(get("BCRYPT_COST", "12"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid BCRYPT_COST: %w", err))
	} else if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost))
	}

	cfg.RequestTimeout, err = time.ParseDuration(get("REQUEST_TIMEOUT", "0s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err))
	} else if cfg.RequestTimeout < 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must not be negative"))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseExtensions(raw string) ([]string, error) {
	var exts []string
	for part := range strings.SplitSeq(raw, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.ContainsAny(ext[1:], `./\`) {
			return nil, fmt.Errorf("invalid extension %q in ALLOWED_EXTENSIONS", part)
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		return nil, errors.New("ALLOWED_EXTENSIONS must name at least one extension")
	}
	return exts, nil
}
