package config

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	LogLevel    string

	TrackingEndpoint    string
	TrackingCustomer    string
	TrackingKey         string
	TrackingCarrierCode string
	TrackingCarrierName string
	TrackingTimeout     time.Duration

	AdminPasscode     string
	LogisticsPasscode string
	TokenSecret       string
	TokenTTL          time.Duration
	AuthRequired      bool

	ReconcileSchedule string
	ReconcileDelay    time.Duration
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress          = ":8080"
	defaultLogLevel            = "info"
	defaultTrackingEndpoint    = "https://poll.kuaidi100.com/poll/query.do"
	defaultTrackingCarrierCode = "shunfeng"
	defaultTrackingCarrierName = "顺丰速运"
	defaultTrackingTimeout     = time.Duration(0)
	defaultTokenTTL            = 12 * time.Hour
	defaultReconcileSchedule   = "0 0 * * *"
	defaultReconcileDelay      = time.Second
	defaultShutdownTimeout     = 10 * time.Second
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	// a missing .env is fine; real environment variables take precedence
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
		TrackingEndpoint:    getString(lookup, "KUAIDI100_ENDPOINT", defaultTrackingEndpoint),
		TrackingCustomer:    getString(lookup, "KUAIDI100_CUSTOMER", ""),
		TrackingKey:         getString(lookup, "KUAIDI100_KEY", ""),
		TrackingCarrierCode: getString(lookup, "TRACKING_CARRIER_CODE", defaultTrackingCarrierCode),
		TrackingCarrierName: getString(lookup, "TRACKING_CARRIER_NAME", defaultTrackingCarrierName),
		TrackingTimeout:     getDuration(lookup, "TRACKING_TIMEOUT", defaultTrackingTimeout),
		AdminPasscode:       getString(lookup, "ADMIN_PASSCODE", ""),
		LogisticsPasscode:   getString(lookup, "LOGISTICS_PASSCODE", ""),
		TokenSecret:         getString(lookup, "AUTH_TOKEN_SECRET", ""),
		TokenTTL:            getDuration(lookup, "AUTH_TOKEN_TTL", defaultTokenTTL),
		AuthRequired:        getBool(lookup, "AUTH_REQUIRED", false),
		ReconcileSchedule:   defaultReconcileSchedule,
		ReconcileDelay:      getDuration(lookup, "RECONCILE_DELAY", defaultReconcileDelay),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
	// an explicitly empty schedule disables the daily run
	if v, ok := lookup("RECONCILE_SCHEDULE"); ok {
		cfg.ReconcileSchedule = strings.TrimSpace(v)
	}

	fs := flag.NewFlagSet("cherrytrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		trackingTimeoutStr = cfg.TrackingTimeout.String()
		tokenTTLStr        = cfg.TokenTTL.String()
		reconcileDelayStr  = cfg.ReconcileDelay.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.TrackingEndpoint, "tracking-endpoint", cfg.TrackingEndpoint, "Tracking provider query URL")
	fs.StringVar(&cfg.TrackingCustomer, "tracking-customer", cfg.TrackingCustomer, "Tracking provider account id")
	fs.StringVar(&cfg.TrackingKey, "tracking-key", cfg.TrackingKey, "Tracking provider signing key")
	fs.StringVar(&cfg.TrackingCarrierCode, "carrier", cfg.TrackingCarrierCode, "Carrier code sent to the tracking provider")
	fs.StringVar(&trackingTimeoutStr, "tracking-timeout", trackingTimeoutStr, "Tracking provider request timeout, 0 for none")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing role tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Role token lifetime")
	fs.BoolVar(&cfg.AuthRequired, "auth-required", cfg.AuthRequired, "Require role tokens on staff routes")
	fs.StringVar(&cfg.ReconcileSchedule, "reconcile-schedule", cfg.ReconcileSchedule, "Cron spec of the delivery reconciliation run")
	fs.StringVar(&reconcileDelayStr, "reconcile-delay", reconcileDelayStr, "Pause between tracking provider calls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TrackingTimeout, err = time.ParseDuration(trackingTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid tracking timeout: %w", err)
	}

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ReconcileDelay, err = time.ParseDuration(reconcileDelayStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile delay: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if keyFile, ok := lookup("KUAIDI100_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read tracking key file: %w", err)
		}
		cfg.TrackingKey = strings.TrimSpace(string(content))
	}

	// zero leaves provider calls bounded only by the request context
	if cfg.TrackingTimeout < 0 {
		cfg.TrackingTimeout = defaultTrackingTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	// zero delay is allowed; it only disables pacing
	if cfg.ReconcileDelay < 0 {
		cfg.ReconcileDelay = defaultReconcileDelay
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenSecret == "" {
		if cfg.TokenSecret, err = randomSecret(); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.TrackingCustomer == "" || cfg.TrackingKey == "" {
		return nil, fmt.Errorf("tracking provider customer and key must be provided")
	}

	if cfg.AdminPasscode == "" && cfg.LogisticsPasscode == "" {
		return nil, fmt.Errorf("at least one role passcode must be provided")
	}

	return cfg, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
