package config

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata"

	"laptoploan/pkg/logger"

	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port      string
	LogLevel  string
	LogFormat string

	Timezone      string
	Location      *time.Location
	DefaultLocale string

	SessionSecret     string
	SessionCookieName string
	SessionTTL        time.Duration
	SessionSecure     bool

	AdminUsername     string
	AdminPasswordHash string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SendGridAPIKey  string
	MailFromAddress string
	MailFromName    string
	ContactAddress  string
	MailQueueSize   int
	MailWorkers     int
	MailSendTimeout time.Duration

	SchedulerEnabled        bool
	OverdueReminderSchedule string

	Log *logger.Logger
}

// Load reads configuration from the environment, layered over the optional
// YAML file named by CONFIG_FILE, and exits the process when it is invalid.
func Load(serviceName string) *Config {
	cfg, err := Build(serviceName)
	if err != nil {
		if cfg == nil || cfg.Log == nil {
			logger.New(logger.Config{Service: serviceName}).Fatal(err.Error())
		}
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Build is Load without the process exit; the returned config is non-nil
// whenever the logger could be constructed.
func Build(serviceName string) (*Config, error) {
	src, err := OpenSource()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MongoURI:          src.Str(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: src.Str(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  src.Duration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:      src.Str(EnvPort, DefaultPort),
		LogLevel:  src.Str(EnvLogLevel, DefaultLogLevel),
		LogFormat: src.Str(EnvLogFormat, DefaultLogFormat),

		Timezone:      src.Str(EnvTimezone, DefaultTimezone),
		DefaultLocale: src.Str(EnvDefaultLocale, DefaultDefaultLocale),

		SessionSecret:     src.Str(EnvSessionSecret, ""),
		SessionCookieName: src.Str(EnvSessionCookieName, DefaultSessionCookieName),
		SessionTTL:        src.Duration(EnvSessionTTL, DefaultSessionTTL),
		SessionSecure:     src.Bool(EnvSessionSecure, DefaultSessionSecure),

		AdminUsername:     src.Str(EnvAdminUsername, DefaultAdminUsername),
		AdminPasswordHash: src.Str(EnvAdminPasswordHash, ""),

		RateLimitRequests: src.Num(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   src.Duration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: src.Duration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: src.Duration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: src.Num(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     src.Duration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    src.Duration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     src.Duration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: src.Duration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SendGridAPIKey:  src.Str(EnvSendGridAPIKey, ""),
		MailFromAddress: src.Str(EnvMailFromAddress, DefaultMailFromAddress),
		MailFromName:    src.Str(EnvMailFromName, DefaultMailFromName),
		ContactAddress:  src.Str(EnvContactAddress, ""),
		MailQueueSize:   src.Num(EnvMailQueueSize, DefaultMailQueueSize),
		MailWorkers:     src.Num(EnvMailWorkers, DefaultMailWorkers),
		MailSendTimeout: src.Duration(EnvMailSendTimeout, DefaultMailSendTimeout),

		SchedulerEnabled:        src.Bool(EnvSchedulerEnabled, DefaultSchedulerEnabled),
		OverdueReminderSchedule: src.Str(EnvOverdueReminderSchedule, DefaultOverdueReminderSchedule),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})

	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		cfg.Location = loc
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("Timezone must be a valid IANA location, got: %s", cfg.Timezone))
	}
	if cfg.DefaultLocale != "ko" && cfg.DefaultLocale != "en" {
		errors = append(errors, fmt.Sprintf("DefaultLocale must be one of [ko, en], got: %s", cfg.DefaultLocale))
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		errors = append(errors, fmt.Sprintf("SessionSecret must be at least %d characters", MinSessionSecretLength))
	}
	if cfg.SessionCookieName == "" {
		errors = append(errors, "SessionCookieName cannot be empty")
	}
	if cfg.SessionTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SessionTTL must be positive, got: %s", cfg.SessionTTL))
	}

	if cfg.AdminUsername == "" {
		errors = append(errors, "AdminUsername cannot be empty")
	}
	if cfg.AdminPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); err != nil {
			errors = append(errors, "AdminPasswordHash must be a bcrypt hash")
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if _, err := mail.ParseAddress(cfg.MailFromAddress); err != nil {
		errors = append(errors, fmt.Sprintf("MailFromAddress must be a valid email address, got: %s", cfg.MailFromAddress))
	}
	if cfg.ContactAddress != "" {
		if _, err := mail.ParseAddress(cfg.ContactAddress); err != nil {
			errors = append(errors, fmt.Sprintf("ContactAddress must be a valid email address, got: %s", cfg.ContactAddress))
		}
	}
	if cfg.MailQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("MailQueueSize must be positive, got: %d", cfg.MailQueueSize))
	}
	if cfg.MailWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("MailWorkers must be positive, got: %d", cfg.MailWorkers))
	}
	if cfg.MailSendTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MailSendTimeout must be positive, got: %s", cfg.MailSendTimeout))
	}

	if cfg.SchedulerEnabled {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(cfg.OverdueReminderSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("OverdueReminderSchedule must be a seconds-precision cron expression, got: %s", cfg.OverdueReminderSchedule))
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"timezone", cfg.Timezone,
		"default_locale", cfg.DefaultLocale,
		"session_cookie", cfg.SessionCookieName,
		"session_ttl", cfg.SessionTTL,
		"session_secure", cfg.SessionSecure,
		"admin_username", cfg.AdminUsername,
		"admin_login_enabled", cfg.AdminPasswordHash != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"sendgrid_key_set", cfg.SendGridAPIKey != "",
		"mail_from", cfg.MailFromAddress,
		"contact_address", cfg.ContactAddress,
		"mail_queue_size", cfg.MailQueueSize,
		"mail_workers", cfg.MailWorkers,
		"scheduler_enabled", cfg.SchedulerEnabled,
		"overdue_reminder_schedule", cfg.OverdueReminderSchedule,
	)
}

// TimeLocation is the location used for all calendar arithmetic.
func (cfg *Config) TimeLocation() *time.Location {
	if cfg.Location == nil {
		return time.UTC
	}
	return cfg.Location
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
