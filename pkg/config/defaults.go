package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "laptoploan"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultTimezone      = "Asia/Seoul"
	DefaultDefaultLocale = "ko"

	DefaultSessionCookieName = "laptoploan_session"
	DefaultSessionTTL        = 12 * time.Hour
	DefaultSessionSecure     = false
	MinSessionSecretLength   = 32

	DefaultAdminUsername = "admin"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMailFromAddress = "no-reply@haven-academic.kr"
	DefaultMailFromName    = "헤이븐 아카데믹팀"
	DefaultMailQueueSize   = 100
	DefaultMailWorkers     = 2
	DefaultMailSendTimeout = 10 * time.Second

	DefaultSchedulerEnabled = true
	// Seconds-precision cron expression: every day at 09:00:00.
	DefaultOverdueReminderSchedule = "0 0 9 * * *"

	DefaultPaginationLimit = 100
)
