package config

const (
	EnvConfigFile = "CONFIG_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvTimezone      = "TIMEZONE"
	EnvDefaultLocale = "DEFAULT_LOCALE"

	EnvSessionSecret     = "SESSION_SECRET"
	EnvSessionCookieName = "SESSION_COOKIE_NAME"
	EnvSessionTTL        = "SESSION_TTL"
	EnvSessionSecure     = "SESSION_SECURE"

	EnvAdminUsername     = "ADMIN_USERNAME"
	EnvAdminPasswordHash = "ADMIN_PASSWORD_HASH"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSendGridAPIKey  = "SENDGRID_API_KEY"
	EnvMailFromAddress = "MAIL_FROM_ADDRESS"
	EnvMailFromName    = "MAIL_FROM_NAME"
	EnvContactAddress  = "CONTACT_ADDRESS"
	EnvMailQueueSize   = "MAIL_QUEUE_SIZE"
	EnvMailWorkers     = "MAIL_WORKERS"
	EnvMailSendTimeout = "MAIL_SEND_TIMEOUT"

	EnvSchedulerEnabled        = "SCHEDULER_ENABLED"
	EnvOverdueReminderSchedule = "OVERDUE_REMINDER_SCHEDULE"
)
