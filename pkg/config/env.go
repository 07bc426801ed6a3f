package config

// EnvPrefix is passed to envconfig; individual tags carry the full name.
const EnvPrefix = "CMS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "CMS_APP_ENV"
	EnvPort     = "CMS_APP_PORT"
	EnvDBDSN    = "CMS_DB_DSN"
	EnvDBHost   = "CMS_DB_HOST"
	EnvDBUser   = "CMS_DB_USER"
	EnvDBName   = "CMS_DB_NAME"
	EnvRedisURL = "CMS_REDIS_URL"

	EnvJWTSecret  = "CMS_JWT_SECRET"
	EnvJWTIssuer  = "CMS_JWT_ISSUER"
	EnvJWTExpMins = "CMS_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
