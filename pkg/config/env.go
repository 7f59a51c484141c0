package config

// Environment names recognized by AppConfig helpers.
const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// EnvPrefix is passed to envconfig; individual fields carry full names.
const EnvPrefix = "CATALOG"

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "CATALOG_APP_ENV"
	EnvPort       = "CATALOG_APP_PORT"
	EnvDBDSN      = "CATALOG_DB_DSN"
	EnvDBHost     = "CATALOG_DB_HOST"
	EnvDBUser     = "CATALOG_DB_USER"
	EnvDBName     = "CATALOG_DB_NAME"
	EnvRedisURL   = "CATALOG_REDIS_URL"
	EnvJWTSecret  = "CATALOG_JWT_SECRET"
	EnvJWTIssuer  = "CATALOG_JWT_ISSUER"
	EnvJWTExpMins = "CATALOG_JWT_EXPIRATION_MINUTES"
	EnvUploadDir  = "CATALOG_UPLOAD_DIR"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
