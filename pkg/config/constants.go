package config

// EnvPrefix is passed to envconfig; individual fields carry fully prefixed
// names so the prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "BOUTIQUE_APP_ENV"
	EnvPort     = "BOUTIQUE_APP_PORT"
	EnvDBDSN    = "BOUTIQUE_DB_DSN"
	EnvDBHost   = "BOUTIQUE_DB_HOST"
	EnvDBUser   = "BOUTIQUE_DB_USER"
	EnvDBName   = "BOUTIQUE_DB_NAME"
	EnvRedisURL = "BOUTIQUE_REDIS_URL"

	EnvSessionSecret = "BOUTIQUE_SESSION_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
