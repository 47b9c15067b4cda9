package config

// EnvPrefix is the envconfig prefix; individual fields carry explicit tags.
const EnvPrefix = "CATALOG"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv           = "CATALOG_APP_ENV"
	EnvPort             = "CATALOG_APP_PORT"
	EnvDBDSN            = "CATALOG_DB_DSN"
	EnvDBHost           = "CATALOG_DB_HOST"
	EnvDBUser           = "CATALOG_DB_USER"
	EnvDBName           = "CATALOG_DB_NAME"
	EnvRedisURL         = "CATALOG_REDIS_URL"
	EnvEmbeddingBaseURL = "CATALOG_EMBEDDING_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
