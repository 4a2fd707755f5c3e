package config

const (
	EnvPrefix = "ORDERDESK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv        = "ORDERDESK_APP_ENV"
	EnvPort          = "ORDERDESK_APP_PORT"
	EnvDBDSN         = "ORDERDESK_DB_DSN"
	EnvDBHost        = "ORDERDESK_DB_HOST"
	EnvDBUser        = "ORDERDESK_DB_USER"
	EnvDBName        = "ORDERDESK_DB_NAME"
	EnvRedisURL      = "ORDERDESK_REDIS_URL"
	EnvJWTSecret     = "ORDERDESK_JWT_SECRET"
	EnvJWTIssuer     = "ORDERDESK_JWT_ISSUER"
	EnvProductSvcURL = "ORDERDESK_PRODUCT_SVC_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
