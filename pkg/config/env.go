package config

// EnvPrefix is empty because every variable carries its full name in the struct tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreBackendSQL   = "sql"
	StoreBackendMongo = "mongo"

	NotifierNone   = "none"
	NotifierPubSub = "pubsub"
	NotifierKafka  = "kafka"
)

const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvDBDSN     = "STOREFRONT_DB_DSN"
	EnvDBHost    = "STOREFRONT_DB_HOST"
	EnvDBUser    = "STOREFRONT_DB_USER"
	EnvDBName    = "STOREFRONT_DB_NAME"
	EnvUseSQLite = "STOREFRONT_USE_SQLITE"

	EnvStoreBackend     = "STOREFRONT_STORE_BACKEND"
	EnvStoreCallTimeout = "STOREFRONT_STORE_CALL_TIMEOUT"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvJWTSecret = "STOREFRONT_JWT_SECRET"

	EnvCheckoutLockTTL      = "STOREFRONT_CHECKOUT_LOCK_TTL"
	EnvCheckoutRetainFailed = "STOREFRONT_CHECKOUT_RETAIN_FAILED_ITEMS"

	EnvNotifierKind = "STOREFRONT_NOTIFIER_KIND"
	EnvGCPProjectID = "STOREFRONT_GCP_PROJECT_ID"
	EnvKafkaBrokers = "STOREFRONT_KAFKA_BROKERS"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
