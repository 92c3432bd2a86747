package config

// EnvPrefix is the envconfig namespace for every setting.
const EnvPrefix = "SCHOLARBRIDGE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SCHOLARBRIDGE_DB_DSN"
	EnvDBHost = "SCHOLARBRIDGE_DB_HOST"
	EnvDBUser = "SCHOLARBRIDGE_DB_USER"
	EnvDBName = "SCHOLARBRIDGE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
