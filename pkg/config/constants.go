package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix mostly serves error messages.
const EnvPrefix = "STAYSUPPLY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "STAYSUPPLY_DB_DSN"
	EnvDBHost = "STAYSUPPLY_DB_HOST"
	EnvDBUser = "STAYSUPPLY_DB_USER"
	EnvDBName = "STAYSUPPLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
