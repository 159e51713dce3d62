// Package config provides library configuration from environment variables.
//
// # Settings
//
//	USERFED_DATABASE_URL="postgres://authfed_ro@db/authdb?sslmode=require"
//	USERFED_SOURCE="authuser_view"       # table or view to query
//	USERFED_MAX_OPEN_CONNS="10"
//	USERFED_MAX_IDLE_CONNS="2"
//	USERFED_CONN_MAX_LIFETIME="30m"
//	USERFED_CONN_MAX_IDLE_TIME="5m"
//	USERFED_CONNECT_TIMEOUT="5s"
//	USERFED_LOG_LEVEL="info"             # debug, info, warn, error
//
// # Usage Example
//
// Load and validate configuration, then open the store:
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	st, err := store.New(cfg)
//
// The source name is the only configuration value ever interpolated into
// query text, so it is validated against a strict identifier pattern here;
// every other query input is a bound parameter.
package config
