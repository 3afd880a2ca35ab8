// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer-token verification. Tokens are issued by the identity
	// service; this app only validates them.
	JWTSecret string
	JWTIssuer string

	// Developer bootstrap: promotes/creates this account on startup so
	// a fresh deployment has a way in.
	DeveloperEmail    string
	DeveloperPassword string
}
