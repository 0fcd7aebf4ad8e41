package config

// RealtimeConfig contains GTFS-Realtime feed configuration.
// APIKeys is a comma-delimited list; each key carries its own daily quota,
// so the fetch TTL is derived from the pool size.
type RealtimeConfig struct {
	BaseURL              string `yaml:"baseURL" validate:"required,url"`
	APIKeys              string `yaml:"apiKeys" validate:"required"`
	RequestsPerKeyPerDay int    `yaml:"requestsPerKeyPerDay" validate:"gt=0"`
	TimeoutMS            int    `yaml:"timeoutMS" validate:"gte=0"`
}

// ScheduleConfig contains static schedule archive configuration
type ScheduleConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"required,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// ObjectStoreConfig contains the object-store write target configuration
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	Namespace string `yaml:"namespace"`
}

// WarehouseConfig contains the warehouse write target and its credential
// issuer. ClientEmail/PrivateKey are service-account material posted to the
// issuer in exchange for a bearer token.
type WarehouseConfig struct {
	Endpoint    string   `yaml:"endpoint" validate:"omitempty,url"`
	Dataset     string   `yaml:"dataset"`
	ProjectID   string   `yaml:"projectId"`
	KeyID       string   `yaml:"keyId"`
	ClientEmail string   `yaml:"clientEmail"`
	PrivateKey  string   `yaml:"privateKey"`
	IssuerURL   string   `yaml:"issuerURL" validate:"omitempty,url"`
	Scopes      []string `yaml:"scopes"`
}

// ReportingConfig identifies the error-reporting sink for background-write
// failures.
type ReportingConfig struct {
	Sink string `yaml:"sink"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Realtime    RealtimeConfig    `yaml:"realtime" validate:"required"`
	Schedule    ScheduleConfig    `yaml:"schedule" validate:"required"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
	Warehouse   WarehouseConfig   `yaml:"warehouse"`
	Reporting   ReportingConfig   `yaml:"reporting"`
}
