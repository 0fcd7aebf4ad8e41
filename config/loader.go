package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads the application configuration from config.yml (or the first
// existing path in paths), overlays environment variables and validates the
// result. A .env file is loaded into the environment first when present.
func Load(paths ...string) (*AppConfig, error) {
	_ = godotenv.Load()

	if len(paths) == 0 {
		paths = []string{"config.yml", "./config/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyEnv(&cfg)

	v := validator.New()
	if err := v.Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays secret material and endpoints from the environment.
// Environment values win over yaml values.
func applyEnv(cfg *AppConfig) {
	setIfPresent(&cfg.Realtime.BaseURL, "REALTIME_BASE_URL")
	setIfPresent(&cfg.Realtime.APIKeys, "REALTIME_API_KEYS")
	setIfPresent(&cfg.Schedule.BaseURL, "SCHEDULE_BASE_URL")
	setIfPresent(&cfg.ObjectStore.Endpoint, "OBJECT_STORE_ENDPOINT")
	setIfPresent(&cfg.ObjectStore.Namespace, "OBJECT_STORE_NAMESPACE")
	setIfPresent(&cfg.Warehouse.Endpoint, "WAREHOUSE_ENDPOINT")
	setIfPresent(&cfg.Warehouse.Dataset, "WAREHOUSE_DATASET")
	setIfPresent(&cfg.Warehouse.ProjectID, "WAREHOUSE_PROJECT_ID")
	setIfPresent(&cfg.Warehouse.KeyID, "WAREHOUSE_KEY_ID")
	setIfPresent(&cfg.Warehouse.ClientEmail, "WAREHOUSE_CLIENT_EMAIL")
	setIfPresent(&cfg.Warehouse.PrivateKey, "WAREHOUSE_PRIVATE_KEY")
	setIfPresent(&cfg.Warehouse.IssuerURL, "WAREHOUSE_ISSUER_URL")
	setIfPresent(&cfg.Reporting.Sink, "ERROR_REPORTING_SINK")

	if v := os.Getenv("WAREHOUSE_SCOPES"); v != "" {
		parts := strings.Split(v, ",")
		scopes := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				scopes = append(scopes, p)
			}
		}
		cfg.Warehouse.Scopes = scopes
	}
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
