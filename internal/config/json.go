package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/annavlsk/closetkeeper/internal/flagx"
	"github.com/annavlsk/closetkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify durations either as strings like "15m"
// or as integer nanoseconds. Zero values are treated as "not provided" and
// leave the current Config value untouched.
type JsonConfig struct {
	DatabaseDSN                 string         `json:"database_dsn"`
	LocalDBPath                 string         `json:"local_db_path"`
	SecretKey                   string         `json:"secret_key"`
	FederatedSecret             string         `json:"federated_secret"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	PageSize                    int            `json:"page_size"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	RemoveBGEndpoint            string         `json:"removebg_endpoint"`
	RemoveBGAPIKey              string         `json:"removebg_api_key"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. If no file is named, nothing happens. Read or unmarshal
// errors panic; the caller decides whether to recover.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.FederatedSecret != "" {
		cfg.FederatedSecret = jc.FederatedSecret
	}
	if jc.AccessTokenValidityDuration.Duration != 0 {
		cfg.AccessTokenValidityDuration = time.Duration(jc.AccessTokenValidityDuration.Duration)
	}
	if jc.PageSize != 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.S3RootUser != "" {
		cfg.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.RemoveBGEndpoint != "" {
		cfg.RemoveBGEndpoint = jc.RemoveBGEndpoint
	}
	if jc.RemoveBGAPIKey != "" {
		cfg.RemoveBGAPIKey = jc.RemoveBGAPIKey
	}
}
