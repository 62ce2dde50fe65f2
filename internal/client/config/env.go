package config

// Environment variables read by parseEnv.
const (
	EnvAPIURL      = "WELLSTA_API_URL"
	EnvImageURL    = "WELLSTA_IMAGE_URL"
	EnvDB          = "WELLSTA_DB"
	EnvS3Bucket    = "WELLSTA_S3_BUCKET"
	EnvS3Region    = "WELLSTA_S3_REGION"
	EnvS3Endpoint  = "WELLSTA_S3_ENDPOINT"
	EnvS3AccessKey = "WELLSTA_S3_ACCESS_KEY"
	EnvS3SecretKey = "WELLSTA_S3_SECRET_KEY"
)

// parseEnv overlays cfg with the WELLSTA_* variables that are set and
// non-empty.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	for name, dst := range map[string]*string{
		EnvAPIURL:      &cfg.APIBaseURL,
		EnvImageURL:    &cfg.ImageBaseURL,
		EnvDB:          &cfg.DBPath,
		EnvS3Bucket:    &cfg.S3.Bucket,
		EnvS3Region:    &cfg.S3.Region,
		EnvS3Endpoint:  &cfg.S3.Endpoint,
		EnvS3AccessKey: &cfg.S3.AccessKey,
		EnvS3SecretKey: &cfg.S3.SecretKey,
	} {
		if v, ok := lookup(name); ok {
			setString(dst, v)
		}
	}
}
