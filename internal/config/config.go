package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongodb"
	StoreMemory = "memory"

	MediaCloudinary = "cloudinary"
	MediaGCS        = "gcs"
	MediaLocal      = "local"
)

// Config maps 1:1 to environment variables.
type Config struct {
	Port      int    `mapstructure:"PORT"`
	Env       string `mapstructure:"APP_ENV"`
	APIPrefix string `mapstructure:"API_PREFIX"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	MediaDriver        string `mapstructure:"MEDIA_DRIVER"`
	MediaMaxBytes      int64  `mapstructure:"MEDIA_MAX_BYTES"`
	MediaFolder        string `mapstructure:"MEDIA_FOLDER"`
	MediaLocalDir      string `mapstructure:"MEDIA_LOCAL_DIR"`
	MediaPublicBaseURL string `mapstructure:"MEDIA_PUBLIC_BASE_URL"`

	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	GCSBucket          string `mapstructure:"GCS_BUCKET"`
	GCSCDNDomain       string `mapstructure:"GCS_CDN_DOMAIN"`
	GCSCredentialsFile string `mapstructure:"GCS_CREDENTIALS_FILE"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]interface{}{
	"PORT":                  8080,
	"APP_ENV":               "development",
	"API_PREFIX":            "/api",
	"STORE_DRIVER":          StoreMongo,
	"MONGO_URI":             "mongodb://localhost:27017/?replicaSet=rs0",
	"MONGO_DATABASE":        "catalog",
	"MEDIA_DRIVER":          MediaCloudinary,
	"MEDIA_MAX_BYTES":       int64(10 << 20),
	"MEDIA_FOLDER":          "catalog",
	"MEDIA_LOCAL_DIR":       "./uploads",
	"MEDIA_PUBLIC_BASE_URL": "/uploads",
	"CLOUDINARY_CLOUD_NAME": "",
	"CLOUDINARY_API_KEY":    "",
	"CLOUDINARY_API_SECRET": "",
	"GCS_BUCKET":            "",
	"GCS_CDN_DOMAIN":        "",
	"GCS_CREDENTIALS_FILE":  "",
	"JWT_SECRET":            "",
	"CORS_ORIGINS":          "",
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, fmt.Errorf("PORT must be positive, got %d", c.Port))
	}

	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongodb store"))
		}
		if c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGO_DATABASE is required for the mongodb store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.MediaDriver {
	case MediaCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			errs = append(errs, errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary media driver"))
		}
	case MediaGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required for the gcs media driver"))
		}
	case MediaLocal:
		if c.MediaLocalDir == "" {
			errs = append(errs, errors.New("MEDIA_LOCAL_DIR is required for the local media driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MEDIA_DRIVER %q", c.MediaDriver))
	}

	if c.MediaMaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("MEDIA_MAX_BYTES must be positive, got %d", c.MediaMaxBytes))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// AllowedOrigins splits CORS_ORIGINS on commas. Empty means any origin.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
