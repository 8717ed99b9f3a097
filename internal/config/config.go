package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConf struct {
	Env          string        `mapstructure:"env"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TempDir      string        `mapstructure:"temp_dir"`
}

type MongoConf struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// JWTConf carries the signing secrets and lifetimes for both token types.
// The secrets must differ; an access token must never verify against the
// refresh secret or vice versa.
type JWTConf struct {
	AccessSecret     string `mapstructure:"access_secret"`
	RefreshSecret    string `mapstructure:"refresh_secret"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

func (j JWTConf) AccessTTL() time.Duration  { return time.Duration(j.AccessTTLMinutes) * time.Minute }
func (j JWTConf) RefreshTTL() time.Duration { return time.Duration(j.RefreshTTLDays) * 24 * time.Hour }

type AWSConf struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type Config struct {
	App   AppConf   `mapstructure:"app"`
	Mongo MongoConf `mapstructure:"mongodb"`
	JWT   JWTConf   `mapstructure:"jwt"`
	AWS   AWSConf   `mapstructure:"aws"`
}

// Load reads the YAML config, with environment variables (and .env)
// overriding the file. Secrets are expected to come from the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	// env names at the service boundary
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "APP_PORT")
	_ = v.BindEnv("mongodb.uri", "MONGO_URI")
	_ = v.BindEnv("mongodb.database", "MONGO_DB")
	_ = v.BindEnv("jwt.access_secret", "ACCESS_TOKEN_SECRET")
	_ = v.BindEnv("jwt.refresh_secret", "REFRESH_TOKEN_SECRET")
	_ = v.BindEnv("jwt.access_ttl_minutes", "ACCESS_TOKEN_TTL_MINUTES")
	_ = v.BindEnv("jwt.refresh_ttl_days", "REFRESH_TOKEN_TTL_DAYS")
	_ = v.BindEnv("aws.region", "AWS_REGION")
	_ = v.BindEnv("aws.bucket", "AWS_S3_BUCKET")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.TempDir == "" {
		cfg.App.TempDir = "./public/temp"
	}
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 15
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 10
	}

	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if cfg.JWT.AccessSecret == cfg.JWT.RefreshSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}

	return &cfg, nil
}
