package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/pg"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type Server struct {
	HTTPAddr        string        `yaml:"httpAddr"`
	GRPCAddr        string        `yaml:"grpcAddr"` // пусто: gRPC health не поднимается
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
}

func (s Server) Validate() error {
	if s.HTTPAddr == "" {
		return errors.New("server.httpAddr is required")
	}

	return nil
}

type Logging struct {
	Env       string `yaml:"env"`
	Service   string `yaml:"service"`
	Version   string `yaml:"version"`
	Backend   string `yaml:"backend"`
	AddSource bool   `yaml:"addSource"`
	Debug     bool   `yaml:"debug"`
}

type Storage struct {
	Driver string `yaml:"driver"` // postgres|memory
}

func (s Storage) Validate() error {
	switch s.Driver {
	case "postgres", "memory":
		return nil
	default:
		return fmt.Errorf("storage.driver must be postgres or memory, got %q", s.Driver)
	}
}

type Postgres struct {
	DSN               string        `yaml:"dsn"`
	MaxConns          int32         `yaml:"maxConns"`
	MinConns          int32         `yaml:"minConns"`
	MaxConnLifetime   time.Duration `yaml:"maxConnLifetime"`
	MaxConnIdleTime   time.Duration `yaml:"maxConnIdleTime"`
	HealthCheckPeriod time.Duration `yaml:"healthCheckPeriod"`
	ApplicationName   string        `yaml:"applicationName"`
}

func (p Postgres) Validate() error {
	if p.DSN == "" {
		return errors.New("postgres.dsn is required")
	}

	return nil
}

func (p Postgres) ToPGConfig() pg.Config {
	return pg.Config{
		DSN:               p.DSN,
		MaxConns:          p.MaxConns,
		MinConns:          p.MinConns,
		MaxConnLifetime:   p.MaxConnLifetime,
		MaxConnIdleTime:   p.MaxConnIdleTime,
		HealthCheckPeriod: p.HealthCheckPeriod,
		ApplicationName:   p.ApplicationName,
	}
}

type Password struct {
	MinLength  int `yaml:"minLength"`
	BcryptCost int `yaml:"bcryptCost"`
}

func (p Password) Validate() error {
	if p.MinLength < 8 {
		return errors.New("security.password.minLength must be >= 8")
	}
	if p.BcryptCost != 0 && (p.BcryptCost < 4 || p.BcryptCost > 18) {
		return errors.New("security.password.bcryptCost must be in [4..18]")
	}

	return nil
}

type JWT struct {
	Secret    string        `yaml:"secret"`
	Issuer    string        `yaml:"issuer"`
	TTL       time.Duration `yaml:"ttl"`       // по умолчанию 168h
	ClockSkew time.Duration `yaml:"clockSkew"` // напр. 30s
}

func (j JWT) Validate() error {
	if strings.TrimSpace(j.Secret) == "" {
		return errors.New("security.jwt.secret is required")
	}
	if j.TTL <= 0 {
		return errors.New("security.jwt.ttl must be > 0")
	}
	if j.ClockSkew < 0 || j.ClockSkew > time.Minute {
		return errors.New("security.jwt.clockSkew must be in [0..1m]")
	}

	return nil
}

type Security struct {
	Password Password `yaml:"password"`
	JWT      JWT      `yaml:"jwt"`
}

func (s Security) Validate() error {
	if err := s.Password.Validate(); err != nil {
		return err
	}

	return s.JWT.Validate()
}

type Upload struct {
	Driver          string `yaml:"driver"` // s3|inline
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UsePathStyle    bool   `yaml:"usePathStyle"`
	PublicURL       string `yaml:"publicUrl"`
	Folder          string `yaml:"folder"`
	MaxBytes        int64  `yaml:"maxBytes"`
}

func (u Upload) Validate() error {
	switch u.Driver {
	case "inline":
	case "s3":
		if u.Bucket == "" {
			return errors.New("upload.bucket is required for s3 driver")
		}
	default:
		return fmt.Errorf("upload.driver must be s3 or inline, got %q", u.Driver)
	}
	if u.MaxBytes <= 0 {
		return errors.New("upload.maxBytes must be > 0")
	}

	return nil
}

type Realtime struct {
	Fanout          string        `yaml:"fanout"` // local|redis
	MaxMessageBytes int64         `yaml:"maxMessageBytes"`
	MaxTextLength   int           `yaml:"maxTextLength"`
	PingInterval    time.Duration `yaml:"pingInterval"`
	RequireAuth     bool          `yaml:"requireAuth"`
}

func (r Realtime) Validate() error {
	switch r.Fanout {
	case "local", "redis":
	default:
		return fmt.Errorf("realtime.fanout must be local or redis, got %q", r.Fanout)
	}
	if r.MaxMessageBytes <= 0 {
		return errors.New("realtime.maxMessageBytes must be > 0")
	}
	if r.PingInterval <= 0 {
		return errors.New("realtime.pingInterval must be > 0")
	}

	return nil
}

type Redis struct {
	Addr          string `yaml:"addr"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	ChannelPrefix string `yaml:"channelPrefix"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type Config struct {
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
	Storage  Storage  `yaml:"storage"`
	Postgres Postgres `yaml:"postgres"`
	Security Security `yaml:"security"`
	Upload   Upload   `yaml:"upload"`
	Realtime Realtime `yaml:"realtime"`
	Redis    Redis    `yaml:"redis"`
	CORS     CORS     `yaml:"cors"`
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Storage.Driver == "postgres" {
		if err := c.Postgres.Validate(); err != nil {
			return err
		}
	}
	if err := c.Security.Validate(); err != nil {
		return err
	}
	if err := c.Upload.Validate(); err != nil {
		return err
	}
	if err := c.Realtime.Validate(); err != nil {
		return err
	}
	if c.Realtime.Fanout == "redis" && c.Redis.Addr == "" {
		return errors.New("redis.addr is required for redis fanout")
	}

	return nil
}

// LoadConfig reads the YAML file at path, or CONFIG_PATH, or DefaultPath.
// ${VAR} references are expanded from the environment before parsing.
func LoadConfig(path ...string) (*Config, error) {
	filename := os.Getenv("CONFIG_PATH")
	if len(path) > 0 && strings.TrimSpace(path[0]) != "" {
		filename = path[0]
	}
	if filename == "" {
		filename = DefaultPath
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// установка дефолтов, если значения не указаны
func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}

	if c.Logging.Service == "" {
		c.Logging.Service = "creator-hub"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}

	if c.Security.Password.MinLength == 0 {
		c.Security.Password.MinLength = 8
	}
	if c.Security.JWT.TTL == 0 {
		c.Security.JWT.TTL = 7 * 24 * time.Hour
	}

	if c.Upload.Driver == "" {
		c.Upload.Driver = "inline"
	}
	if c.Upload.Folder == "" {
		c.Upload.Folder = "profile-pictures"
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 5 << 20
	}

	if c.Realtime.Fanout == "" {
		c.Realtime.Fanout = "local"
	}
	if c.Realtime.MaxMessageBytes == 0 {
		c.Realtime.MaxMessageBytes = 64 << 10
	}
	if c.Realtime.MaxTextLength == 0 {
		c.Realtime.MaxTextLength = 4000
	}
	if c.Realtime.PingInterval == 0 {
		c.Realtime.PingInterval = 15 * time.Second
	}

	if c.Redis.ChannelPrefix == "" {
		c.Redis.ChannelPrefix = "creatorhub"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}
