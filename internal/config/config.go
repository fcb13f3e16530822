package config

import (
	"fmt"
	"log"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Common struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"shop_api"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTPConfig struct {
	Addr        string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`
	ImagesDir   string   `env:"IMAGES_DIR" envDefault:"./images"`
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`
	URL    string `env:"DATABASE_URL,required"`
}

type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET,required,notEmpty,unset"`
	Algorithm string        `env:"JWT_ALGORITHM" envDefault:"HS256"`
	TTL       time.Duration `env:"JWT_TTL" envDefault:"60m"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
}

type Config struct {
	Common Common
	HTTP   HTTPConfig
	DB     DBConfig
	JWT    JWTConfig
	Auth   AuthConfig
	Kafka  KafkaConfig
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q: only HMAC algorithms are allowed", c.JWT.Algorithm)
	}

	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWT.TTL)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}
