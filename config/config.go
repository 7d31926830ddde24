package config

import (
	"errors"
	"fmt"
	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"os"
	"strconv"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	LogLevel string `yaml:"logLevel"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	SessionSecret  string   `yaml:"sessionSecret"`
	UploadDir      string   `yaml:"uploadDir"`
	MaxUploadBytes int64    `yaml:"maxUploadBytes"`
	AllowOrigins   []string `yaml:"allowOrigins"`
}

type JWTConfig struct {
	PrivateKeyPath string `yaml:"privateKeyPath"`
	PublicKeyPath  string `yaml:"publicKeyPath"`
	TTLHours       int    `yaml:"ttlHours"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
}

// Default values used when the yaml file leaves a field empty.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":3000",
			SessionSecret:  "change-me",
			UploadDir:      "./uploads",
			MaxUploadBytes: 16 << 20,
		},
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "127.0.0.1",
			Port:     "3306",
			LogLevel: "warn",
		},
		JWT: JWTConfig{
			PrivateKeyPath: "jwt/private_key.pem",
			PublicKeyPath:  "jwt/public_key.pem",
			TTLHours:       24,
		},
	}
}

// LoadConfig reads the yaml file and then applies .env / environment overrides.
// A missing yaml file is not an error; defaults and environment are used instead.
func LoadConfig(filename string) (Config, error) {
	config := Default()

	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, fmt.Errorf("decode %s: %w", filename, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return config, err
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(&config)

	return config, nil
}

func applyEnv(config *Config) {
	setString(&config.Server.Addr, "APP_ADDR")
	setString(&config.Server.SessionSecret, "SESSION_SECRET")
	setString(&config.Server.UploadDir, "UPLOAD_DIR")
	setString(&config.Database.Driver, "DB_DRIVER")
	setString(&config.Database.Username, "DB_USERNAME")
	setString(&config.Database.Password, "DB_PASSWORD")
	setString(&config.Database.Host, "DB_HOST")
	setString(&config.Database.Port, "DB_PORT")
	setString(&config.Database.Database, "DB_DATABASE")
	setString(&config.Redis.Addr, "REDIS_ADDR")
	setString(&config.Redis.Password, "REDIS_PASSWORD")
	setString(&config.JWT.PrivateKeyPath, "JWT_PRIVATE_KEY_PATH")
	setString(&config.JWT.PublicKeyPath, "JWT_PUBLIC_KEY_PATH")

	if v, ok := os.LookupEnv("REDIS_DATABASE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.Redis.Database = n
		}
	}
	if v, ok := os.LookupEnv("JWT_TTL_HOURS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.JWT.TTLHours = n
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func dialector(config DatabaseConfig) (gorm.Dialector, error) {
	switch config.Driver {
	case "", "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			config.Username,
			config.Password,
			config.Host,
			config.Port,
			config.Database,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			config.Host,
			config.Username,
			config.Password,
			config.Database,
			config.Port,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(config.Database), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// SetupDatabase opens the configured database and migrates every table.
func SetupDatabase(config DatabaseConfig) (*gorm.DB, error) {
	dial, err := dialector(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(config.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.LoginToken{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// CloseDatabase closes the connection pool behind db.
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SetupRedisConnection returns nil when no address is configured; the catalog then reads
// straight from the database.
func SetupRedisConnection(config RedisConfig) *redis.Client {
	if config.Addr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.Database,
	})
}
