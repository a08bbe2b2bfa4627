package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"os"
	"time"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env           string `yaml:"env" env:"ENV" env-default:"prod"`
	StorageDriver string `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"mysql"`
	HTTPServer    `yaml:"http_server"`
	DBUser        string `yaml:"db_user" env:"DB_USER"`
	DBPassword    string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost        string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort        int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName        string `yaml:"db_name" env:"DB_NAME" env-default:"scheduler"`
	ParseTime     bool   `yaml:"parse_time" env:"DB_PARSE_TIME" env-default:"true"`

	CORSOrigins []string  `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	FrontendDir string    `yaml:"frontend_dir" env:"FRONTEND_DIR" env-default:"./frontend-dist"`
	Scheduler   Scheduler `yaml:"scheduler"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Scheduler настраивает аллокатор. HorizonDays = 0 — без ограничения
// на число дней, которые может занять один заказ.
type Scheduler struct {
	HorizonDays int  `yaml:"horizon_days" env:"SCHEDULER_HORIZON_DAYS" env-default:"0"`
	Strict      bool `yaml:"strict" env:"SCHEDULER_STRICT" env-default:"false"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// без файла работаем только на переменных окружения
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
