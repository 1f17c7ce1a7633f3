package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string        `yaml:"env" env:"APP_ENV" env-default:"production"`
	PGSQL       PQSQL         `yaml:"pgsql"`
	HTTPServer  HTTPServer    `yaml:"http_server"`
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key"`
	JWTTTL      time.Duration `yaml:"jwt_ttl" env:"JWT_TTL" env-default:"24h"`
	Redis       Redis         `yaml:"redis"`
	MinIO       MinIO         `yaml:"minio"`
	LocalFolder LocalFolder   `yaml:"local_folder"`
	Media       Media         `yaml:"media"`
	Import      Import        `yaml:"import"`
	Log         Log           `yaml:"log"`
	Janitor     Janitor       `yaml:"janitor"`
}

type HTTPServer struct {
	Address string `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
}

type PQSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"autohouse_db"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// MinIO configures the remote-bucket storage backend. Leaving Endpoint or
// credentials empty marks the backend as not configured.
type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type LocalFolder struct {
	Root string `yaml:"root" env:"LOCAL_FOLDER_ROOT"`
}

type Media struct {
	DisableDatabase  bool     `yaml:"disable_database" env:"MEDIA_DISABLE_DATABASE"`
	MaxFileSize      int64    `yaml:"max_file_size" env:"MEDIA_MAX_FILE_SIZE" env-default:"10485760"`
	AllowedMimeTypes []string `yaml:"allowed_mime_types" env:"MEDIA_ALLOWED_MIME_TYPES" env-default:"image/jpeg,image/png,image/gif,image/webp"`
	PresignedURLTTL  int      `yaml:"presigned_url_ttl" env:"MEDIA_PRESIGNED_URL_TTL" env-default:"3600"`
}

type Import struct {
	BatchSize int `yaml:"batch_size" env:"IMPORT_BATCH_SIZE" env-default:"50"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type Janitor struct {
	Interval time.Duration `yaml:"interval" env:"JANITOR_INTERVAL" env-default:"10m"`
}

// Load reads the config file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return cfg
}
