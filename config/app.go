package config

type App struct {
	Port         string `env:"APP_PORT" default:"8080"`
	DatabaseURL  string `env:"DATABASE_URL,required"`
	JWTSecret    string `env:"JWT_SECRET,required"`
	RedisAddr    string `env:"REDIS_ADDR"`
	KafkaBrokers string `env:"KAFKA_BROKERS"`
	UploadURL    string `env:"UPLOAD_URL"`
	UploadPreset string `env:"UPLOAD_PRESET"`
	Env          string `env:"APP_ENV" default:"dev"`
}
