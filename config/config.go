package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	JWTSecret      string `mapstructure:"JWT_ACCESS_SECRET"`
	RelayURL       string `mapstructure:"RELAY_URL"`
	RelayAPIKey    string `mapstructure:"RELAY_API_KEY"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	LogMode        string `mapstructure:"LOG_MODE"`
	IDProbeLimit   int    `mapstructure:"ID_PROBE_LIMIT"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.BindEnv("PORT")
	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("JWT_ACCESS_SECRET")
	viper.BindEnv("RELAY_URL")
	viper.BindEnv("RELAY_API_KEY")
	viper.BindEnv("ALLOWED_ORIGINS")
	viper.BindEnv("LOG_MODE")
	viper.BindEnv("ID_PROBE_LIMIT")

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
