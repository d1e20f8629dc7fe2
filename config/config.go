package config

import (
	"fmt"
	log "log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server  ServerConfig            `yaml:"server"`
	Log     Log                     `yaml:"log"`
	Cloud   CloudConfig             `yaml:"cloud"`
	Skill   SkillConfig             `yaml:"skill"`
	Devices map[string]DeviceConfig `yaml:"devices"`
	Mqtt    MqttConfig              `yaml:"mqtt"`
}

type ServerConfig struct {
	Port int    `yaml:"port" env:"SERVER_PORT" env-default:"9096"`
	Host string `yaml:"host" env:"HOST" env-default:"localhost"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// CloudConfig is the AbleCloud endpoint every command is relayed to.
type CloudConfig struct {
	Host           string        `yaml:"host" env:"CLOUD_HOST" env-default:"test.ablecloud.cn"`
	Port           int           `yaml:"port" env:"CLOUD_PORT" env-default:"9005"`
	ServiceVersion string        `yaml:"serviceVersion" env:"CLOUD_SERVICE_VERSION" env-default:"v1"`
	MajorDomainId  int64         `yaml:"majorDomainId" env:"CLOUD_MAJOR_DOMAIN_ID" env-default:"3"`
	SubDomainId    int64         `yaml:"subDomainId" env:"CLOUD_SUB_DOMAIN_ID" env-default:"6"`
	DeveloperId    int64         `yaml:"developerId" env:"CLOUD_DEVELOPER_ID" env-default:"2"`
	Timeout        time.Duration `yaml:"timeout" env:"CLOUD_TIMEOUT" env-default:"10s"`
	RateLimit      float64       `yaml:"rateLimit" env:"CLOUD_RATE_LIMIT" env-default:"0"`
	RateBurst      int           `yaml:"rateBurst" env:"CLOUD_RATE_BURST" env-default:"1"`
}

type SkillConfig struct {
	ApplicationId string        `yaml:"applicationId" env:"SKILL_APPLICATION_ID"`
	LightDevice   string        `yaml:"lightDevice" env:"SKILL_LIGHT_DEVICE" env-default:"light"`
	Timeout       time.Duration `yaml:"timeout" env:"SKILL_TIMEOUT" env-default:"8s"`
}

// DeviceConfig addresses a single device behind the relay.
type DeviceConfig struct {
	SubDomain   string `yaml:"subDomain"`
	DeviceId    int64  `yaml:"deviceId"`
	MessageCode int    `yaml:"messageCode"`
}

type MqttConfig struct {
	Enabled  bool   `yaml:"enabled" env:"MQTT_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"MQTT_BROKER_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"MQTT_BROKER_PORT" env-default:"1883"`
	Username string `yaml:"username" env:"MQTT_BROKER_USERNAME"`
	Password string `yaml:"password" env:"MQTT_BROKER_PASSWORD"`
	Tls      bool   `yaml:"tls" env:"MQTT_BROKER_TLS" env-default:"false"`
	ClientId string `yaml:"clientId" env:"MQTT_CLIENT_ID" env-default:"alexa-ablecloud"`
}

func ReadConfig() (*Config, error) {
	filename := getenv("CONFIG_FILE", "config.yaml")
	var cfg Config
	err := cleanenv.ReadConfig(filename, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %v", filename, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %v", filename, err)
	}

	log.Info("read config", "server", cfg.Server, "cloud", cfg.Cloud.Host, "devices", len(cfg.Devices))
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Cloud.Host == "" {
		return fmt.Errorf("cloud host is empty")
	}
	if c.Cloud.ServiceVersion == "" {
		return fmt.Errorf("cloud service version is empty")
	}
	for name, device := range c.Devices {
		if device.SubDomain == "" {
			return fmt.Errorf("device `%s` has no subDomain", name)
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
