package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
	"time"
)

type Config struct {
	Env     string `yaml:"env" env:"ENV" env-default:"local"`
	Session struct {
		UserID   string `yaml:"user_id" env:"SESSION_USER_ID" env-default:""`
		Username string `yaml:"username" env:"SESSION_USERNAME" env-default:""`
		Name     string `yaml:"name" env-default:""`
		Avatar   string `yaml:"avatar" env-default:""`
		Token    string `yaml:"token" env:"SESSION_TOKEN" env-default:""`
	} `yaml:"session"`
	Api struct {
		BaseURL  string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://127.0.0.1:8080/api"`
		Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
		PageSize int           `yaml:"page_size" env-default:"50"`
	} `yaml:"api"`
	Realtime struct {
		URL            string        `yaml:"url" env:"REALTIME_URL" env-default:"ws://127.0.0.1:8080/socket"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" env-default:"3s"`
		Enabled        bool          `yaml:"enabled" env-default:"true"`
	} `yaml:"realtime"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:"liveinbox"`
	} `yaml:"mongo"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env:"LISTEN_KEY" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

// Load reads the config without caching it, used where a fresh read is
// needed (tests, tools).
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return conf, nil
}
