package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		RollbarToken string

		Server     ServerConfig
		Database   DatabaseConfig
		Operator   OperatorConfig
		Neis       NeisConfig
		Checklists ChecklistsConfig
	}

	ServerConfig struct {
		Host                 string
		Address              string
		DebugHost            string
		ReadTimeout          time.Duration
		WriteTimeout         time.Duration
		ShutdownTimeout      time.Duration
		SecretKey            string
		TokenExpirationDelta time.Duration
		AllowOrigins         []string
	}

	// DatabaseConfig points to the managed datastore. Access is "not configured" when URL or AccessKey is empty.
	DatabaseConfig struct {
		Engine     string
		URL        string
		AccessKey  string
		DisableTLS bool
	}

	// OperatorConfig holds the super-admin credential used by admin login and secret resets.
	OperatorConfig struct {
		Name string
		Code string
	}

	NeisConfig struct {
		BaseURL  string
		APIKey   string
		PageSize int
		Timeout  time.Duration
	}

	ChecklistsConfig struct {
		Dir string
	}
)

// Configured reports whether the datastore can be reached.
func (c DatabaseConfig) Configured() bool {
	return c.URL != "" && c.AccessKey != ""
}

// Configured reports whether both operator credentials are set.
func (c OperatorConfig) Configured() bool {
	return c.Name != "" && c.Code != ""
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", false)
	conf.SetDefault("appName", "EduSurvey")
	conf.SetDefault("build", "develop")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.readTimeout", 5*time.Second)
	conf.SetDefault("server.writeTimeout", 10*time.Second)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.secretKey", "8vq#l0e_w)xo2^a!r5m=kz&n(3d@t1h$y-6cpi+4gs9uj*7bf")
	conf.SetDefault("server.tokenExpirationDelta", 12*time.Hour)
	conf.SetDefault("server.allowOrigins", []string{"*"})
	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.url", "")
	conf.SetDefault("database.accessKey", "")
	conf.SetDefault("database.disableTLS", false)
	conf.SetDefault("operator.name", "")
	conf.SetDefault("operator.code", "")
	conf.SetDefault("neis.baseURL", "https://open.neis.go.kr/hub/schoolInfo")
	conf.SetDefault("neis.apiKey", "")
	conf.SetDefault("neis.pageSize", 100)
	conf.SetDefault("neis.timeout", 10*time.Second)
	conf.SetDefault("checklists.dir", "checklists")
	conf.SetDefault("rollbarToken", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                 conf.GetString("server.host"),
			Address:              conf.GetString("server.address"),
			DebugHost:            conf.GetString("server.debugHost"),
			ReadTimeout:          conf.GetDuration("server.readTimeout"),
			WriteTimeout:         conf.GetDuration("server.writeTimeout"),
			ShutdownTimeout:      conf.GetDuration("server.shutdownTimeout"),
			SecretKey:            conf.GetString("server.secretKey"),
			TokenExpirationDelta: conf.GetDuration("server.tokenExpirationDelta"),
			AllowOrigins:         conf.GetStringSlice("server.allowOrigins"),
		},
		Database: DatabaseConfig{
			Engine:     conf.GetString("database.engine"),
			URL:        conf.GetString("database.url"),
			AccessKey:  conf.GetString("database.accessKey"),
			DisableTLS: conf.GetBool("database.disableTLS"),
		},
		Operator: OperatorConfig{
			Name: strings.TrimSpace(conf.GetString("operator.name")),
			Code: conf.GetString("operator.code"),
		},
		Neis: NeisConfig{
			BaseURL:  conf.GetString("neis.baseURL"),
			APIKey:   conf.GetString("neis.apiKey"),
			PageSize: conf.GetInt("neis.pageSize"),
			Timeout:  conf.GetDuration("neis.timeout"),
		},
		Checklists: ChecklistsConfig{
			Dir: conf.GetString("checklists.dir"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: no external services, operator credentials set.
func NewTestConfig() *Config {
	return &Config{
		Env:      "TEST",
		Build:    "test",
		TestMode: true,
		AppName:  "EduSurvey",
		Server: ServerConfig{
			SecretKey:            "test-secret-key",
			TokenExpirationDelta: time.Hour,
			ShutdownTimeout:      time.Second,
			AllowOrigins:         []string{"*"},
		},
		Database: DatabaseConfig{Engine: "sqlite", URL: ":memory:", AccessKey: "test"},
		Operator: OperatorConfig{Name: "운영자", Code: "Op 1234"},
		Neis:     NeisConfig{PageSize: 100, Timeout: time.Second},
	}
}
