package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Automation struct {
		Headless          bool          `yaml:"headless" default:"false"`
		KeepOpen          bool          `yaml:"keep_open" default:"true"`
		HoldSeconds       int           `yaml:"hold_seconds" default:"30"`
		NavigationTimeout time.Duration `yaml:"navigation_timeout" default:"30s"`
		PageLoadWait      time.Duration `yaml:"page_load_wait" default:"5s"`
		SettlePause       time.Duration `yaml:"settle_pause" default:"500ms"`
		UserAgent         string        `yaml:"user_agent"`
		ResumeFile        string        `yaml:"resume_file"`
	} `yaml:"automation"`

	Batch struct {
		InterJobDelay   time.Duration `yaml:"inter_job_delay" default:"1s"`
		TaskTimeout     time.Duration `yaml:"task_timeout" default:"300s"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge      time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"batch"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		Enabled  bool          `yaml:"enabled" default:"false"`
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Automation.Headless = false
	config.Automation.KeepOpen = true
	config.Automation.HoldSeconds = 30
	config.Automation.NavigationTimeout = 30 * time.Second
	config.Automation.PageLoadWait = 5 * time.Second
	config.Automation.SettlePause = 500 * time.Millisecond
	config.Automation.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	config.Batch.InterJobDelay = 1 * time.Second
	config.Batch.TaskTimeout = 300 * time.Second
	config.Batch.CleanupInterval = 1 * time.Hour
	config.Batch.MaxTaskAge = 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if headless := os.Getenv("AUTOMATION_HEADLESS"); headless != "" {
		c.Automation.Headless = headless == "true" || headless == "1"
	}

	if keepOpen := os.Getenv("AUTOMATION_KEEP_OPEN"); keepOpen != "" {
		c.Automation.KeepOpen = keepOpen == "true" || keepOpen == "1"
	}

	if holdSeconds := os.Getenv("AUTOMATION_HOLD_SECONDS"); holdSeconds != "" {
		if secs, err := strconv.Atoi(holdSeconds); err == nil {
			c.Automation.HoldSeconds = secs
		}
	}

	if navTimeout := os.Getenv("AUTOMATION_NAVIGATION_TIMEOUT"); navTimeout != "" {
		if timeout, err := time.ParseDuration(navTimeout); err == nil {
			c.Automation.NavigationTimeout = timeout
		}
	}

	if userAgent := os.Getenv("AUTOMATION_USER_AGENT"); userAgent != "" {
		c.Automation.UserAgent = userAgent
	}

	if resumeFile := os.Getenv("AUTOMATION_RESUME_FILE"); resumeFile != "" {
		c.Automation.ResumeFile = resumeFile
	}

	if interJobDelay := os.Getenv("BATCH_INTER_JOB_DELAY"); interJobDelay != "" {
		if delay, err := time.ParseDuration(interJobDelay); err == nil {
			c.Batch.InterJobDelay = delay
		}
	}

	if taskTimeout := os.Getenv("BATCH_TASK_TIMEOUT"); taskTimeout != "" {
		if timeout, err := time.ParseDuration(taskTimeout); err == nil {
			c.Batch.TaskTimeout = timeout
		}
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		c.Redis.Enabled = redisEnabled == "true" || redisEnabled == "1"
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}
}
