package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
	Session  SessionConfig  `yaml:"session"`
	I18n     I18nConfig     `yaml:"i18n"`
	LLM      LLMConfig      `yaml:"llm"`
}

type ServerConfig struct {
	Port string `yaml:"port" validate:"required,numeric"`
	Mode string `yaml:"mode" validate:"oneof=debug release test"` // debug, release, test
}

type DatabaseConfig struct {
	Type string `yaml:"type" validate:"oneof=sqlite mysql"` // sqlite, mysql
	DSN  string `yaml:"dsn" validate:"required"`
}

// AdvisorConfig 模拟顾问的延迟与随机源配置
type AdvisorConfig struct {
	RoleDelay     time.Duration `yaml:"role_delay" validate:"gte=0"`
	ResponseDelay time.Duration `yaml:"response_delay" validate:"gte=0"`
	SetupDelay    time.Duration `yaml:"setup_delay" validate:"gte=0"`
	Workers       int           `yaml:"workers" validate:"gte=1"`
	Seed          uint64        `yaml:"seed"`                           // 0 表示按启动时间取种子
	ResponsesFile string        `yaml:"responses_file"`                 // 为空时使用内置规则表
	ReloadPeriod  time.Duration `yaml:"reload_period" validate:"gte=0"` // 规则文件轮询周期，0 表示不监听
}

type SessionConfig struct {
	CookieName    string        `yaml:"cookie_name" validate:"required"`
	MaxIdle       time.Duration `yaml:"max_idle" validate:"gt=0"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gt=0"`
}

// LLMConfig 可选的 OpenAI 兼容模型；APIKey 为空时使用内置回复规则
type LLMConfig struct {
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model" validate:"required_with=APIKey"`
	MaxTokens int    `yaml:"max_tokens" validate:"gte=0"`
}

// Enabled 是否配置了真实模型
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

type I18nConfig struct {
	DefaultLanguage string `yaml:"default_language" validate:"oneof=en ar"`
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "file::memory:?cache=shared",
		},
		Advisor: AdvisorConfig{
			RoleDelay:     1500 * time.Millisecond,
			ResponseDelay: 1000 * time.Millisecond,
			SetupDelay:    1300 * time.Millisecond,
			Workers:       8,
		},
		Session: SessionConfig{
			CookieName:    "navigator_session",
			MaxIdle:       2 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		I18n: I18nConfig{
			DefaultLanguage: "en",
		},
		LLM: LLMConfig{
			APIURL:    "https://api.openai.com/v1",
			Model:     "gpt-4o",
			MaxTokens: 1024,
		},
	}
}

func loadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		klog.Warningf("加载 .env 失败: %v", err)
	}

	config := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			klog.Warningf("解析配置文件 %s 失败，使用默认配置: %v", configPath, err)
		}
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		klog.Warningf("配置校验失败，回退到默认配置: %v", err)
		config = Default()
		applyEnv(config)
	}

	return config
}

// applyEnv 环境变量优先级高于配置文件
func applyEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.Server.Mode = mode
	}

	// 数据库环境变量
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dbDSN := os.Getenv("DB_DSN"); dbDSN != "" {
		config.Database.DSN = dbDSN
	}

	if d, ok := envDuration("ROLE_DELAY"); ok {
		config.Advisor.RoleDelay = d
	}
	if d, ok := envDuration("RESPONSE_DELAY"); ok {
		config.Advisor.ResponseDelay = d
	}
	if d, ok := envDuration("SETUP_DELAY"); ok {
		config.Advisor.SetupDelay = d
	}
	if seed := os.Getenv("ADVISOR_SEED"); seed != "" {
		if v, err := strconv.ParseUint(seed, 10, 64); err == nil {
			config.Advisor.Seed = v
		}
	}
	if file := os.Getenv("RESPONSES_FILE"); file != "" {
		config.Advisor.ResponsesFile = file
	}
	if d, ok := envDuration("RESPONSES_RELOAD_PERIOD"); ok {
		config.Advisor.ReloadPeriod = d
	}

	// LLM 环境变量
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.APIURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL_NAME"); model != "" {
		config.LLM.Model = model
	}

	if lang := os.Getenv("DEFAULT_LANGUAGE"); lang != "" {
		config.I18n.DefaultLanguage = lang
	}
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		klog.Warningf("环境变量 %s 不是合法时长: %v", key, err)
		return 0, false
	}
	return d, true
}

// Validate 校验配置
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func UpdateConfig(newCfg *Config) {
	cfg = newCfg
}
