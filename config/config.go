package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config 汇总 apper 自身的运行配置（日志、settings 目录等）。
// 与 local.settings.json 中的业务配置（见 Settings）相互独立。
type Config struct {
	LogFile     string `yaml:"log_file"`
	LogLevel    string `yaml:"log_level"`
	SettingsDir string `yaml:"settings_dir"`
}

var (
	once sync.Once
	cfg  Config
)

// Get 返回全局配置（延迟加载）。
// 优先级：APPER_* 环境变量 > ~/.apper/config.yaml > 默认值。
func Get() *Config {
	once.Do(func() {
		cfg = Load(os.Getenv, userConfigDir())
	})
	return &cfg
}

// Load 按给定的环境变量读取函数与配置目录构造 Config，便于测试。
func Load(getenv func(string) string, dir string) Config {
	c := loadFromFile(dir)
	applyEnv(&c, getenv)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	return c
}

func applyEnv(c *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv("APPER_LOG_FILE")); v != "" {
		c.LogFile = v
	}
	if v := strings.TrimSpace(getenv("APPER_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(getenv("APPER_SETTINGS_DIR")); v != "" {
		c.SettingsDir = v
	}
}

func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".apper")
}

func loadFromFile(dir string) Config {
	if dir == "" {
		return Config{}
	}

	configPath := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		// 尝试读取 config.yml
		configPath = filepath.Join(dir, "config.yml")
		data, err = os.ReadFile(configPath)
		if err != nil {
			return Config{}
		}
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		fmt.Fprintf(os.Stderr, "解析配置文件失败: %s: %v\n", configPath, err)
		return Config{}
	}
	return c
}

// Debug 表示是否输出调试日志。
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Summary 返回可安全打印的配置摘要。
func (c Config) Summary() string {
	return fmt.Sprintf(
		"log_file=%s log_level=%s settings_dir=%s",
		emptyAsDefault(c.LogFile, "(discard)"),
		emptyAsDefault(c.LogLevel, "(default)"),
		emptyAsDefault(c.SettingsDir, "(cwd)"),
	)
}

func emptyAsDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
