package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/RecoveryAshes/FontHarvest/internal/utils"
	"github.com/spf13/viper"
)

//go:embed config_template.yaml
var configTemplate string

// Config 应用程序配置
type Config struct {
	Crawl   CrawlConfig       `mapstructure:"crawl"`
	Site    models.SiteConfig `mapstructure:"site"`
	Fetch   FetchConfig       `mapstructure:"fetch"`
	Output  OutputConfig      `mapstructure:"output"`
	Logging LoggingConfig     `mapstructure:"logging"`
}

// CrawlConfig 抓取配置
type CrawlConfig struct {
	Labels          []string `mapstructure:"labels"`
	Pages           int      `mapstructure:"pages"`
	ContinueOnError bool     `mapstructure:"continue_on_error"`
	ShowProgress    bool     `mapstructure:"show_progress"`
}

// FetchConfig 页面获取配置
type FetchConfig struct {
	Mode     models.FetchMode  `mapstructure:"mode"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	WaitTime int               `mapstructure:"wait_time"`
	Headless bool              `mapstructure:"headless"`
	Headers  map[string]string `mapstructure:"headers"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Dir            string `mapstructure:"dir"`
	MinFreeSpaceMB int    `mapstructure:"min_free_space_mb"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件
// configPath为空时依次搜索 ./configs, ., ~/.fontharvest 下的 config.yaml,找不到则使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".fontharvest"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &models.ConfigError{FilePath: v.ConfigFileUsed(), Cause: fmt.Errorf("解析配置失败: %w", err)}
	}

	if err := config.Validate(); err != nil {
		return nil, &models.ConfigError{FilePath: v.ConfigFileUsed(), Cause: err}
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	request := models.DefaultCrawlRequest()
	selectors := models.DefaultSelectors()
	logging := utils.DefaultLogConfig()

	v.SetDefault("crawl.labels", request.Labels)
	v.SetDefault("crawl.pages", request.Pages)
	v.SetDefault("crawl.continue_on_error", request.ContinueOnError)
	v.SetDefault("crawl.show_progress", true)

	v.SetDefault("site.base_url", models.DefaultBaseURL)
	v.SetDefault("site.selectors.listing_link", selectors.ListingLink)
	v.SetDefault("site.selectors.font_name", selectors.FontName)
	v.SetDefault("site.selectors.download_button", selectors.DownloadButton)
	v.SetDefault("site.selectors.tags", selectors.Tags)
	v.SetDefault("site.selectors.commercial_badge", selectors.CommercialBadge)

	v.SetDefault("fetch.mode", string(models.FetchStatic))
	v.SetDefault("fetch.timeout", "0s")
	v.SetDefault("fetch.wait_time", 2)
	v.SetDefault("fetch.headless", true)

	v.SetDefault("output.dir", request.OutputDir)
	v.SetDefault("output.min_free_space_mb", 200)

	v.SetDefault("logging.level", logging.Level)
	v.SetDefault("logging.log_dir", logging.LogDir)
	v.SetDefault("logging.rotation.max_size", logging.MaxSize)
	v.SetDefault("logging.rotation.max_backups", logging.MaxBackups)
	v.SetDefault("logging.rotation.max_age", logging.MaxAge)
	v.SetDefault("logging.rotation.compress", logging.Compress)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := models.ValidateURL(c.Site.BaseURL); err != nil {
		return fmt.Errorf("site.base_url 无效: %w", err)
	}
	switch c.Fetch.Mode {
	case models.FetchStatic, models.FetchDynamic:
	default:
		return fmt.Errorf("无效的获取模式: %s (有效值: static, dynamic)", c.Fetch.Mode)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout 不能为负数")
	}
	if c.Fetch.WaitTime < 0 || c.Fetch.WaitTime > 60 {
		return fmt.Errorf("等待时间必须在0-60秒之间,当前值: %d", c.Fetch.WaitTime)
	}
	return nil
}

// CrawlRequest 从配置构造抓取请求
// 未设置标签时使用默认标签,页数和输出目录原样传递,由 CrawlRequest.Validate 检查
func (c *Config) CrawlRequest() models.CrawlRequest {
	request := models.DefaultCrawlRequest()
	if c.Crawl.Labels != nil {
		request.Labels = make([]string, len(c.Crawl.Labels))
		copy(request.Labels, c.Crawl.Labels)
	}
	request.Pages = c.Crawl.Pages
	request.OutputDir = c.Output.Dir
	request.ContinueOnError = c.Crawl.ContinueOnError
	request.ShowProgress = c.Crawl.ShowProgress
	return request
}

// LogConfig 转换为日志系统配置,配置中为空的字段保留默认值
func (c *Config) LogConfig() utils.LogConfig {
	logConfig := utils.DefaultLogConfig()
	if c.Logging.Level != "" {
		logConfig.Level = c.Logging.Level
	}
	if c.Logging.LogDir != "" {
		logConfig.LogDir = c.Logging.LogDir
	}
	logConfig.MaxSize = c.Logging.Rotation.MaxSize
	logConfig.MaxBackups = c.Logging.Rotation.MaxBackups
	logConfig.MaxAge = c.Logging.Rotation.MaxAge
	logConfig.Compress = c.Logging.Rotation.Compress
	return logConfig
}

// WriteTemplate 将配置模板写入path,文件已存在时不覆盖
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("配置文件已存在: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("无法创建配置目录: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("无法生成配置文件 [%s]: %w", path, err)
	}
	return nil
}
