package models

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultPages 每个标签默认抓取的页数
	DefaultPages = 10
	// DefaultOutputDir 默认输出目录
	DefaultOutputDir = "./allfonts/"
	// DefaultBaseURL 字体站点地址
	DefaultBaseURL = "https://www.1001fonts.com"
)

// DefaultLabels 默认抓取的标签
var DefaultLabels = []string{"sans-serif"}

// FetchMode 页面获取方式
type FetchMode string

const (
	FetchStatic  FetchMode = "static"  // 直接HTTP请求
	FetchDynamic FetchMode = "dynamic" // 无头浏览器渲染
)

// CrawlRequest 一次运行的抓取参数,运行期间不可修改
type CrawlRequest struct {
	Labels          []string `mapstructure:"labels"`            // 抓取的标签,按输入顺序,允许重复
	Pages           int      `mapstructure:"pages"`             // 每个标签的页数
	OutputDir       string   `mapstructure:"output_dir"`        // 输出目录
	ContinueOnError bool     `mapstructure:"continue_on_error"` // 单个字体失败时跳过而不是中止
	ShowProgress    bool     `mapstructure:"show_progress"`     // 显示进度条
}

// DefaultCrawlRequest 返回默认参数
func DefaultCrawlRequest() CrawlRequest {
	labels := make([]string, len(DefaultLabels))
	copy(labels, DefaultLabels)
	return CrawlRequest{
		Labels:    labels,
		Pages:     DefaultPages,
		OutputDir: DefaultOutputDir,
	}
}

// Validate 验证参数
func (r *CrawlRequest) Validate() error {
	if len(r.Labels) == 0 {
		return fmt.Errorf("至少需要一个标签")
	}
	for i, label := range r.Labels {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("第%d个标签为空", i+1)
		}
	}
	if r.Pages < 1 {
		return fmt.Errorf("页数必须大于0,当前值: %d", r.Pages)
	}
	if strings.TrimSpace(r.OutputDir) == "" {
		return fmt.Errorf("输出目录不能为空")
	}
	return nil
}

// Selectors 站点页面的CSS选择器
type Selectors struct {
	ListingLink     string `mapstructure:"listing_link"`     // 列表页中指向详情页的链接
	FontName        string `mapstructure:"font_name"`        // 详情页标题
	DownloadButton  string `mapstructure:"download_button"`  // 下载按钮
	Tags            string `mapstructure:"tags"`             // 标签列表项
	CommercialBadge string `mapstructure:"commercial_badge"` // 可商用徽章
}

// DefaultSelectors 1001fonts页面结构对应的选择器
func DefaultSelectors() Selectors {
	return Selectors{
		ListingLink:     ".preview-link.txt-preview-wrapper",
		FontName:        "h1.font-name",
		DownloadButton:  "a.btn-download",
		Tags:            ".react-tag-root .tags__list-item",
		CommercialBadge: "a.badge--license-yes",
	}
}

// SiteConfig 目标站点配置
type SiteConfig struct {
	BaseURL   string    `mapstructure:"base_url"`
	Selectors Selectors `mapstructure:"selectors"`
}

// ListingURL 构造列表页地址: {base}/{label}-fonts.html?page={n}
func (s SiteConfig) ListingURL(label string, page int) string {
	base := strings.TrimRight(s.BaseURL, "/")
	return fmt.Sprintf("%s/%s-fonts.html?page=%d", base, url.PathEscape(label), page)
}

// ResolveURL 将链接解析为绝对地址,绝对链接保持不变
func ResolveURL(base, link string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("解析基础URL失败: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", fmt.Errorf("解析链接失败 [%s]: %w", link, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
