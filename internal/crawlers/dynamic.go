package crawlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/RecoveryAshes/FontHarvest/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DynamicFetcher 使用无头浏览器渲染页面后返回HTML
// 只用于列表页和详情页,压缩包下载仍走StaticFetcher
type DynamicFetcher struct {
	headless       bool
	waitTime       time.Duration
	timeout        time.Duration
	headerProvider models.HeaderProvider

	// fetchMu 串行化Fetch; mu 只保护browser和closed,Close不等待进行中的Fetch
	fetchMu sync.Mutex
	mu      sync.Mutex
	browser *rod.Browser
	closed  bool
}

// ErrFetcherClosed Close之后再调用Fetch
var ErrFetcherClosed = errors.New("动态获取器已关闭")

// NewDynamicFetcher 创建动态获取器,浏览器在第一次Fetch时启动
func NewDynamicFetcher(headless bool, waitTime, timeout time.Duration, headerProvider models.HeaderProvider) *DynamicFetcher {
	return &DynamicFetcher{
		headless:       headless,
		waitTime:       waitTime,
		timeout:        timeout,
		headerProvider: headerProvider,
	}
}

// Fetch 导航到URL,等待加载后返回渲染后的HTML
// 超时或出错时标签页同样会被关闭
func (df *DynamicFetcher) Fetch(rawURL string) ([]byte, error) {
	df.fetchMu.Lock()
	defer df.fetchMu.Unlock()

	browser, err := df.ensureBrowser()
	if err != nil {
		return nil, err
	}

	tab, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("创建标签页失败: %w", err)
	}
	// tab不带超时上下文,超时之后仍能关闭
	defer func() {
		if closeErr := tab.Close(); closeErr != nil {
			utils.Debugf("关闭标签页失败: %v", closeErr)
		}
	}()

	page := tab
	if df.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), df.timeout)
		defer cancel()
		page = tab.Context(ctx)
	}

	if df.headerProvider != nil {
		headers, err := df.headerProvider.GetHeaders()
		if err != nil {
			return nil, fmt.Errorf("获取HTTP头部失败: %w", err)
		}
		dict := make([]string, 0, len(headers)*2)
		for name, values := range headers {
			// 浏览器自己协商编码
			if len(values) == 0 || name == "Accept-Encoding" {
				continue
			}
			dict = append(dict, name, values[0])
		}
		if len(dict) > 0 {
			if _, err := page.SetExtraHeaders(dict); err != nil {
				return nil, fmt.Errorf("设置HTTP头部失败: %w", err)
			}
		}
	}

	utils.Debugf("渲染: %s", rawURL)

	if err := page.Navigate(rawURL); err != nil {
		return nil, &models.TransportError{URL: rawURL, Cause: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &models.TransportError{URL: rawURL, Cause: fmt.Errorf("等待页面加载失败: %w", err)}
	}

	// 额外等待React组件渲染
	if df.waitTime > 0 {
		time.Sleep(df.waitTime)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("读取页面HTML失败: %w", err)
	}

	utils.Debugf("🌐 渲染完成: %s (%s)", rawURL, humanize.Bytes(uint64(len(html))))
	return []byte(html), nil
}

// Close 关闭浏览器,未启动时什么也不做
// 可以在Fetch进行中调用(例如收到中断信号),之后的Fetch返回ErrFetcherClosed
func (df *DynamicFetcher) Close() error {
	df.mu.Lock()
	defer df.mu.Unlock()

	df.closed = true
	if df.browser == nil {
		return nil
	}
	err := df.browser.Close()
	df.browser = nil
	if err != nil {
		return fmt.Errorf("关闭浏览器失败: %w", err)
	}
	utils.Debug("浏览器已关闭")
	return nil
}

// ensureBrowser 返回已启动的浏览器,必要时启动
func (df *DynamicFetcher) ensureBrowser() (*rod.Browser, error) {
	df.mu.Lock()
	defer df.mu.Unlock()

	if df.closed {
		return nil, ErrFetcherClosed
	}
	if err := df.launchBrowser(); err != nil {
		return nil, err
	}
	return df.browser, nil
}

// launchBrowser 启动浏览器,已启动时直接返回
func (df *DynamicFetcher) launchBrowser() error {
	if df.browser != nil {
		return nil
	}

	l := launcher.New().Headless(df.headless)

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("连接浏览器失败: %w", err)
	}

	df.browser = browser
	utils.Debugf("浏览器已启动: %s", controlURL)
	return nil
}
