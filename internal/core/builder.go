package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/RecoveryAshes/FontHarvest/internal/crawlers"
	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/RecoveryAshes/FontHarvest/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// ItemOutcome 被跳过的字体 (continue_on_error 模式)
type ItemOutcome struct {
	Label     string
	Page      int
	DetailURL string
	Err       error
}

// RunStats 一次运行的统计信息
type RunStats struct {
	RunID        string
	ListingPages int
	Items        int
	Files        int
	Commercial   int
	Bytes        int64
	Skipped      []ItemOutcome
	Duration     time.Duration
}

// CollectionBuilder 按标签和页码抓取字体并构建字体集合
type CollectionBuilder struct {
	request models.CrawlRequest
	site    models.SiteConfig

	// pageFetcher 获取列表页和详情页,assetFetcher 下载压缩包
	pageFetcher  crawlers.Fetcher
	assetFetcher crawlers.Fetcher

	listing   *crawlers.ListingExtractor
	detail    *crawlers.DetailExtractor
	installer *ArchiveInstaller

	minFreeSpaceMB int
}

// BuilderOption 构建器选项
type BuilderOption func(*CollectionBuilder)

// WithPageFetcher 使用单独的获取器获取页面 (如无头浏览器)
func WithPageFetcher(f crawlers.Fetcher) BuilderOption {
	return func(b *CollectionBuilder) {
		b.pageFetcher = f
	}
}

// WithMinFreeSpace 设置磁盘空间预检阈值(MB),0表示不检查
func WithMinFreeSpace(mb int) BuilderOption {
	return func(b *CollectionBuilder) {
		b.minFreeSpaceMB = mb
	}
}

// NewCollectionBuilder 创建集合构建器
// fetcher 默认同时用于页面和压缩包
func NewCollectionBuilder(request models.CrawlRequest, site models.SiteConfig, fetcher crawlers.Fetcher, opts ...BuilderOption) (*CollectionBuilder, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("抓取参数无效: %w", err)
	}
	if err := models.ValidateURL(site.BaseURL); err != nil {
		return nil, fmt.Errorf("站点地址无效: %w", err)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("获取器不能为空")
	}

	listing, err := crawlers.NewListingExtractor(site.Selectors)
	if err != nil {
		return nil, err
	}
	detail, err := crawlers.NewDetailExtractor(site.Selectors)
	if err != nil {
		return nil, err
	}

	b := &CollectionBuilder{
		request:      request,
		site:         site,
		pageFetcher:  fetcher,
		assetFetcher: fetcher,
		listing:      listing,
		detail:       detail,
		installer:    NewArchiveInstaller(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Build 执行抓取
// 执行流程:
//  1. 创建输出目录
//  2. 按输入顺序遍历标签,每个标签抓取 1..Pages 页
//  3. 对列表页中的每个链接: 获取详情页 → 提取信息 → 下载压缩包 → 解压
//  4. 每个字体追加一条记录,不去重
//
// 默认任何错误都会中止整个运行并返回nil集合;
// ContinueOnError 时单个字体的失败被记录并跳过,列表页失败和文件系统错误仍然中止
func (b *CollectionBuilder) Build() (*models.Collection, *RunStats, error) {
	startTime := time.Now()
	stats := &RunStats{
		RunID:   uuid.New().String(),
		Skipped: make([]ItemOutcome, 0),
	}
	logger := utils.WithField("run_id", stats.RunID)

	logger.Info().
		Strs("labels", b.request.Labels).
		Int("pages", b.request.Pages).
		Str("output_dir", b.request.OutputDir).
		Msg("🚀 开始抓取字体")

	if err := os.MkdirAll(b.request.OutputDir, 0755); err != nil {
		return nil, stats, fmt.Errorf("创建输出目录失败: %w", err)
	}

	if b.minFreeSpaceMB > 0 {
		if _, err := CheckDiskSpace(b.request.OutputDir, b.minFreeSpaceMB); err != nil {
			utils.Warnf("磁盘空间检查失败: %v", err)
		}
	}

	collection := models.NewCollection()

	for i, label := range b.request.Labels {
		utils.Infof("🏷️  抓取标签: %s (%d/%d)", label, i+1, len(b.request.Labels))

		if err := b.crawlLabel(logger, label, collection, stats); err != nil {
			stats.Duration = time.Since(startTime)
			return nil, stats, err
		}
	}

	stats.Duration = time.Since(startTime)
	stats.Files = collection.FileCount()
	stats.Commercial = countCommercial(collection)
	b.printSummary(logger, stats)

	return collection, stats, nil
}

// crawlLabel 抓取一个标签的所有页
func (b *CollectionBuilder) crawlLabel(logger zerolog.Logger, label string, collection *models.Collection, stats *RunStats) error {
	var bar *progressbar.ProgressBar
	if b.request.ShowProgress {
		bar = utils.NewProgressBar(b.request.Pages, label)
		defer bar.Finish()
	}

	for page := 1; page <= b.request.Pages; page++ {
		listingURL := b.site.ListingURL(label, page)

		content, err := b.pageFetcher.Fetch(listingURL)
		if err != nil {
			return fmt.Errorf("获取列表页失败 [%s 第%d页]: %w", label, page, err)
		}
		links, err := b.listing.Extract(content)
		if err != nil {
			return fmt.Errorf("解析列表页失败 [%s]: %w", listingURL, err)
		}
		stats.ListingPages++

		if len(links) == 0 {
			utils.Debugf("列表页没有字体: %s", listingURL)
		}

		for _, link := range links {
			record, size, err := b.processItem(link)
			if err != nil {
				if !b.request.ContinueOnError || isFilesystemError(err) {
					return fmt.Errorf("处理字体失败 [%s]: %w", link, err)
				}
				stats.Skipped = append(stats.Skipped, ItemOutcome{
					Label:     label,
					Page:      page,
					DetailURL: link,
					Err:       err,
				})
				logger.Warn().Err(err).Str("label", label).Int("page", page).Str("link", link).Msg("⏭️  跳过字体")
				continue
			}

			collection.Add(record)
			stats.Items++
			stats.Bytes += size
			logger.Debug().Str("font", record.Name).Int("files", len(record.Files)).Msg("✅ 字体已安装")
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return nil
}

// processItem 处理一个详情页链接,返回字体记录和压缩包大小
func (b *CollectionBuilder) processItem(link string) (*models.FontRecord, int64, error) {
	detailURL, err := models.ResolveURL(b.site.BaseURL, link)
	if err != nil {
		return nil, 0, err
	}

	content, err := b.pageFetcher.Fetch(detailURL)
	if err != nil {
		return nil, 0, err
	}

	record, err := b.detail.Extract(content)
	if err != nil {
		return nil, 0, fmt.Errorf("解析详情页失败 [%s]: %w", detailURL, err)
	}

	downloadURL, err := models.ResolveURL(detailURL, record.DownloadLink)
	if err != nil {
		return nil, 0, err
	}

	payload, err := b.assetFetcher.Fetch(downloadURL)
	if err != nil {
		return nil, 0, err
	}

	files, err := b.installer.Install(payload, record.Name, b.request.OutputDir)
	if err != nil {
		return nil, 0, err
	}

	record.Files = files
	record.CustomTags = make([]string, 0)
	return record, int64(len(payload)), nil
}

// isFilesystemError 文件系统错误总是中止运行
func isFilesystemError(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr)
}

// countCommercial 可商用字体数量
func countCommercial(collection *models.Collection) int {
	count := 0
	for _, font := range collection.Fonts {
		if font.UsageRights.IsCommercial() {
			count++
		}
	}
	return count
}

// printSummary 打印运行摘要
func (b *CollectionBuilder) printSummary(logger zerolog.Logger, stats *RunStats) {
	logger.Info().
		Int("pages", stats.ListingPages).
		Int("fonts", stats.Items).
		Int("files", stats.Files).
		Int("commercial", stats.Commercial).
		Int("skipped", len(stats.Skipped)).
		Msg("📊 抓取完成")
	utils.Infof("📦 下载总量: %s", humanize.Bytes(uint64(stats.Bytes)))
	utils.Infof("⏱️  总耗时: %.2f秒", stats.Duration.Seconds())

	if len(stats.Skipped) > 0 {
		utils.Warnf("跳过了 %d 个字体:", len(stats.Skipped))
		for _, outcome := range stats.Skipped {
			utils.Warnf("  - [%s 第%d页] %s: %v", outcome.Label, outcome.Page, outcome.DetailURL, outcome.Err)
		}
	}
}
