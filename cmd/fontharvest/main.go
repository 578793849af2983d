package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/RecoveryAshes/FontHarvest/internal/config"
	"github.com/RecoveryAshes/FontHarvest/internal/core"
	"github.com/RecoveryAshes/FontHarvest/internal/crawlers"
	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/RecoveryAshes/FontHarvest/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	logLevel   string
	quiet      bool

	// HTTP头部参数
	headers []string

	// 抓取参数
	labels          []string
	labelFile       string
	pages           int
	outputDir       string
	mode            string
	waitTime        int
	continueOnError bool
	noProgress      bool

	// 当前生效的配置
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fontharvest",
	Short: "字体目录抓取工具",
	Long: `FontHarvest - 按标签抓取字体站点,下载并解压字体,生成 collection.json

对每个标签抓取 1..N 页列表页,进入每个字体的详情页提取名称、标签和授权类型,
下载字体压缩包并解压到输出目录,所有字体记录保存在 {output}/collection.json。

示例:
  # 默认参数: sans-serif 标签,10页,输出到 ./allfonts/
  fontharvest

  # 多个标签,每个标签3页
  fontharvest -l serif -l script -p 3 -o ./fonts

  # 使用无头浏览器渲染页面,单个字体失败时跳过
  fontharvest -m dynamic --continue-on-error

  # 自定义HTTP头部
  fontharvest -H "User-Agent: MyBot/1.0" -H "Accept-Language: en-US"

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig = cfg

		// 初始化日志系统,命令行参数覆盖配置文件
		logConfig := cfg.LogConfig()
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if quiet {
			logConfig.Quiet = true
		}
		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, appConfig); err != nil {
			return err
		}

		if err := ValidateFlags(appConfig.Crawl.Labels, appConfig.Crawl.Pages, appConfig.Fetch.WaitTime, string(appConfig.Fetch.Mode)); err != nil {
			return err
		}

		// 创建HTTP头部管理器
		headerManager, err := core.NewHeaderManager(appConfig.Fetch.Headers, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}
		if err := headerManager.Validate(); err != nil {
			return fmt.Errorf("HTTP头部验证失败: %w", err)
		}
		utils.Debugf("HTTP头部: %s", headerManager.SafeString())

		fetcher := crawlers.NewStaticFetcher(appConfig.Fetch.Timeout, headerManager)
		opts := []core.BuilderOption{core.WithMinFreeSpace(appConfig.Output.MinFreeSpaceMB)}

		var dynamicFetcher *crawlers.DynamicFetcher
		if appConfig.Fetch.Mode == models.FetchDynamic {
			dynamicFetcher = crawlers.NewDynamicFetcher(
				appConfig.Fetch.Headless,
				time.Duration(appConfig.Fetch.WaitTime)*time.Second,
				appConfig.Fetch.Timeout,
				headerManager,
			)
			defer closeBrowser(dynamicFetcher)
			opts = append(opts, core.WithPageFetcher(dynamicFetcher))
		}

		// 中断时不保存部分结果,os.Exit不执行defer,浏览器需要先关闭
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go waitForInterrupt(sigChan, func() {
			if dynamicFetcher != nil {
				closeBrowser(dynamicFetcher)
			}
		}, os.Exit)

		request := appConfig.CrawlRequest()
		builder, err := core.NewCollectionBuilder(request, appConfig.Site, fetcher, opts...)
		if err != nil {
			return err
		}

		collection, _, err := builder.Build()
		if err != nil {
			utils.Error(err, "抓取失败, 不写入collection.json")
			return fmt.Errorf("抓取失败: %w", err)
		}

		reporter := utils.NewReporter(request.OutputDir)
		if err := reporter.SaveCollection(collection); err != nil {
			return fmt.Errorf("保存字体集合失败: %w", err)
		}

		utils.Info("✨ 抓取任务完成!")
		return nil
	},
}

// waitForInterrupt 收到信号后执行清理并退出
func waitForInterrupt(sigChan <-chan os.Signal, cleanup func(), exit func(int)) {
	sig, ok := <-sigChan
	if !ok {
		return
	}
	utils.Warnf("收到中断信号: %v", sig)
	utils.Warn("已抓取的字体不会写入collection.json")
	cleanup()
	exit(1)
}

// closeBrowser 关闭浏览器,失败只记录警告
func closeBrowser(df *crawlers.DynamicFetcher) {
	if err := df.Close(); err != nil {
		utils.Warnf("%v", err)
	}
}

// applyFlags 命令行中显式指定的参数覆盖配置文件
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if labelFile != "" {
		fileLabels, err := utils.ReadLabelsFromFile(labelFile)
		if err != nil {
			return fmt.Errorf("读取标签文件失败: %w", err)
		}
		cfg.Crawl.Labels = fileLabels
	}
	// -l 追加在标签文件之后
	if flags.Changed("label") {
		if labelFile != "" {
			cfg.Crawl.Labels = append(cfg.Crawl.Labels, labels...)
		} else {
			cfg.Crawl.Labels = labels
		}
	}
	if flags.Changed("pages") {
		cfg.Crawl.Pages = pages
	}
	if flags.Changed("output") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("mode") {
		cfg.Fetch.Mode = models.FetchMode(mode)
	}
	if flags.Changed("wait") {
		cfg.Fetch.WaitTime = waitTime
	}
	if flags.Changed("continue-on-error") {
		cfg.Crawl.ContinueOnError = continueOnError
	}
	if noProgress {
		cfg.Crawl.ShowProgress = false
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	// 不需要加载配置
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FontHarvest %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "生成配置文件模板",
	Args:  cobra.MaximumNArgs(1),
	// 配置文件可能还不存在或已损坏
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join("configs", "config.yaml")
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteTemplate(path); err != nil {
			return err
		}
		fmt.Printf("✅ 配置文件已生成: %s\n", path)
		return nil
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "不输出日志到控制台,只写日志文件")

	// HTTP头部参数
	rootCmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")

	// 抓取参数
	rootCmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "抓取的标签,可多次指定 (默认 sans-serif)")
	rootCmd.Flags().StringVarP(&labelFile, "label-file", "f", "", "标签列表文件,每行一个")
	rootCmd.Flags().IntVarP(&pages, "pages", "p", models.DefaultPages, "每个标签抓取的页数")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", models.DefaultOutputDir, "输出目录")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", string(models.FetchStatic), "页面获取模式 (static|dynamic)")
	rootCmd.Flags().IntVarP(&waitTime, "wait", "w", 2, "动态模式页面等待时间(秒)")
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "单个字体失败时跳过并继续")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "不显示进度条")

	// 添加子命令
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
