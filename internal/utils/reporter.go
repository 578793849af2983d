package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/schollz/progressbar/v3"
)

const (
	// CollectionFilename 字体集合文件名
	CollectionFilename = "collection.json"
)

// Reporter 负责把抓取结果写入输出目录
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// CollectionPath 集合文件的完整路径
func (r *Reporter) CollectionPath() string {
	return filepath.Join(r.outputDir, CollectionFilename)
}

// SaveCollection 将集合写入 {outputDir}/collection.json
// 已存在的文件会被覆盖,不与之前的运行结果合并
func (r *Reporter) SaveCollection(collection *models.Collection) error {
	if collection == nil {
		collection = models.NewCollection()
	}

	path := r.CollectionPath()
	if err := r.saveJSON(path, collection); err != nil {
		return err
	}

	Infof("💾 字体集合已保存: %s (%d 个字体)", path, collection.Len())
	return nil
}

// saveJSON 以4空格缩进写入JSON
func (r *Reporter) saveJSON(path string, data interface{}) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}

	Debugf("保存文件: %s", path)
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
