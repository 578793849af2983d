package core

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/RecoveryAshes/FontHarvest/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// ErrInvalidItemName 字体名不能作为文件名前缀
var ErrInvalidItemName = errors.New("字体名无法用作文件名")

// ArchiveInstaller 保存字体压缩包并解压到输出目录
type ArchiveInstaller struct{}

// NewArchiveInstaller 创建安装器
func NewArchiveInstaller() *ArchiveInstaller {
	return &ArchiveInstaller{}
}

// Install 将压缩包写入 {destDir}/{name}.zip 并解压
// 每个条目保存为 {name}_{条目文件名},条目中的目录部分被丢弃,同名条目后者覆盖前者
// 目录条目被跳过,不计入返回值,也不会在destDir下创建子目录
// 返回按压缩包顺序排列的文件名,压缩包本身保留在目录中
// destDir 需要已经存在
func (ai *ArchiveInstaller) Install(payload []byte, name, destDir string) ([]string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidItemName, name)
	}

	zipPath := filepath.Join(destDir, name+".zip")
	if err := os.WriteFile(zipPath, payload, 0644); err != nil {
		return nil, fmt.Errorf("写入压缩包失败: %w", err)
	}
	utils.Debugf("💾 已保存压缩包: %s (%s)", zipPath, humanize.Bytes(uint64(len(payload))))

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		// 常见情况是下载到了HTML错误页
		return nil, &models.ArchiveError{
			Path:         zipPath,
			DetectedType: mimetype.Detect(payload).String(),
			Cause:        err,
		}
	}
	defer reader.Close()

	files := make([]string, 0, len(reader.File))
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		extracted := name + "_" + path.Base(entry.Name)
		if err := extractEntry(entry, filepath.Join(destDir, extracted)); err != nil {
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				return nil, err
			}
			return nil, &models.ArchiveError{Path: zipPath, Cause: err}
		}
		files = append(files, extracted)
	}

	utils.Debugf("📦 解压完成: %s (%d 个文件)", name, len(files))
	return files, nil
}

// extractEntry 将单个条目解压到目标路径,已存在的文件被覆盖
func extractEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("打开条目 %s 失败: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("解压条目 %s 失败: %w", entry.Name, err)
	}
	return dst.Close()
}
