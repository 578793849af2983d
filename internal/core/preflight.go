package core

import (
	"fmt"

	"github.com/RecoveryAshes/FontHarvest/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
)

// CheckDiskSpace 检查输出目录所在磁盘的可用空间
// 低于minFreeMB时只记录警告,返回可用字节数
func CheckDiskSpace(dir string, minFreeMB int) (uint64, error) {
	usage, err := disk.Usage(dir)
	if err != nil {
		return 0, fmt.Errorf("获取磁盘信息失败 [%s]: %w", dir, err)
	}

	if minFreeMB > 0 && usage.Free < uint64(minFreeMB)*1024*1024 {
		utils.Warnf("⚠️  输出目录可用空间不足: %s (建议至少 %d MB)", humanize.Bytes(usage.Free), minFreeMB)
	} else {
		utils.Debugf("输出目录可用空间: %s", humanize.Bytes(usage.Free))
	}

	return usage.Free, nil
}
