package main

import (
	"fmt"
	"strings"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
)

// ValidateFlags 验证命令行标志
func ValidateFlags(labels []string, pages int, waitTime int, mode string) error {
	// 验证标签
	for i, label := range labels {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("第%d个标签为空", i+1)
		}
		if strings.ContainsAny(label, "/?#") {
			return fmt.Errorf("标签不能包含 / ? # 字符: %s", label)
		}
	}

	// 验证页数
	if pages < 1 {
		return fmt.Errorf("页数必须大于0,当前值: %d", pages)
	}

	// 验证等待时间
	if waitTime < 0 || waitTime > 60 {
		return fmt.Errorf("等待时间必须在0-60秒之间,当前值: %d", waitTime)
	}

	// 验证模式
	switch models.FetchMode(mode) {
	case models.FetchStatic, models.FetchDynamic:
	default:
		return fmt.Errorf("无效的获取模式: %s (有效值: static, dynamic)", mode)
	}

	return nil
}
