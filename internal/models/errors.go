package models

import (
	"errors"
	"fmt"
)

// ErrMissingField 详情页缺少必需元素
var ErrMissingField = errors.New("缺少必需字段")

// TransportError 网络请求失败或响应状态非2xx
type TransportError struct {
	URL        string
	StatusCode int // 未收到响应时为0
	Cause      error
}

// Error 实现error接口
func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("请求失败 [%s]: HTTP %d: %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("请求失败 [%s]: %v", e.URL, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// MissingFieldError 详情页中找不到必需的元素
type MissingFieldError struct {
	Field    string // font_name, download_link
	Selector string
}

// Error 实现error接口
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s (选择器: %s)", ErrMissingField.Error(), e.Field, e.Selector)
}

// Is 使 errors.Is(err, ErrMissingField) 成立
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// ArchiveError 下载内容不是有效的zip压缩包
type ArchiveError struct {
	Path         string // 写入磁盘的压缩包路径
	DetectedType string // 内容嗅探结果,仅用于诊断
	Cause        error
}

// Error 实现error接口
func (e *ArchiveError) Error() string {
	if e.DetectedType != "" {
		return fmt.Sprintf("无效的压缩包 [%s] (实际内容: %s): %v", e.Path, e.DetectedType, e.Cause)
	}
	return fmt.Sprintf("无效的压缩包 [%s]: %v", e.Path, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ArchiveError) Unwrap() error {
	return e.Cause
}
