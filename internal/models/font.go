package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UsageRights 字体授权类型
type UsageRights string

const (
	UsageCommercial UsageRights = "free for commercial use" // 可商用
	UsagePersonal   UsageRights = "free for personal use"   // 仅限个人使用
)

// IsCommercial 是否允许商用
func (u UsageRights) IsCommercial() bool {
	return u == UsageCommercial
}

// UnmarshalJSON 只接受两种已知的授权类型
func (u *UsageRights) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch UsageRights(s) {
	case UsageCommercial, UsagePersonal:
		*u = UsageRights(s)
		return nil
	default:
		return fmt.Errorf("未知的授权类型: %q", s)
	}
}

// FontRecord 单个字体条目
type FontRecord struct {
	Name         string      `json:"font_name"`      // 页面标题中的字体名称
	DownloadLink string      `json:"download_link"`  // 下载按钮的href(原样保留)
	Tags         []string    `json:"tags"`           // 页面上的标签,保持文档顺序
	UsageRights  UsageRights `json:"legal_use_type"` // 授权类型
	Files        []string    `json:"files"`          // 解压后的文件名(压缩包内顺序)
	CustomTags   []string    `json:"custom_tags"`    // 预留给手工标注,抓取时始终为空
}

// Collection 一次运行累积的全部字体
type Collection struct {
	Fonts []*FontRecord `json:"fonts"`
}

// NewCollection 创建空集合
func NewCollection() *Collection {
	return &Collection{Fonts: make([]*FontRecord, 0)}
}

// Add 追加字体记录,不做去重
func (c *Collection) Add(font *FontRecord) {
	c.Fonts = append(c.Fonts, font)
}

// Len 字体数量
func (c *Collection) Len() int {
	return len(c.Fonts)
}

// FileCount 所有字体解压出的文件总数
func (c *Collection) FileCount() int {
	n := 0
	for _, f := range c.Fonts {
		n += len(f.Files)
	}
	return n
}

// MarshalJSON 保证空切片序列化为 [] 而不是 null
func (f *FontRecord) MarshalJSON() ([]byte, error) {
	type alias FontRecord
	out := alias(*f)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Files == nil {
		out.Files = []string{}
	}
	if out.CustomTags == nil {
		out.CustomTags = []string{}
	}
	return marshalRaw(out)
}

// MarshalJSON 空集合输出 {"fonts": []}
func (c *Collection) MarshalJSON() ([]byte, error) {
	fonts := c.Fonts
	if fonts == nil {
		fonts = []*FontRecord{}
	}
	return marshalRaw(struct {
		Fonts []*FontRecord `json:"fonts"`
	}{Fonts: fonts})
}

// marshalRaw 序列化时不转义 <, >, & (字体名中常见 &)
func marshalRaw(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
