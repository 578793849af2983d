package crawlers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// compileSelector 编译CSS选择器
// goquery.Find 遇到非法选择器会panic,配置中的选择器需要先编译
func compileSelector(field, selector string) (cascadia.Selector, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("选择器 %s 为空", field)
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("选择器 %s 无效 [%s]: %w", field, selector, err)
	}
	return sel, nil
}

// parseDocument 解析HTML内容
// html.Parse 对不完整的标记也会构造出文档树,空内容得到空文档
func parseDocument(content []byte) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}
