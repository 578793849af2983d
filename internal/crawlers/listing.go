package crawlers

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/andybalholm/cascadia"
)

// ListingExtractor 从列表页提取详情页链接
type ListingExtractor struct {
	link cascadia.Selector
}

// NewListingExtractor 创建列表页提取器
func NewListingExtractor(selectors models.Selectors) (*ListingExtractor, error) {
	link, err := compileSelector("listing_link", selectors.ListingLink)
	if err != nil {
		return nil, err
	}
	return &ListingExtractor{link: link}, nil
}

// Extract 返回页面中所有字体预览链接的href,按文档顺序,不去重
// 超出范围的页码没有匹配元素,返回空切片
func (le *ListingExtractor) Extract(content []byte) ([]string, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0)
	doc.FindMatcher(le.link).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links, nil
}
