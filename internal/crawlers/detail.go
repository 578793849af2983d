package crawlers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/andybalholm/cascadia"
)

// DetailExtractor 从字体详情页提取字体信息
type DetailExtractor struct {
	selectors models.Selectors

	fontName       cascadia.Selector
	downloadButton cascadia.Selector
	tags           cascadia.Selector
	badge          cascadia.Selector
}

// NewDetailExtractor 创建详情页提取器,选择器无效时返回错误
func NewDetailExtractor(selectors models.Selectors) (*DetailExtractor, error) {
	de := &DetailExtractor{selectors: selectors}

	compiled := []struct {
		field    string
		selector string
		target   *cascadia.Selector
	}{
		{"font_name", selectors.FontName, &de.fontName},
		{"download_button", selectors.DownloadButton, &de.downloadButton},
		{"tags", selectors.Tags, &de.tags},
		{"commercial_badge", selectors.CommercialBadge, &de.badge},
	}
	for _, c := range compiled {
		sel, err := compileSelector(c.field, c.selector)
		if err != nil {
			return nil, err
		}
		*c.target = sel
	}

	return de, nil
}

// Extract 解析详情页
// 字体名取标题元素的原始文本(不去空白),下载地址取下载按钮的href原样保存
// 标签去除首尾空白,可商用徽章存在即为商用
func (de *DetailExtractor) Extract(content []byte) (*models.FontRecord, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	heading := doc.FindMatcher(de.fontName).First()
	if heading.Length() == 0 {
		return nil, &models.MissingFieldError{Field: "font_name", Selector: de.selectors.FontName}
	}

	href, ok := doc.FindMatcher(de.downloadButton).First().Attr("href")
	if !ok {
		return nil, &models.MissingFieldError{Field: "download_link", Selector: de.selectors.DownloadButton}
	}

	tags := make([]string, 0)
	doc.FindMatcher(de.tags).Each(func(_ int, s *goquery.Selection) {
		tags = append(tags, strings.TrimSpace(s.Text()))
	})

	rights := models.UsagePersonal
	if doc.FindMatcher(de.badge).Length() > 0 {
		rights = models.UsageCommercial
	}

	return &models.FontRecord{
		Name:         heading.Text(),
		DownloadLink: href,
		Tags:         tags,
		UsageRights:  rights,
		Files:        make([]string, 0),
		CustomTags:   make([]string, 0),
	}, nil
}
