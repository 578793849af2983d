// Package crawlers 负责获取页面并从中提取字体信息
//
// # 获取器
//
// Fetcher 是最小的获取接口: 给定URL返回响应内容。
//
//   - StaticFetcher: 基于Colly的同步HTTP请求,处理 br/deflate 压缩和字符集转换,
//     二进制内容(字体压缩包)原样返回。
//   - DynamicFetcher: 基于go-rod的无头浏览器,返回渲染后的HTML,只用于页面。
//
// 两者都不重试,非2xx响应和网络错误以 *models.TransportError 返回。
//
// # 提取器
//
// ListingExtractor 从列表页提取详情页链接,按文档顺序,不去重。
// DetailExtractor 从详情页提取一条 models.FontRecord:
//
//	listing := NewListingExtractor(selectors)
//	links, err := listing.Extract(page)
//
//	detail := NewDetailExtractor(selectors)
//	record, err := detail.Extract(page)
//	if errors.Is(err, models.ErrMissingField) { /* 页面结构不符 */ }
//
// 选择器来自 models.Selectors,可以在配置文件 site.selectors 中修改。
package crawlers
