package crawlers

// Fetcher 给定URL返回响应内容
// 非2xx响应和网络错误都以 *models.TransportError 返回
type Fetcher interface {
	Fetch(rawURL string) ([]byte, error)
}

var (
	_ Fetcher = (*StaticFetcher)(nil)
	_ Fetcher = (*DynamicFetcher)(nil)
)
