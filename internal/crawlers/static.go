package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
	"github.com/RecoveryAshes/FontHarvest/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html/charset"
)

// StaticFetcher 基于Colly的同步HTTP获取器
// 每次Fetch都是一次阻塞请求,失败不重试
type StaticFetcher struct {
	collector      *colly.Collector
	headerProvider models.HeaderProvider
}

// NewStaticFetcher 创建静态获取器
// timeout为0表示不设置超时
func NewStaticFetcher(timeout time.Duration, headerProvider models.HeaderProvider) *StaticFetcher {
	c := colly.NewCollector(
		// 同一字体可能出现在多个页面或标签下,每次都要重新请求
		colly.AllowURLRevisit(),
		// 字体压缩包可能超过默认的10MB限制
		colly.MaxBodySize(0),
	)

	// Colly默认客户端有10秒超时,替换为可配置的客户端
	c.SetClient(&http.Client{
		Timeout: timeout,
	})

	if timeout > 0 {
		utils.Debugf("静态获取器: HTTP超时设置为 %v", timeout)
	} else {
		utils.Debugf("静态获取器: 未设置HTTP超时")
	}

	return &StaticFetcher{
		collector:      c,
		headerProvider: headerProvider,
	}
}

// Fetch 获取URL内容
// HTML响应会被转换为UTF-8,其他内容原样返回
func (sf *StaticFetcher) Fetch(rawURL string) ([]byte, error) {
	// Clone共享HTTP后端但不共享回调,每次请求使用独立的回调
	c := sf.collector.Clone()

	var (
		body       []byte
		header     http.Header
		statusCode int
		headerErr  error
	)

	c.OnRequest(func(r *colly.Request) {
		if sf.headerProvider == nil {
			return
		}
		headers, err := sf.headerProvider.GetHeaders()
		if err != nil {
			headerErr = err
			r.Abort()
			return
		}
		for name, values := range headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[0])
			}
		}
	})

	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = r.Body
		if r.Headers != nil {
			header = *r.Headers
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	utils.Debugf("请求: %s", rawURL)

	if err := c.Visit(rawURL); err != nil {
		return nil, &models.TransportError{URL: rawURL, StatusCode: statusCode, Cause: err}
	}
	if headerErr != nil {
		return nil, fmt.Errorf("获取HTTP头部失败: %w", headerErr)
	}
	if body == nil {
		// 请求被中止或没有响应
		return nil, &models.TransportError{URL: rawURL, StatusCode: statusCode, Cause: fmt.Errorf("没有收到响应内容")}
	}

	decoded, err := decompressResponse(header.Get("Content-Encoding"), body)
	if err != nil {
		return nil, &models.TransportError{URL: rawURL, StatusCode: statusCode, Cause: err}
	}

	// Colly已按Content-Type中声明的charset转码,这里只处理<meta charset>声明的页面
	contentType := header.Get("Content-Type")
	if isHTML(contentType) && !strings.Contains(strings.ToLower(contentType), "charset=") {
		decoded, err = toUTF8(decoded, contentType)
		if err != nil {
			return nil, &models.TransportError{URL: rawURL, StatusCode: statusCode, Cause: err}
		}
	}

	utils.Debugf("📥 获取成功: %s (%s, %s)", rawURL, humanize.Bytes(uint64(len(decoded))), contentType)
	return decoded, nil
}

// isHTML 判断Content-Type是否为HTML
func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// toUTF8 根据<meta charset>将HTML转换为UTF-8
// 整体已是合法UTF-8的内容原样返回,charset只检查前1024字节,纯ASCII开头时会误判为windows-1252
func toUTF8(body []byte, contentType string) ([]byte, error) {
	if utf8.Valid(body) {
		return body, nil
	}
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("识别字符集失败: %w", err)
	}
	converted, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("转换字符集失败: %w", err)
	}
	return converted, nil
}

// decompressResponse 根据Content-Encoding头部解压响应体
// gzip由Colly在读取响应时解压,这里只处理 deflate 和 br
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "deflate":
		// HTTP的deflate是zlib格式,部分服务器发送裸deflate流
		if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
			defer zr.Close()
			decompressed, err := io.ReadAll(zr)
			if err != nil {
				return nil, fmt.Errorf("deflate(zlib)读取失败: %w", err)
			}
			return decompressed, nil
		}

		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		reader := brotli.NewReader(bytes.NewReader(body))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "identity", "gzip":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
