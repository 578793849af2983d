package crawlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

func TestDynamicFetcher_Close(t *testing.T) {
	t.Run("未启动浏览器时关闭", func(t *testing.T) {
		df := NewDynamicFetcher(true, 0, time.Second, nil)
		if err := df.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if err := df.Close(); err != nil {
			t.Errorf("重复Close() error = %v", err)
		}
	})

	t.Run("关闭后不再启动浏览器", func(t *testing.T) {
		df := NewDynamicFetcher(true, 0, time.Second, nil)
		_ = df.Close()

		_, err := df.Fetch("http://127.0.0.1:1/")
		if !errors.Is(err, ErrFetcherClosed) {
			t.Errorf("期望ErrFetcherClosed, 实际: %v", err)
		}
		if df.browser != nil {
			t.Error("关闭后不应该启动浏览器")
		}
	})
}

func TestDynamicFetcher_TimeoutClosesTab(t *testing.T) {
	if _, found := launcher.LookPath(); !found {
		t.Skip("未找到可用的浏览器")
	}

	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><h1 class="font-name">Lato</h1></body></html>`))
	})
	mux.HandleFunc("/slow.html", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	defer close(release)

	df := NewDynamicFetcher(true, 0, 2*time.Second, nil)
	defer df.Close()

	body, err := df.Fetch(server.URL + "/ok.html")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(string(body), "Lato") {
		t.Errorf("渲染结果缺少字体名: %s", body)
	}

	before, err := df.browser.Pages()
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}

	if _, err := df.Fetch(server.URL + "/slow.html"); err == nil {
		t.Fatal("期望超时错误, 但成功了")
	}

	after, err := df.browser.Pages()
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("超时后标签页未关闭: 之前%d个, 之后%d个", len(before), len(after))
	}
}
