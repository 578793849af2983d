package crawlers

import (
	"errors"
	"reflect"
	"testing"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
)

const listingPage = `<!DOCTYPE html>
<html>
<body>
  <div class="font-list">
    <div class="font-toolbar"><a href="/roboto-font.html" class="preview-link">Roboto</a></div>
    <a class="preview-link txt-preview-wrapper" href="/roboto-font.html"><img src="/r.png"></a>
    <a class="preview-link txt-preview-wrapper" href="/open-sans-font.html"><img src="/o.png"></a>
    <a class="preview-link txt-preview-wrapper" href="https://cdn.example.com/lato-font.html"><img src="/l.png"></a>
    <a class="preview-link txt-preview-wrapper" href="/roboto-font.html"><img src="/r.png"></a>
  </div>
</body>
</html>`

const emptyListingPage = `<!DOCTYPE html>
<html><body><p class="no-results">No fonts found.</p></body></html>`

const commercialDetailPage = `<!DOCTYPE html>
<html>
<body>
  <h1 class="font-name">Roboto Slab</h1>
  <a class="btn btn-primary btn-download" href="/download/roboto-slab.zip">Download</a>
  <div class="react-tag-root">
    <ul class="tags__list">
      <li class="tags__list-item"> serif </li>
      <li class="tags__list-item">
        slab
      </li>
      <li class="tags__list-item">web &amp; print</li>
    </ul>
  </div>
  <a class="badge badge--license-yes" href="/licenses/apache.html">Free for commercial use</a>
</body>
</html>`

const personalDetailPage = `<!DOCTYPE html>
<html>
<body>
  <h1 class="font-name"> Hand Drawn <small>Regular</small></h1>
  <a class="btn-download" href="https://cdn.example.com/hand-drawn.zip">Download</a>
  <a class="badge badge--license-no" href="/licenses/personal.html">Personal use only</a>
</body>
</html>`

func TestListingExtractor_Extract(t *testing.T) {
	extractor, err := NewListingExtractor(models.DefaultSelectors())
	if err != nil {
		t.Fatalf("NewListingExtractor() error = %v", err)
	}

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "按文档顺序返回且不去重",
			content: listingPage,
			want: []string{
				"/roboto-font.html",
				"/open-sans-font.html",
				"https://cdn.example.com/lato-font.html",
				"/roboto-font.html",
			},
		},
		{name: "超出范围的页码", content: emptyListingPage, want: []string{}},
		{name: "空内容", content: "", want: []string{}},
		{name: "残缺的标记", content: `<div><a class="preview-link txt-preview-wrapper" href="/a.html">`, want: []string{"/a.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractor.Extract([]byte(tt.content))
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got == nil {
				t.Fatal("无匹配时应返回空切片而不是nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetailExtractor_Extract(t *testing.T) {
	extractor, err := NewDetailExtractor(models.DefaultSelectors())
	if err != nil {
		t.Fatalf("NewDetailExtractor() error = %v", err)
	}

	t.Run("可商用字体", func(t *testing.T) {
		record, err := extractor.Extract([]byte(commercialDetailPage))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if record.Name != "Roboto Slab" {
			t.Errorf("Name = %q", record.Name)
		}
		if record.DownloadLink != "/download/roboto-slab.zip" {
			t.Errorf("DownloadLink = %q", record.DownloadLink)
		}
		wantTags := []string{"serif", "slab", "web & print"}
		if !reflect.DeepEqual(record.Tags, wantTags) {
			t.Errorf("Tags = %q, want %q", record.Tags, wantTags)
		}
		if record.UsageRights != models.UsageCommercial {
			t.Errorf("UsageRights = %q", record.UsageRights)
		}
		if len(record.Files) != 0 || record.CustomTags == nil || len(record.CustomTags) != 0 {
			t.Errorf("Files/CustomTags 应为空: %v %v", record.Files, record.CustomTags)
		}
	})

	t.Run("没有徽章时为个人使用", func(t *testing.T) {
		record, err := extractor.Extract([]byte(personalDetailPage))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		// 标题文本原样保留,包括子元素文本和空白
		if record.Name != " Hand Drawn Regular" {
			t.Errorf("Name = %q", record.Name)
		}
		if record.DownloadLink != "https://cdn.example.com/hand-drawn.zip" {
			t.Errorf("DownloadLink = %q", record.DownloadLink)
		}
		if record.Tags == nil || len(record.Tags) != 0 {
			t.Errorf("Tags 应为空切片: %v", record.Tags)
		}
		if record.UsageRights != models.UsagePersonal {
			t.Errorf("UsageRights = %q", record.UsageRights)
		}
	})

	missing := []struct {
		name    string
		content string
		field   string
	}{
		{"缺少标题", `<html><body><a class="btn-download" href="/x.zip">Download</a></body></html>`, "font_name"},
		{"缺少下载按钮", `<html><body><h1 class="font-name">X</h1></body></html>`, "download_link"},
		{"下载按钮没有href", `<html><body><h1 class="font-name">X</h1><a class="btn-download">Download</a></body></html>`, "download_link"},
		{"空内容", "", "font_name"},
	}
	for _, tt := range missing {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Extract([]byte(tt.content))
			if !errors.Is(err, models.ErrMissingField) {
				t.Fatalf("期望ErrMissingField, 得到 %v", err)
			}
			var mfErr *models.MissingFieldError
			if !errors.As(err, &mfErr) || mfErr.Field != tt.field {
				t.Errorf("缺失字段 = %v, want %s", err, tt.field)
			}
		})
	}
}

func TestExtractors_CustomSelectors(t *testing.T) {
	selectors := models.DefaultSelectors()
	selectors.ListingLink = "article a.font-link"
	selectors.FontName = "h2.title"

	listing, err := NewListingExtractor(selectors)
	if err != nil {
		t.Fatalf("NewListingExtractor() error = %v", err)
	}
	links, _ := listing.Extract([]byte(`<article><a class="font-link" href="/f.html">F</a></article>`))
	if !reflect.DeepEqual(links, []string{"/f.html"}) {
		t.Errorf("links = %v", links)
	}

	detail, err := NewDetailExtractor(selectors)
	if err != nil {
		t.Fatalf("NewDetailExtractor() error = %v", err)
	}
	record, err := detail.Extract([]byte(`<h2 class="title">F</h2><a class="btn-download" href="/f.zip"></a>`))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if record.Name != "F" {
		t.Errorf("Name = %q", record.Name)
	}
}

func TestExtractors_InvalidSelector(t *testing.T) {
	selectors := models.DefaultSelectors()
	selectors.Tags = "ul[["

	if _, err := NewDetailExtractor(selectors); err == nil {
		t.Error("无效的选择器应返回错误")
	}

	selectors = models.DefaultSelectors()
	selectors.ListingLink = "  "
	if _, err := NewListingExtractor(selectors); err == nil {
		t.Error("空选择器应返回错误")
	}
}
