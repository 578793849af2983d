package utils

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
)

func TestHeaderValidator_ValidateName(t *testing.T) {
	validator := NewHeaderValidator()

	tests := []struct {
		name        string
		headerName  string
		expectError bool
	}{
		{"合法名称-字母", "User-Agent", false},
		{"合法名称-数字", "X-Request-ID-123", false},
		{"非法名称-空格", "User Agent", true},
		{"非法名称-下划线", "User_Agent", true},
		{"非法名称-空字符串", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateName(tt.headerName)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestHeaderValidator_ValidateValue(t *testing.T) {
	validator := NewHeaderValidator()

	tests := []struct {
		name        string
		headerValue string
		expectError bool
	}{
		{"合法值-ASCII", "Mozilla/5.0", false},
		{"合法值-空字符串", "", false},
		{"合法值-接近上限", strings.Repeat(" ", MaxHeaderValueLength), false},
		{"非法值-超长", strings.Repeat("a", MaxHeaderValueLength+1), true},
		{"非法值-控制字符", "value\x00with\x01null", true},
		{"非法值-非ASCII", "字体", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateValue("X-Test", tt.headerValue)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestHeaderValidator_IsForbidden(t *testing.T) {
	validator := NewHeaderValidator()

	for _, name := range []string{"Host", "host", "CONTENT-LENGTH", "Range", "Connection"} {
		if !validator.IsForbidden(name) {
			t.Errorf("%s 应该被禁止", name)
		}
	}
	for _, name := range []string{"User-Agent", "Accept", "Referer"} {
		if validator.IsForbidden(name) {
			t.Errorf("%s 不应该被禁止", name)
		}
	}
}

func TestHeaderValidator_Validate(t *testing.T) {
	validator := NewHeaderValidator()

	valid := http.Header{}
	valid.Set("User-Agent", "FontHarvest/1.0")
	valid.Set("Accept-Language", "en-US")
	if err := validator.Validate(valid); err != nil {
		t.Errorf("合法头部不应报错: %v", err)
	}

	invalid := http.Header{}
	invalid.Set("Range", "bytes=0-100")
	err := validator.Validate(invalid)
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("期望ValidationError, 得到 %v", err)
	}
	if vErr.HeaderName != "Range" {
		t.Errorf("HeaderName = %s, want Range", vErr.HeaderName)
	}
}

func TestHeaderRedactor(t *testing.T) {
	redactor := NewHeaderRedactor()

	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"普通头部不脱敏", "User-Agent", "FontHarvest/1.0", "FontHarvest/1.0"},
		{"Bearer令牌", "Authorization", "Bearer abcdefghijkl", "Bearer ***"},
		{"长密钥保留首尾", "X-Api-Key", "key-1234567890", "key-***7890"},
		{"短密钥完全隐藏", "Cookie", "sid=1", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactor.RedactHeaderValue(tt.header, tt.value)
			if got != tt.want {
				t.Errorf("RedactHeaderValue() = %s, want %s", got, tt.want)
			}
		})
	}

	headers := http.Header{}
	headers.Set("User-Agent", "FontHarvest/1.0")
	headers.Set("Authorization", "Bearer secret")
	got := redactor.RedactToString(headers)
	want := "Authorization: Bearer ***, User-Agent: FontHarvest/1.0"
	if got != want {
		t.Errorf("RedactToString() = %s, want %s", got, want)
	}
}
