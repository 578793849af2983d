package models

import (
	"errors"
	"testing"
)

func TestCliHeaders_Parse(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		header  string
		want    string
		wantErr bool
	}{
		{"名称前后空格", []string{"  User-Agent  : Mozilla/5.0"}, "User-Agent", "Mozilla/5.0", false},
		{"值前后空格", []string{"User-Agent:  Mozilla/5.0  "}, "User-Agent", "Mozilla/5.0", false},
		{"值中间的空格保留", []string{"X-Custom: value with spaces"}, "X-Custom", "value with spaces", false},
		{"值中包含冒号", []string{"Referer: https://www.1001fonts.com:443/"}, "Referer", "https://www.1001fonts.com:443/", false},
		{"多个冒号按第一个分割", []string{"Authorization: Bearer: token"}, "Authorization", "Bearer: token", false},
		{"空值", []string{"X-Empty:"}, "X-Empty", "", false},
		{"名称规范化", []string{"accept-language: en"}, "Accept-Language", "en", false},
		{"后者覆盖前者", []string{"Accept: a", "Accept: b"}, "Accept", "b", false},
		{"缺少冒号", []string{"User-Agent Mozilla/5.0"}, "", "", true},
		{"缺少名称", []string{":value"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, err := CliHeaders(tt.input).Parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := headers.Get(tt.header); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}

	t.Run("空列表", func(t *testing.T) {
		headers, err := CliHeaders(nil).Parse()
		if err != nil || len(headers) != 0 {
			t.Errorf("Parse() = %v, %v", headers, err)
		}
	})
}

func TestConfigError_Unwrap(t *testing.T) {
	cause := errors.New("yaml: line 3")
	err := &ConfigError{FilePath: "configs/config.yaml", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("ConfigError 应该可以展开到原始错误")
	}
}
