package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RecoveryAshes/FontHarvest/internal/models"
)

func sampleCollection() *models.Collection {
	c := models.NewCollection()
	c.Add(&models.FontRecord{
		Name:         "Black & White",
		DownloadLink: "https://www.1001fonts.com/download/black-white.zip",
		Tags:         []string{"sans-serif", "bold"},
		UsageRights:  models.UsageCommercial,
		Files:        []string{"Black & White_BlackWhite.ttf"},
		CustomTags:   []string{},
	})
	c.Add(&models.FontRecord{
		Name:         "Roboto",
		DownloadLink: "https://www.1001fonts.com/download/roboto.zip",
		UsageRights:  models.UsagePersonal,
		Files:        []string{"Roboto_Roboto-Regular.ttf", "Roboto_LICENSE.txt"},
	})
	return c
}

// readCollection 读取已保存的集合文件
func readCollection(t *testing.T, reporter *Reporter) *models.Collection {
	t.Helper()
	data, err := os.ReadFile(reporter.CollectionPath())
	if err != nil {
		t.Fatalf("读取集合文件失败: %v", err)
	}
	collection := models.NewCollection()
	if err := json.Unmarshal(data, collection); err != nil {
		t.Fatalf("解析集合文件失败: %v", err)
	}
	return collection
}

func TestReporter_SaveCollection(t *testing.T) {
	dir := t.TempDir()
	reporter := NewReporter(dir)

	if err := reporter.SaveCollection(sampleCollection()); err != nil {
		t.Fatalf("SaveCollection() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "collection.json"))
	if err != nil {
		t.Fatalf("读取集合文件失败: %v", err)
	}

	var raw map[string][]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("集合文件不是有效JSON: %v", err)
	}
	if len(raw["fonts"]) != 2 {
		t.Fatalf("fonts数组长度错误: 期望 2, 得到 %d", len(raw["fonts"]))
	}

	text := string(data)
	if !strings.Contains(text, "\n    \"fonts\": [") {
		t.Errorf("期望4空格缩进: %s", text)
	}
	if !strings.Contains(text, `"font_name": "Black & White"`) {
		t.Errorf("& 不应被转义: %s", text)
	}
	if !strings.Contains(text, `"custom_tags": []`) {
		t.Errorf("custom_tags 应为空数组: %s", text)
	}
}

func TestReporter_SaveCollectionOverwrites(t *testing.T) {
	dir := t.TempDir()
	reporter := NewReporter(dir)

	if err := reporter.SaveCollection(sampleCollection()); err != nil {
		t.Fatalf("SaveCollection() error = %v", err)
	}

	second := models.NewCollection()
	second.Add(&models.FontRecord{Name: "Lato", UsageRights: models.UsagePersonal})
	if err := reporter.SaveCollection(second); err != nil {
		t.Fatalf("SaveCollection() error = %v", err)
	}

	loaded := readCollection(t, reporter)
	if loaded.Len() != 1 || loaded.Fonts[0].Name != "Lato" {
		t.Errorf("第二次保存应覆盖第一次结果, 得到 %d 个字体", loaded.Len())
	}
}

func TestReporter_SaveNilCollection(t *testing.T) {
	dir := t.TempDir()
	reporter := NewReporter(dir)

	if err := reporter.SaveCollection(nil); err != nil {
		t.Fatalf("SaveCollection() error = %v", err)
	}

	loaded := readCollection(t, reporter)
	if loaded.Len() != 0 {
		t.Errorf("期望空集合, 得到 %d 个字体", loaded.Len())
	}
}

func TestReporter_SaveCollectionMissingDir(t *testing.T) {
	reporter := NewReporter(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := reporter.SaveCollection(sampleCollection()); err == nil {
		t.Error("目录不存在时应该返回错误")
	}
}
