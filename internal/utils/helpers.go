package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadLabelsFromFile 从文件中读取标签列表,每行一个
// 空行和 # 开头的注释行被跳过,重复的标签会原样保留
func ReadLabelsFromFile(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("打开标签文件失败: %w", err)
	}
	defer file.Close()

	labels := make([]string, 0)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取标签文件失败: %w", err)
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("标签文件中没有有效的标签")
	}

	Infof("从文件加载了 %d 个标签", len(labels))
	return labels, nil
}
