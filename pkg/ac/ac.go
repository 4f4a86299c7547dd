package ac

import (
	"bytes"
	"strings"

	ahocorasick "github.com/anknown/ahocorasick"
)

// 基于Aho-Corasick的消息内容筛查
// 字典来自配置, 进程启动时构建一次自动机, 之后只读

var m *ahocorasick.Machine

// readRunes 将字符串字典转换为rune切片数组, 满足AC自动机的输入格式
func readRunes(dict []string) (runes [][]rune) {
	for _, word := range dict {
		word = strings.ToLower(word) // 大小写不敏感匹配
		l := bytes.TrimSpace([]byte(word))
		runes = append(runes, bytes.Runes(l)) // rune切片支持中文等多字节字符
	}
	return runes
}

// Build 根据屏蔽词字典构建自动机, 空字典清空自动机(即不筛查)
func Build(dict []string) error {
	if len(dict) == 0 {
		m = nil
		return nil
	}
	machine := new(ahocorasick.Machine)
	if err := machine.Build(readRunes(dict)); err != nil {
		return err
	}
	m = machine
	return nil
}

// Screen 对文本做多模式串匹配, 返回是否命中及命中的屏蔽词
func Screen(text string) (bool, []string) {
	if m == nil || len(text) == 0 {
		return false, nil
	}
	hits := m.MultiPatternSearch([]rune(strings.ToLower(text)), false)
	if len(hits) == 0 {
		return false, nil
	}
	words := make([]string, 0, len(hits))
	for _, hit := range hits {
		words = append(words, string(hit.Word))
	}
	return true, words
}
