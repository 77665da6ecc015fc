package advisor

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/weibaohui/startupnavigator/internal/model"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Table 可外置的回复规则表
type Table struct {
	Rules     []RuleSpec                   `yaml:"rules"`
	Responses map[string]map[string]string `yaml:"responses"` // key -> language -> text
	Fallback  FallbackSpec                 `yaml:"fallback"`
}

// RuleSpec 一条关键词规则
type RuleSpec struct {
	Name                string                        `yaml:"name"`
	Categories          []model.RoleCategory          `yaml:"categories"`
	Keywords            []string                      `yaml:"keywords"`
	Variants            []VariantSpec                 `yaml:"variants"`
	Response            string                        `yaml:"response"`
	ResponsesByCategory map[model.RoleCategory]string `yaml:"responses_by_category"`
}

// VariantSpec 规则命中后的二级关键词细分
type VariantSpec struct {
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

// FallbackSpec 未命中任何规则时的模板
type FallbackSpec struct {
	Prefix map[string]string                          `yaml:"prefix"`
	Lines  map[model.RoleCategory]map[string][]string `yaml:"lines"`
}

// DefaultTable 返回内置规则表
func DefaultTable() *Table {
	t, err := ParseTable(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("内置规则表无效: %v", err))
	}
	return t
}

// LoadTable 从文件读取规则表
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseTable(data)
}

// ParseTable 解析并校验规则表
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate 检查规则引用的回复都存在且有默认语言文本，每个分类都有兜底语句
func (t *Table) Validate() error {
	for _, rule := range t.Rules {
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("rule %q: %w", rule.Name, ErrEmptyKeywords)
		}
		for _, c := range rule.Categories {
			if !c.IsValid() {
				return fmt.Errorf("rule %q: unknown category %q", rule.Name, c)
			}
		}
		if rule.Response == "" && len(rule.ResponsesByCategory) == 0 {
			return fmt.Errorf("rule %q: %w", rule.Name, ErrUnknownResponse)
		}
		if rule.Response == "" {
			// 没有通用回复时，每个分类都必须有专属回复
			for _, c := range rule.Categories {
				if rule.ResponsesByCategory[c] == "" {
					return fmt.Errorf("rule %q: %w: no response for category %s", rule.Name, ErrUnknownResponse, c)
				}
			}
		}

		keys := []string{rule.Response}
		for _, v := range rule.Variants {
			if v.Response == "" {
				return fmt.Errorf("rule %q: %w: empty variant response", rule.Name, ErrUnknownResponse)
			}
			keys = append(keys, v.Response)
		}
		for _, key := range rule.ResponsesByCategory {
			keys = append(keys, key)
		}
		for _, key := range keys {
			if key == "" {
				continue
			}
			byLang, ok := t.Responses[key]
			if !ok {
				return fmt.Errorf("rule %q: %w: %s", rule.Name, ErrUnknownResponse, key)
			}
			if strings.TrimSpace(byLang[DefaultResponseLanguage]) == "" {
				return fmt.Errorf("response %q: %w: %s", key, ErrMissingDefaultLanguage, DefaultResponseLanguage)
			}
		}
	}

	if _, ok := t.Fallback.Prefix[DefaultResponseLanguage]; !ok {
		return fmt.Errorf("fallback prefix: %w: %s", ErrMissingDefaultLanguage, DefaultResponseLanguage)
	}
	for _, c := range model.RoleCategories {
		byLang, ok := t.Fallback.Lines[c]
		if !ok {
			return fmt.Errorf("fallback: %w: %s", ErrMissingFallback, c)
		}
		if len(byLang[DefaultResponseLanguage]) == 0 {
			return fmt.Errorf("fallback %s: %w: %s", c, ErrMissingDefaultLanguage, DefaultResponseLanguage)
		}
		for lang, lines := range byLang {
			if len(lines) == 0 {
				return fmt.Errorf("fallback %s/%s: %w", c, lang, ErrMissingFallback)
			}
			for _, line := range lines {
				if strings.TrimSpace(line) == "" {
					return fmt.Errorf("fallback %s/%s: %w: empty line", c, lang, ErrMissingFallback)
				}
			}
		}
	}
	return nil
}
