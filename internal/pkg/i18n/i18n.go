package i18n

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/internal/model"
)

const (
	English = "en"
	Arabic  = "ar"

	DirLTR = "ltr"
	DirRTL = "rtl"
)

//go:embed messages.yaml
var defaultMessages []byte

// Bundle 一种语言的界面文案
type Bundle struct {
	Direction string              `yaml:"direction" json:"direction"`
	Messages  map[string]string   `yaml:"messages" json:"messages"`
	Examples  map[string][]string `yaml:"examples" json:"examples"`
}

// Catalog 多语言文案目录
type Catalog struct {
	fallback string
	bundles  map[string]*Bundle
	matcher  language.Matcher
	tags     []string
}

// New 从内置 messages.yaml 构建目录，fallback 为找不到语言时使用的语言
func New(fallback string) (*Catalog, error) {
	return Parse(defaultMessages, fallback)
}

// Parse 解析 YAML 文案
func Parse(data []byte, fallback string) (*Catalog, error) {
	bundles := make(map[string]*Bundle)
	if err := yaml.Unmarshal(data, &bundles); err != nil {
		return nil, fmt.Errorf("parse i18n messages: %w", err)
	}
	if _, ok := bundles[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no messages", fallback)
	}

	tags := make([]string, 0, len(bundles))
	for tag := range bundles {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	// fallback 放首位，匹配失败时 Matcher 返回第一个
	sort.SliceStable(tags, func(i, j int) bool { return tags[i] == fallback && tags[j] != fallback })

	supported := make([]language.Tag, 0, len(tags))
	for _, tag := range tags {
		supported = append(supported, language.Make(tag))
	}

	return &Catalog{
		fallback: fallback,
		bundles:  bundles,
		matcher:  language.NewMatcher(supported),
		tags:     tags,
	}, nil
}

// Languages 返回支持的语言代码，fallback 排在最前
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.tags...)
}

// Supported 判断语言是否存在
func (c *Catalog) Supported(lang string) bool {
	_, ok := c.bundles[lang]
	return ok
}

// Default 返回默认语言
func (c *Catalog) Default() string {
	return c.fallback
}

// Negotiate 根据 Accept-Language 头选出支持的语言
func (c *Catalog) Negotiate(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return c.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		klog.V(6).Infof("无法解析 Accept-Language %q: %v", acceptLanguage, err)
		return c.fallback
	}
	_, index, confidence := c.matcher.Match(prefs...)
	if confidence == language.No {
		return c.fallback
	}
	return c.tags[index]
}

// Bundle 返回语言文案，未知语言使用 fallback
func (c *Catalog) Bundle(lang string) *Bundle {
	if b, ok := c.bundles[lang]; ok {
		return b
	}
	return c.bundles[c.fallback]
}

// Dir 返回文字方向
func (c *Catalog) Dir(lang string) string {
	if d := c.Bundle(lang).Direction; d != "" {
		return d
	}
	return DirLTR
}

// T 翻译 key，args 非空时按 fmt 格式化；缺失时回退到 fallback 语言，再回退到 key 本身
func (c *Catalog) T(lang, key string, args ...any) string {
	msg, ok := c.Bundle(lang).Messages[key]
	if !ok {
		msg, ok = c.bundles[c.fallback].Messages[key]
	}
	if !ok {
		klog.V(6).Infof("缺少文案: lang=%s, key=%s", lang, key)
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Examples 返回某类角色的示例问题
func (c *Catalog) Examples(lang string, category model.RoleCategory) []string {
	examples := c.Bundle(lang).Examples
	if list, ok := examples[string(category)]; ok {
		return append([]string(nil), list...)
	}
	return append([]string(nil), examples["default"]...)
}
