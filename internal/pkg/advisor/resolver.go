package advisor

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/internal/model"
)

const (
	LanguageArabic  = "ar"
	LanguageEnglish = "en"

	// DefaultResponseLanguage 内置回复文本的原始语言
	DefaultResponseLanguage = LanguageArabic
)

// Request 一次咨询请求
type Request struct {
	Role     model.Role
	Query    string
	Language string
}

// RandomSource 可注入的随机源，测试中可固定种子
type RandomSource interface {
	IntN(n int) int
}

// rule (predicate, handler) 对，按顺序求值
type rule struct {
	name    string
	match   func(req Request, lowered string) bool
	respond func(req Request, lowered string) string
}

// ruleSet 由一张规则表编译出的规则集合
type ruleSet struct {
	rules     []rule
	responses map[string]map[string]string
	fallback  FallbackSpec
}

// Resolver 根据角色分类与问题关键词选择预置回复
// 规则集可以通过 Reload 整体替换，正在进行的 Resolve 使用旧规则集
type Resolver struct {
	set atomic.Pointer[ruleSet]

	mu  sync.Mutex
	rnd RandomSource
}

// Option Resolver 配置项
type Option func(*Resolver)

// WithRandomSource 注入随机源
func WithRandomSource(src RandomSource) Option {
	return func(r *Resolver) {
		r.rnd = src
	}
}

// WithSeed 使用固定种子的随机源
func WithSeed(seed uint64) Option {
	return func(r *Resolver) {
		r.rnd = NewSeededSource(seed)
	}
}

// NewSeededSource 创建 PCG 随机源，seed 为 0 时取当前时间
func NewSeededSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// NewResolver 由规则表编译出 Resolver
func NewResolver(table *Table, opts ...Option) *Resolver {
	r := &Resolver{}
	r.set.Store(compileTable(table))
	for _, opt := range opts {
		opt(r)
	}
	if r.rnd == nil {
		r.rnd = NewSeededSource(0)
	}
	return r
}

// Reload 校验并替换规则表
func (r *Resolver) Reload(table *Table) error {
	if err := table.Validate(); err != nil {
		return err
	}
	r.set.Store(compileTable(table))
	klog.V(6).Infof("Resolver: 规则表已更新，规则数=%d", len(table.Rules))
	return nil
}

// Resolve 返回预置回复，永不失败
func (r *Resolver) Resolve(ctx context.Context, req Request) string {
	req.Language = normalizeLanguage(req.Language)
	lowered := strings.ToLower(req.Query)
	set := r.set.Load()

	for _, rl := range set.rules {
		if rl.match(req, lowered) {
			klog.V(6).Infof("Resolve: role=%s category=%s 命中规则 %s", req.Role.ID, req.Role.Category, rl.name)
			return rl.respond(req, lowered)
		}
	}

	klog.V(6).Infof("Resolve: role=%s category=%s 未命中规则，使用兜底回复", req.Role.ID, req.Role.Category)
	return r.fallbackResponse(set, req)
}

func compileTable(table *Table) *ruleSet {
	set := &ruleSet{
		responses: table.Responses,
		fallback:  table.Fallback,
	}
	for _, spec := range table.Rules {
		set.rules = append(set.rules, set.compile(spec))
	}
	return set
}

// compile 把一条规则描述编译为 (predicate, handler)
func (set *ruleSet) compile(spec RuleSpec) rule {
	keywords := lowerAll(spec.Keywords)
	categories := slices.Clone(spec.Categories)

	variants := make([]VariantSpec, 0, len(spec.Variants))
	for _, v := range spec.Variants {
		variants = append(variants, VariantSpec{Keywords: lowerAll(v.Keywords), Response: v.Response})
	}

	return rule{
		name: spec.Name,
		match: func(req Request, lowered string) bool {
			if !slices.Contains(categories, req.Role.Category) {
				return false
			}
			return containsAny(lowered, keywords)
		},
		respond: func(req Request, lowered string) string {
			for _, v := range variants {
				if containsAny(lowered, v.Keywords) {
					return set.render(v.Response, req)
				}
			}
			if key, ok := spec.ResponsesByCategory[req.Role.Category]; ok {
				return set.render(key, req)
			}
			return set.render(spec.Response, req)
		},
	}
}

func (set *ruleSet) render(key string, req Request) string {
	text := pickLanguage(set.responses[key], req.Language)
	return strings.ReplaceAll(strings.TrimRight(text, "\n"), "{title}", req.Role.Title)
}

func (r *Resolver) fallbackResponse(set *ruleSet, req Request) string {
	lines := set.fallback.Lines[req.Role.Category]
	if lines == nil {
		lines = set.fallback.Lines[model.CategoryLeadership]
	}
	candidates := lines[req.Language]
	if len(candidates) == 0 {
		candidates = lines[DefaultResponseLanguage]
	}

	line := ""
	if len(candidates) > 0 {
		r.mu.Lock()
		line = candidates[r.rnd.IntN(len(candidates))]
		r.mu.Unlock()
	}

	prefix := pickLanguage(set.fallback.Prefix, req.Language)
	return strings.ReplaceAll(prefix, "{title}", req.Role.Title) + line
}

// pickLanguage 优先取请求语言，缺失时退回默认语言
func pickLanguage(byLang map[string]string, lang string) string {
	if text, ok := byLang[lang]; ok {
		return text
	}
	return byLang[DefaultResponseLanguage]
}

func normalizeLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case LanguageEnglish:
		return LanguageEnglish
	case LanguageArabic:
		return LanguageArabic
	default:
		return DefaultResponseLanguage
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
