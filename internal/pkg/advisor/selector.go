package advisor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/internal/model"
)

// SelectRoles 按公司类型返回默认顾问团队
// 未知类型回退到默认团队；返回的切片为副本，调用方可以随意修改
func SelectRoles(companyType model.CompanyType) []model.Role {
	team, ok := teamByCompanyType[companyType]
	if !ok {
		klog.V(6).Infof("SelectRoles: 未知公司类型 %q，使用默认团队", companyType)
		team = defaultTeam
	}

	roles := make([]model.Role, 0, len(team))
	for _, r := range team {
		roles = append(roles, r.Clone())
	}
	return roles
}

// keyword 关键词；Word 为 true 时只按整词匹配（用于 cto、hr 这类缩写）
type keyword struct {
	Text string
	Word bool
}

// categoryKeywords 自由文本 -> 职能分类的关键词组，顺序即优先级
var categoryKeywords = []struct {
	Category model.RoleCategory
	Keywords []keyword
}{
	{model.CategoryTech, []keyword{
		{"cto", true}, {"tech", false}, {"engineer", false}, {"developer", false},
		{"software", false}, {"product", false}, {"code", false}, {"data", false},
		{"تقني", false}, {"برمج", false}, {"مهندس", false}, {"منتج", false}, {"مطور", false},
	}},
	{model.CategoryMarketing, []keyword{
		{"cmo", true}, {"marketing", false}, {"brand", false}, {"growth", false},
		{"sales", false}, {"تسويق", false}, {"مبيعات", false}, {"علامة تجارية", false},
	}},
	{model.CategoryFinance, []keyword{
		{"cfo", true}, {"finance", false}, {"financial", false}, {"accounting", false},
		{"investment", false}, {"مالي", false}, {"محاسب", false}, {"استثمار", false},
	}},
	{model.CategoryOperations, []keyword{
		{"coo", true}, {"operations", false}, {"logistics", false}, {"supply", false},
		{"process", false}, {"عمليات", false}, {"لوجست", false}, {"إمداد", false},
	}},
	{model.CategoryHR, []keyword{
		{"hr", true}, {"chro", true}, {"human resources", false}, {"people", false},
		{"talent", false}, {"recruit", false}, {"موارد بشرية", false}, {"توظيف", false},
	}},
	{model.CategoryLeadership, []keyword{
		{"ceo", true}, {"chief executive", false}, {"founder", false}, {"president", false},
		{"strategy", false}, {"رئيس", false}, {"مؤسس", false}, {"استراتيج", false},
	}},
}

// DeriveRoleFromText 根据角色名推断职能分类与图标
// 按 tech → marketing → finance → operations → hr → leadership 的顺序匹配，
// 都不命中时返回 tech / layout-grid
func DeriveRoleFromText(label string) (model.RoleCategory, model.Icon) {
	lower := strings.ToLower(label)
	words := splitWords(lower)

	for _, group := range categoryKeywords {
		for _, kw := range group.Keywords {
			if matchKeyword(lower, words, kw) {
				return group.Category, model.IconFor(group.Category)
			}
		}
	}
	return model.CategoryTech, model.IconLayoutGrid
}

// RoleFromLabel 由自由文本角色名生成完整的顾问角色
func RoleFromLabel(label string) model.Role {
	title := strings.TrimSpace(label)
	category, icon := DeriveRoleFromText(title)
	return model.Role{
		ID:          uuid.NewString(),
		Title:       title,
		Description: fmt.Sprintf("Advises your team as %s", title),
		Category:    category,
		Responsibilities: []string{
			fmt.Sprintf("Provide expert advice on %s matters", title),
			fmt.Sprintf("Help optimize %s strategies and processes", category),
		},
		Icon: icon,
	}
}

func matchKeyword(lower string, words map[string]struct{}, kw keyword) bool {
	if kw.Word {
		_, ok := words[kw.Text]
		return ok
	}
	return strings.Contains(lower, kw.Text)
}

func splitWords(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		words[f] = struct{}{}
	}
	return words
}
