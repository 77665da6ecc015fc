package advisor

import (
	"slices"
	"strings"
)

// suggestionBranch 描述关键词 -> 建议角色列表
type suggestionBranch struct {
	Keywords []string
	Roles    []string
}

type suggestionSet struct {
	Branches []suggestionBranch
	Fallback []string
}

// suggestionsByLanguage 启动描述分析的建议表，按界面语言区分
var suggestionsByLanguage = map[string]suggestionSet{
	"en": {
		Branches: []suggestionBranch{
			{
				Keywords: []string{"logistics", "shipping"},
				Roles:    []string{"CEO", "CTO", "COO", "Logistics Specialist", "Financial Expert"},
			},
			{
				Keywords: []string{"app", "platform"},
				Roles:    []string{"CEO", "Lead Software Engineer", "Product Manager", "Marketing Expert", "Finance Specialist"},
			},
		},
		Fallback: []string{"CEO", "Technical Expert", "Marketing Expert", "Finance Specialist"},
	},
	"ar": {
		Branches: []suggestionBranch{
			{
				Keywords: []string{"لوجستية", "نقل"},
				Roles: []string{
					"الرئيس التنفيذي (CEO)",
					"كبير الخبراء التقنيين (CTO)",
					"مسؤول العمليات (COO)",
					"خبير في الخدمات اللوجستية",
					"خبير مالي",
				},
			},
			{
				Keywords: []string{"منصة", "تطبيق"},
				Roles: []string{
					"الرئيس التنفيذي (CEO)",
					"قائد هندسة البرمجيات",
					"مدير المنتج",
					"خبير تسويق",
					"خبير مالي",
				},
			},
		},
		Fallback: []string{"الرئيس التنفيذي (CEO)", "خبير تقني", "خبير تسويق", "مسؤول مالي"},
	},
}

// SuggestRoles 根据公司描述给出建议的顾问名称
// language 不是 ar 时按英文处理
func SuggestRoles(description, language string) []string {
	set, ok := suggestionsByLanguage[language]
	if !ok {
		set = suggestionsByLanguage["en"]
	}

	lower := strings.ToLower(description)
	for _, branch := range set.Branches {
		for _, kw := range branch.Keywords {
			if strings.Contains(lower, kw) {
				return slices.Clone(branch.Roles)
			}
		}
	}
	return slices.Clone(set.Fallback)
}
