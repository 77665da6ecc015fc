package model

import (
	"slices"
	"strings"
)

// RoleCategory 顾问职能分类
type RoleCategory string

const (
	CategoryTech       RoleCategory = "tech"
	CategoryMarketing  RoleCategory = "marketing"
	CategoryFinance    RoleCategory = "finance"
	CategoryOperations RoleCategory = "operations"
	CategoryHR         RoleCategory = "hr"
	CategoryLeadership RoleCategory = "leadership"
)

// RoleCategories 全部职能分类，顺序即关键词匹配优先级
var RoleCategories = []RoleCategory{
	CategoryTech,
	CategoryMarketing,
	CategoryFinance,
	CategoryOperations,
	CategoryHR,
	CategoryLeadership,
}

// IsValid 是否为已知职能分类
func (c RoleCategory) IsValid() bool {
	return slices.Contains(RoleCategories, c)
}

// Icon 顾问图标名
type Icon string

const (
	IconTrophy     Icon = "trophy"
	IconCode       Icon = "code"
	IconLayoutGrid Icon = "layout-grid"
	IconBrain      Icon = "brain"
	IconChartBar   Icon = "chart-bar"
	IconSettings   Icon = "settings"
	IconUsers      Icon = "users"
)

// CategoryIcons 分类对应的默认图标
var CategoryIcons = map[RoleCategory]Icon{
	CategoryTech:       IconCode,
	CategoryMarketing:  IconBrain,
	CategoryFinance:    IconChartBar,
	CategoryOperations: IconSettings,
	CategoryHR:         IconUsers,
	CategoryLeadership: IconTrophy,
}

// IconFor 返回分类图标，未知分类使用 layout-grid
func IconFor(c RoleCategory) Icon {
	if icon, ok := CategoryIcons[c]; ok {
		return icon
	}
	return IconLayoutGrid
}

// Role 顾问角色
type Role struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Category         RoleCategory `json:"category"`
	Responsibilities []string     `json:"responsibilities"`
	Icon             Icon         `json:"icon"`
}

// ShortTitle 去掉 "&" 之后的部分，例如 "CTO & Technical Advisor" -> "CTO"
func (r Role) ShortTitle() string {
	before, _, _ := strings.Cut(r.Title, "&")
	return strings.TrimSpace(before)
}

// Clone 深拷贝，避免共享 Responsibilities 底层数组
func (r Role) Clone() Role {
	r.Responsibilities = slices.Clone(r.Responsibilities)
	return r
}
