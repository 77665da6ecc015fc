package advisor

import "github.com/weibaohui/startupnavigator/internal/model"

// 角色模板池，所有公司类型的默认团队都从这里取
var (
	roleCEO = model.Role{
		ID:          "ceo",
		Title:       "CEO & Strategic Advisor",
		Description: "Provides strategic direction and leadership for your business",
		Category:    model.CategoryLeadership,
		Responsibilities: []string{
			"Strategic planning",
			"Company vision and mission",
			"Leadership guidance",
			"Decision making frameworks",
		},
		Icon: model.IconTrophy,
	}
	roleCTO = model.Role{
		ID:          "cto",
		Title:       "CTO & Technical Advisor",
		Description: "Guides technology decisions and development strategy",
		Category:    model.CategoryTech,
		Responsibilities: []string{
			"Technical architecture",
			"Technology selection",
			"Development processes",
			"Technical team structure",
		},
		Icon: model.IconCode,
	}
	roleProductManager = model.Role{
		ID:          "product_manager",
		Title:       "Product Manager",
		Description: "Determines product features and roadmap based on user needs",
		Category:    model.CategoryTech,
		Responsibilities: []string{
			"Product roadmap",
			"Feature prioritization",
			"User research",
			"Product market fit",
		},
		Icon: model.IconLayoutGrid,
	}
	roleCMO = model.Role{
		ID:          "cmo",
		Title:       "CMO & Marketing Strategist",
		Description: "Creates and executes marketing strategies to drive growth",
		Category:    model.CategoryMarketing,
		Responsibilities: []string{
			"Marketing strategy",
			"Brand development",
			"Growth campaigns",
			"Customer acquisition",
		},
		Icon: model.IconBrain,
	}
	roleCFO = model.Role{
		ID:          "cfo",
		Title:       "CFO & Financial Advisor",
		Description: "Manages financial planning, fundraising and cash management",
		Category:    model.CategoryFinance,
		Responsibilities: []string{
			"Financial planning",
			"Fundraising strategy",
			"Cash flow management",
			"Financial reporting",
		},
		Icon: model.IconChartBar,
	}
	roleCOO = model.Role{
		ID:          "coo",
		Title:       "COO & Operations Advisor",
		Description: "Optimizes business operations and processes",
		Category:    model.CategoryOperations,
		Responsibilities: []string{
			"Operational efficiency",
			"Process optimization",
			"Supply chain management",
			"Vendor relations",
		},
		Icon: model.IconSettings,
	}
	roleCHRO = model.Role{
		ID:          "chro",
		Title:       "CHRO & People Advisor",
		Description: "Develops HR strategy and manages people operations",
		Category:    model.CategoryHR,
		Responsibilities: []string{
			"Hiring strategy",
			"Team culture",
			"Compensation planning",
			"Performance management",
		},
		Icon: model.IconUsers,
	}
)

// defaultTeam 未知公司类型使用的团队组成
var defaultTeam = []model.Role{roleCEO, roleCTO, roleCMO, roleCFO}

// teamByCompanyType 公司类型 -> 团队组成（有序）
var teamByCompanyType = map[model.CompanyType][]model.Role{
	model.CompanyTechStartup:   {roleCEO, roleCTO, roleProductManager, roleCMO, roleCFO, roleCHRO},
	model.CompanySaaS:          {roleCEO, roleCTO, roleProductManager, roleCMO, roleCFO, roleCOO},
	model.CompanyEcommerce:     {roleCEO, roleCTO, roleCMO, roleCOO, roleCFO},
	model.CompanyFintech:       {roleCEO, roleCTO, roleProductManager, roleCFO, roleCOO, roleCHRO},
	model.CompanyHealthcare:    {roleCEO, roleCTO, roleCOO, roleCFO, roleCHRO},
	model.CompanyEdtech:        {roleCEO, roleCTO, roleProductManager, roleCMO, roleCFO},
	model.CompanyMarketplace:   {roleCEO, roleCTO, roleProductManager, roleCMO, roleCOO},
	model.CompanyMedia:         {roleCEO, roleCTO, roleCMO, roleCFO},
	model.CompanyManufacturing: {roleCEO, roleCTO, roleCOO, roleCFO, roleCHRO},
	model.CompanyOther:         defaultTeam,
}
