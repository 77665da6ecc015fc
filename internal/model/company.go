package model

// CompanyType 公司类型标签
type CompanyType string

const (
	CompanyTechStartup   CompanyType = "tech_startup"
	CompanyEcommerce     CompanyType = "ecommerce"
	CompanyFintech       CompanyType = "fintech"
	CompanySaaS          CompanyType = "saas"
	CompanyHealthcare    CompanyType = "healthcare"
	CompanyEdtech        CompanyType = "edtech"
	CompanyMarketplace   CompanyType = "marketplaceApp"
	CompanyMedia         CompanyType = "media"
	CompanyManufacturing CompanyType = "manufacturing"
	CompanyOther         CompanyType = "other"
)

// Company 公司档案，ID 在每次填写时重新生成
type Company struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        CompanyType `json:"type"`
	Description string      `json:"description,omitempty"`
}

// CompanyTypeOption 公司类型的展示信息
type CompanyTypeOption struct {
	ID          CompanyType `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
}

// CompanyTypes 可选的公司类型（按展示顺序）
var CompanyTypes = []CompanyTypeOption{
	{CompanyTechStartup, "Technology Startup", "Building innovative software or hardware solutions", "💻"},
	{CompanySaaS, "SaaS Company", "Providing software as a service solutions", "☁️"},
	{CompanyEcommerce, "E-Commerce", "Online retail and product sales", "🛒"},
	{CompanyFintech, "FinTech", "Financial technology and services", "💳"},
	{CompanyHealthcare, "Healthcare / MedTech", "Health services or medical technology", "🏥"},
	{CompanyEdtech, "EdTech", "Educational technology and services", "🎓"},
	{CompanyMarketplace, "Marketplace App", "Platform connecting buyers and sellers", "🤝"},
	{CompanyMedia, "Media & Entertainment", "Content, publishing, and entertainment", "🎬"},
	{CompanyManufacturing, "Manufacturing", "Production and manufacturing services", "🏭"},
	{CompanyOther, "Other", "Your company type is not listed above", "🚀"},
}

// IsValid 是否为已知公司类型
func (t CompanyType) IsValid() bool {
	for _, opt := range CompanyTypes {
		if opt.ID == t {
			return true
		}
	}
	return false
}
