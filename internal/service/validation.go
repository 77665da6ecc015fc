package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/weibaohui/startupnavigator/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误里使用 json 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("company_type", func(fl validator.FieldLevel) bool {
		return model.CompanyType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("role_category", func(fl validator.FieldLevel) bool {
		return model.RoleCategory(fl.Field().String()).IsValid()
	})
	return v
}

// validateStruct 校验输入并把 validator 的错误转换为 ValidationError，
// 文案 key 取自字段的 msg 标签
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	t := reflect.TypeOf(in)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := "error." + fe.Tag() + "." + fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if msg := sf.Tag.Get("msg"); msg != "" {
				key = msg
			}
		}
		fields[fe.Field()] = key
	}
	return &ValidationError{Fields: fields}
}

// CompanyInput 公司信息表单
type CompanyInput struct {
	Name        string            `json:"name" form:"name" validate:"required" msg:"error.required.name"`
	Type        model.CompanyType `json:"type" form:"type" validate:"company_type" msg:"error.invalid.type"`
	Description string            `json:"description" form:"description"`
}

func (in *CompanyInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = model.CompanyType(strings.TrimSpace(string(in.Type)))
	in.Description = strings.TrimSpace(in.Description)
}

// MemberInput 自定义团队成员表单
type MemberInput struct {
	Title           string             `json:"title" form:"title" validate:"required" msg:"error.required.title"`
	Description     string             `json:"description" form:"description" validate:"required" msg:"error.required.role_description"`
	Category        model.RoleCategory `json:"category" form:"category" validate:"omitempty,role_category" msg:"error.invalid.category"`
	Responsibility1 string             `json:"responsibility1" form:"responsibility1" validate:"required" msg:"error.required.responsibility1"`
	Responsibility2 string             `json:"responsibility2" form:"responsibility2"`
}

func (in *MemberInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = model.RoleCategory(strings.TrimSpace(string(in.Category)))
	in.Responsibility1 = strings.TrimSpace(in.Responsibility1)
	in.Responsibility2 = strings.TrimSpace(in.Responsibility2)
}

// AnalyzeInput 创业描述分析表单
type AnalyzeInput struct {
	Description string `json:"description" form:"description" validate:"required" msg:"error.required.description"`
	Language    string `json:"language" form:"language"`
}

// ConsultInput 咨询问题表单
type ConsultInput struct {
	Query string `json:"query" form:"query" validate:"required" msg:"error.required.query"`
}
