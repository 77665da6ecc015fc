package session

import (
	"fmt"

	"github.com/weibaohui/startupnavigator/internal/model"
	"github.com/weibaohui/startupnavigator/internal/service/statemachine"
)

// State 单个会话的可见状态：公司信息与顾问角色列表
type State struct {
	Company    *model.Company `json:"company"`
	Roles      []model.Role   `json:"roles"`
	Generating bool           `json:"generating"`
}

// Status 根据内容推导会话状态
func (s State) Status() statemachine.SessionStatus {
	switch {
	case s.Company == nil:
		return statemachine.SessionStatusEmpty
	case len(s.Roles) == 0:
		return statemachine.SessionStatusProfile
	default:
		return statemachine.SessionStatusPopulated
	}
}

// Role 按 ID 查找角色
func (s State) Role(id string) (model.Role, bool) {
	for _, r := range s.Roles {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return model.Role{}, false
}

// Clone 深拷贝，读者拿到的副本与存储互不影响
func (s State) Clone() State {
	out := State{Generating: s.Generating}
	if s.Company != nil {
		c := *s.Company
		out.Company = &c
	}
	if s.Roles != nil {
		out.Roles = make([]model.Role, len(s.Roles))
		for i, r := range s.Roles {
			out.Roles[i] = r.Clone()
		}
	}
	return out
}

// ActionType 会话动作类型
type ActionType string

const (
	ActionSetCompany    ActionType = "set_company"
	ActionSetRoles      ActionType = "set_roles"
	ActionAddRole       ActionType = "add_role"
	ActionClear         ActionType = "clear"
	ActionSetGenerating ActionType = "set_generating"
)

// Action 会话状态变更动作
type Action struct {
	Type       ActionType
	CompanyID  string // 非空时要求当前公司 ID 一致
	Company    *model.Company
	Roles      []model.Role
	Role       *model.Role
	Generating bool
}

// SetCompany 替换公司信息，已有角色随之丢弃
func SetCompany(c model.Company) Action {
	return Action{Type: ActionSetCompany, Company: &c}
}

// SetRoles 替换整个角色列表
func SetRoles(roles []model.Role) Action {
	return Action{Type: ActionSetRoles, Roles: roles}
}

// SetRolesFor 仅当当前公司仍是 companyID 时替换角色列表
func SetRolesFor(companyID string, roles []model.Role) Action {
	return Action{Type: ActionSetRoles, CompanyID: companyID, Roles: roles}
}

// AddRole 追加一个角色
func AddRole(r model.Role) Action {
	return Action{Type: ActionAddRole, Role: &r}
}

// Clear 清空公司信息与角色
func Clear() Action {
	return Action{Type: ActionClear}
}

// SetGenerating 标记角色生成中
func SetGenerating(generating bool) Action {
	return Action{Type: ActionSetGenerating, Generating: generating}
}

var transitions = statemachine.NewSessionStateMachine()

// Reduce 纯函数：根据动作计算新状态，失败时返回原状态与错误
func Reduce(s State, a Action) (State, error) {
	next, err := apply(s.Clone(), a)
	if err != nil {
		return s, err
	}
	if err := transitions.ValidateTransition(s.Status(), next.Status()); err != nil {
		return s, fmt.Errorf("%s: %w", a.Type, err)
	}
	return next, nil
}

func apply(s State, a Action) (State, error) {
	switch a.Type {
	case ActionSetCompany:
		if a.Company == nil {
			return s, fmt.Errorf("%w: company is nil", ErrInvalidAction)
		}
		c := *a.Company
		return State{Company: &c}, nil

	case ActionSetRoles:
		if s.Company == nil {
			return s, ErrNoCompany
		}
		if a.CompanyID != "" && a.CompanyID != s.Company.ID {
			return s, ErrProfileChanged
		}
		roles := make([]model.Role, 0, len(a.Roles))
		seen := make(map[string]struct{}, len(a.Roles))
		for _, r := range a.Roles {
			if err := checkRole(r, seen); err != nil {
				return s, err
			}
			seen[r.ID] = struct{}{}
			roles = append(roles, r.Clone())
		}
		s.Roles = roles
		s.Generating = false
		return s, nil

	case ActionAddRole:
		if a.Role == nil {
			return s, fmt.Errorf("%w: role is nil", ErrInvalidAction)
		}
		if s.Company == nil {
			return s, ErrNoCompany
		}
		seen := make(map[string]struct{}, len(s.Roles))
		for _, r := range s.Roles {
			seen[r.ID] = struct{}{}
		}
		if err := checkRole(*a.Role, seen); err != nil {
			return s, err
		}
		s.Roles = append(s.Roles, a.Role.Clone())
		return s, nil

	case ActionClear:
		return State{}, nil

	case ActionSetGenerating:
		if !a.Generating {
			s.Generating = false
			return s, nil
		}
		if s.Company == nil {
			return s, ErrNoCompany
		}
		if s.Generating {
			return s, ErrGenerationInProgress
		}
		s.Generating = true
		return s, nil
	}
	return s, fmt.Errorf("%w: %q", ErrInvalidAction, a.Type)
}

func checkRole(r model.Role, seen map[string]struct{}) error {
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category)
	}
	if _, ok := seen[r.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRole, r.ID)
	}
	return nil
}
