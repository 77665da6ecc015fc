package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weibaohui/startupnavigator/internal/eventbus"
	"github.com/weibaohui/startupnavigator/internal/model"
	"github.com/weibaohui/startupnavigator/internal/session"
)

func TestTeamServiceSetCompanyValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.team.SetCompany(context.Background(), "s1", CompanyInput{Name: "  ", Type: "spaceship"})
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, "error.required.name", ve.Fields["name"])
	assert.Equal(t, "error.invalid.type", ve.Fields["type"])
	assert.Nil(t, env.store.Get("s1").Company)
}

func TestTeamServiceGenerateRolesForEcommerce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var events []eventbus.SessionEventType
	env.bus.Subscribe(eventbus.SessionEventRolesReplaced, func(ctx context.Context, e eventbus.SessionEvent) error {
		events = append(events, e.Type)
		return nil
	})

	_, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyEcommerce})
	require.NoError(t, err)

	state, err := env.team.GenerateRoles(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, state.Roles, 5)

	got := make([]model.RoleCategory, 0, len(state.Roles))
	for _, r := range state.Roles {
		got = append(got, r.Category)
	}
	assert.Equal(t, []model.RoleCategory{
		model.CategoryLeadership, model.CategoryTech, model.CategoryMarketing,
		model.CategoryOperations, model.CategoryFinance,
	}, got)
	assert.False(t, state.Generating)
	assert.Equal(t, []eventbus.SessionEventType{eventbus.SessionEventRolesReplaced}, events)
}

func TestTeamServiceGenerateRolesRequiresCompany(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.team.GenerateRoles(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNoCompany)
}

func TestTeamServiceGenerateRolesConcurrentCallsAgree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanySaaS})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// 并发调用要么加入进行中的生成，要么在其完成后重新生成
			if _, err := env.team.GenerateRoles(ctx, "s1"); err != nil {
				t.Errorf("GenerateRoles failed: %v", err)
			}
		}()
	}
	wg.Wait()

	state := env.team.Get("s1")
	assert.Len(t, state.Roles, 6)
	assert.False(t, state.Generating)
}

func TestTeamServiceReplacingCompanyDropsRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyMedia})
	require.NoError(t, err)
	_, err = env.team.GenerateRoles(ctx, "s1")
	require.NoError(t, err)

	state, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyFintech})
	require.NoError(t, err)
	assert.Empty(t, state.Roles)
	assert.Equal(t, model.CompanyFintech, state.Company.Type)
}

func TestTeamServiceAddCustomMemberDerivesCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyOther})
	require.NoError(t, err)

	role, err := env.team.AddCustomMember(ctx, "s1", MemberInput{
		Title:           "Legal Advisor",
		Description:     "Keeps us compliant",
		Responsibility1: "Review contracts",
	})
	require.NoError(t, err)

	assert.Equal(t, model.CategoryTech, role.Category)
	assert.Equal(t, model.IconLayoutGrid, role.Icon)
	assert.NotEmpty(t, role.ID)
	assert.Equal(t, []string{
		"Review contracts",
		"Provide expert advice on Legal Advisor matters",
		"Help optimize tech strategies and processes",
	}, role.Responsibilities)

	stored, err := env.team.GetRole("s1", role.ID)
	require.NoError(t, err)
	assert.Equal(t, role, stored)
}

func TestTeamServiceAddCustomMemberExplicitCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyOther})
	require.NoError(t, err)

	role, err := env.team.AddCustomMember(ctx, "s1", MemberInput{
		Title:           "Growth Lead",
		Description:     "Drives growth",
		Category:        model.CategoryMarketing,
		Responsibility1: "Run experiments",
		Responsibility2: "Own funnels",
	})
	require.NoError(t, err)
	assert.Equal(t, model.IconBrain, role.Icon)
	assert.Len(t, role.Responsibilities, 4)
}

func TestTeamServiceAddCustomMemberValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyOther})
	require.NoError(t, err)

	_, err = env.team.AddCustomMember(ctx, "s1", MemberInput{Category: "astrology"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"title":           "error.required.title",
		"description":     "error.required.role_description",
		"category":        "error.invalid.category",
		"responsibility1": "error.required.responsibility1",
	}, ve.Fields)
}

func TestTeamServiceAddMemberWithoutCompany(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.team.AddRoleFromLabel(context.Background(), "s1", "Marketing Expert")
	assert.ErrorIs(t, err, ErrNoCompany)
}

func TestTeamServiceSuggestAndApply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	labels, err := env.team.SuggestRoles(ctx, AnalyzeInput{Description: "A logistics marketplace", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CEO", "CTO", "COO", "Logistics Specialist", "Financial Expert"}, labels)

	_, err = env.team.SuggestRoles(ctx, AnalyzeInput{Description: "   "})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "error.required.description", ve.Fields["description"])

	_, err = env.team.ApplySuggestions(ctx, "s1", labels)
	assert.ErrorIs(t, err, ErrNoCompany)

	_, err = env.team.SetCompany(ctx, "s1", CompanyInput{Name: "ShipIt", Type: model.CompanyMarketplace})
	require.NoError(t, err)
	state, err := env.team.ApplySuggestions(ctx, "s1", labels)
	require.NoError(t, err)
	require.Len(t, state.Roles, 5)
	assert.Equal(t, model.CategoryOperations, state.Roles[2].Category)
}

func TestTeamServiceGetRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.team.GetRole("s1", "cto")
	assert.ErrorIs(t, err, ErrNoCompany)

	_, err = env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyTechStartup})
	require.NoError(t, err)
	_, err = env.team.GetRole("s1", "cto")
	assert.ErrorIs(t, err, ErrRoleNotFound)

	_, err = env.team.GenerateRoles(ctx, "s1")
	require.NoError(t, err)
	role, err := env.team.GetRole("s1", "cto")
	require.NoError(t, err)
	assert.Equal(t, "CTO & Technical Advisor", role.Title)
}

func TestTeamServiceClearPublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var cleared []string
	env.bus.Subscribe(eventbus.SessionEventCleared, func(ctx context.Context, e eventbus.SessionEvent) error {
		cleared = append(cleared, e.SessionID)
		return errors.New("purge failed")
	})

	_, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyTechStartup})
	require.NoError(t, err)
	_, err = env.team.GenerateRoles(ctx, "s1")
	require.NoError(t, err)

	// 订阅者失败不影响清空
	require.NoError(t, env.team.Clear(ctx, "s1"))
	assert.Equal(t, []string{"s1"}, cleared)

	state := env.team.Get("s1")
	assert.Nil(t, state.Company)
	assert.Empty(t, state.Roles)
}

func TestTeamServiceSweepIdlePublishesClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var cleared []string
	env.bus.Subscribe(eventbus.SessionEventCleared, func(ctx context.Context, e eventbus.SessionEvent) error {
		cleared = append(cleared, e.SessionID)
		return nil
	})

	_, err := env.team.SetCompany(ctx, "idle", CompanyInput{Name: "Acme", Type: model.CompanyOther})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 1, env.team.SweepIdle(ctx, time.Millisecond))
	assert.Equal(t, []string{"idle"}, cleared)
	assert.Nil(t, env.team.Get("idle").Company)
}

func TestTeamServiceGenerateRolesAfterProfileReplaced(t *testing.T) {
	env := newTestEnv(t)
	gate := newGatedRunner()
	team := NewTeamService(env.cfg, env.store, gate, env.bus)
	ctx := context.Background()

	_, err := team.SetCompany(ctx, "s1", CompanyInput{Name: "A", Type: model.CompanyMedia})
	require.NoError(t, err)

	type result struct {
		state session.State
		err   error
	}
	stale := make(chan result, 1)
	go func() {
		st, err := team.GenerateRoles(ctx, "s1")
		stale <- result{st, err}
	}()
	gate.waitStarted(t, 1)

	// 旧的生成仍在等待时替换公司信息
	_, err = team.SetCompany(ctx, "s1", CompanyInput{Name: "B", Type: model.CompanyEcommerce})
	require.NoError(t, err)

	fresh := make(chan result, 1)
	go func() {
		st, err := team.GenerateRoles(ctx, "s1")
		fresh <- result{st, err}
	}()
	gate.waitStarted(t, 1)
	close(gate.release)

	got := <-fresh
	require.NoError(t, got.err)
	require.Len(t, got.state.Roles, 5)
	assert.Equal(t, model.CompanyEcommerce, got.state.Company.Type)

	old := <-stale
	require.NoError(t, old.err)

	state := team.Get("s1")
	assert.Equal(t, "B", state.Company.Name)
	assert.Len(t, state.Roles, 5)
	assert.False(t, state.Generating)
}

func TestTeamServiceSetCompanyAssignsNewID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyMedia})
	require.NoError(t, err)
	second, err := env.team.SetCompany(ctx, "s1", CompanyInput{Name: "Acme", Type: model.CompanyMedia})
	require.NoError(t, err)

	assert.NotEmpty(t, first.Company.ID)
	assert.NotEqual(t, first.Company.ID, second.Company.ID)
}
