package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weibaohui/startupnavigator/internal/model"
	"github.com/weibaohui/startupnavigator/internal/pkg/advisor"
	"github.com/weibaohui/startupnavigator/internal/service/statemachine"
)

var acme = model.Company{Name: "Acme", Type: model.CompanyEcommerce}

func populated(t *testing.T) State {
	t.Helper()
	s, err := Reduce(State{}, SetCompany(acme))
	require.NoError(t, err)
	s, err = Reduce(s, SetRoles(advisor.SelectRoles(acme.Type)))
	require.NoError(t, err)
	return s
}

func TestReduceLifecycle(t *testing.T) {
	s := State{}
	assert.Equal(t, statemachine.SessionStatusEmpty, s.Status())

	s, err := Reduce(s, SetCompany(acme))
	require.NoError(t, err)
	assert.Equal(t, statemachine.SessionStatusProfile, s.Status())
	assert.Equal(t, "Acme", s.Company.Name)

	s, err = Reduce(s, SetRoles(advisor.SelectRoles(acme.Type)))
	require.NoError(t, err)
	assert.Equal(t, statemachine.SessionStatusPopulated, s.Status())
	assert.Len(t, s.Roles, 5)

	s, err = Reduce(s, Clear())
	require.NoError(t, err)
	assert.Equal(t, statemachine.SessionStatusEmpty, s.Status())
	assert.Nil(t, s.Company)
	assert.Empty(t, s.Roles)
}

func TestReduceRolesRequireCompany(t *testing.T) {
	_, err := Reduce(State{}, SetRoles(advisor.SelectRoles(model.CompanyOther)))
	assert.ErrorIs(t, err, ErrNoCompany)

	_, err = Reduce(State{}, AddRole(advisor.RoleFromLabel("Legal Advisor")))
	assert.ErrorIs(t, err, ErrNoCompany)

	_, err = Reduce(State{}, SetGenerating(true))
	assert.ErrorIs(t, err, ErrNoCompany)
}

func TestReduceReplacingCompanyDropsRoles(t *testing.T) {
	s := populated(t)

	next, err := Reduce(s, SetCompany(model.Company{Name: "Beta", Type: model.CompanyFintech}))
	require.NoError(t, err)
	assert.Equal(t, "Beta", next.Company.Name)
	assert.Empty(t, next.Roles)
	assert.Equal(t, statemachine.SessionStatusProfile, next.Status())

	// 原状态不受影响
	assert.Equal(t, "Acme", s.Company.Name)
	assert.Len(t, s.Roles, 5)
}

func TestReduceAddRole(t *testing.T) {
	s := populated(t)

	custom := advisor.RoleFromLabel("Legal Advisor")
	s, err := Reduce(s, AddRole(custom))
	require.NoError(t, err)
	require.Len(t, s.Roles, 6)
	assert.Equal(t, custom.ID, s.Roles[5].ID)

	_, err = Reduce(s, AddRole(custom))
	assert.ErrorIs(t, err, ErrDuplicateRole)

	bad := advisor.RoleFromLabel("Astrologer")
	bad.Category = "astrology"
	_, err = Reduce(s, AddRole(bad))
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestReduceSetRolesRejectsDuplicates(t *testing.T) {
	s, err := Reduce(State{}, SetCompany(acme))
	require.NoError(t, err)

	roles := advisor.SelectRoles(acme.Type)
	roles = append(roles, roles[0])
	next, err := Reduce(s, SetRoles(roles))
	assert.ErrorIs(t, err, ErrDuplicateRole)
	assert.Empty(t, next.Roles)
}

func TestReduceGenerating(t *testing.T) {
	s, err := Reduce(State{}, SetCompany(acme))
	require.NoError(t, err)

	s, err = Reduce(s, SetGenerating(true))
	require.NoError(t, err)
	assert.True(t, s.Generating)

	_, err = Reduce(s, SetGenerating(true))
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	s, err = Reduce(s, SetRoles(advisor.SelectRoles(acme.Type)))
	require.NoError(t, err)
	assert.False(t, s.Generating)
}

func TestReduceInvalidAction(t *testing.T) {
	_, err := Reduce(State{}, Action{Type: "explode"})
	assert.True(t, errors.Is(err, ErrInvalidAction))

	_, err = Reduce(State{}, Action{Type: ActionSetCompany})
	assert.True(t, errors.Is(err, ErrInvalidAction))
}

func TestStateRoleLookup(t *testing.T) {
	s := populated(t)

	r, ok := s.Role("cfo")
	require.True(t, ok)
	assert.Equal(t, model.CategoryFinance, r.Category)

	_, ok = s.Role("nope")
	assert.False(t, ok)
}

func TestStateCloneIsDeep(t *testing.T) {
	s := populated(t)
	c := s.Clone()

	c.Company.Name = "changed"
	c.Roles[0].Title = "changed"
	c.Roles[0].Responsibilities[0] = "changed"

	assert.Equal(t, "Acme", s.Company.Name)
	assert.NotEqual(t, "changed", s.Roles[0].Title)
	assert.NotEqual(t, "changed", s.Roles[0].Responsibilities[0])
}

func TestReduceSetRolesForChecksProfile(t *testing.T) {
	profile := model.Company{ID: "p1", Name: "Acme", Type: model.CompanyMedia}
	s, err := Reduce(State{}, SetCompany(profile))
	require.NoError(t, err)

	_, err = Reduce(s, SetRolesFor("p0", advisor.SelectRoles(profile.Type)))
	assert.ErrorIs(t, err, ErrProfileChanged)

	s, err = Reduce(s, SetRolesFor("p1", advisor.SelectRoles(profile.Type)))
	require.NoError(t, err)
	assert.Len(t, s.Roles, 4)

	_, err = Reduce(State{}, SetRolesFor("p1", nil))
	assert.ErrorIs(t, err, ErrNoCompany)
}
