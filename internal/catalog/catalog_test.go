package catalog

import (
	"testing"

	"github.com/kazerdira/wolverix/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_RoleCountsSumToPlayerCount(t *testing.T) {
	for _, tpl := range ListTemplates() {
		sum := 0
		for _, n := range tpl.Roles {
			sum += n
		}
		for _, count := range tpl.PlayerCounts {
			assert.Equal(t, count, sum, "template %s", tpl.Name)
		}
	}
}

func TestTemplateByName_UnknownReturnsNil(t *testing.T) {
	assert.Nil(t, TemplateByName("does-not-exist"))
}

func TestTemplateByName_Found(t *testing.T) {
	tpl := TemplateByName("6-player classic")
	require.NotNil(t, tpl)
	assert.Equal(t, 2, tpl.Roles[models.RoleWerewolf])
}

func TestIsWolf_CoversWolfFactionOnly(t *testing.T) {
	assert.True(t, IsWolf(models.RoleWerewolf))
	assert.True(t, IsWolf(models.RoleWolfKing))
	assert.False(t, IsWolf(models.RoleVillager))
	assert.False(t, IsWolf(models.RoleSeer))
}

func TestIsGod_CoversGodRolesOnly(t *testing.T) {
	assert.True(t, IsGod(models.RoleSeer))
	assert.True(t, IsGod(models.RoleWitch))
	assert.False(t, IsGod(models.RoleVillager))
	assert.False(t, IsGod(models.RoleWerewolf))
}

func TestCapabilities_SeerCanCheckOnly(t *testing.T) {
	c := Capabilities(models.RoleSeer)
	assert.True(t, c.CanCheck)
	assert.False(t, c.CanSave)
	assert.False(t, c.CanPoison)
	assert.False(t, c.CanGuard)
}

func TestCapabilities_WitchCanSaveAndPoison(t *testing.T) {
	c := Capabilities(models.RoleWitch)
	assert.True(t, c.CanSave)
	assert.True(t, c.CanPoison)
	assert.False(t, c.CanCheck)
}

func TestCapabilities_UnknownRoleIsZeroValue(t *testing.T) {
	c := Capabilities(models.Role("NOT_A_ROLE"))
	assert.False(t, c.CanCheck)
	assert.False(t, c.IsWolf)
	assert.Equal(t, 0.0, c.VoteWeightBase)
}
