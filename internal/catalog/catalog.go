// Package catalog is the process-wide, immutable Role & Template Catalog
// (C1): the set of playable roles, the wolf/good faction split, and the
// pre-defined role compositions keyed by player count.
package catalog

import "github.com/kazerdira/wolverix/backend/internal/models"

// WolfFaction is the derived set of roles whose victory condition is
// eliminating non-wolves.
var WolfFaction = map[models.Role]bool{
	models.RoleWerewolf:      true,
	models.RoleWolfKing:      true,
	models.RoleWhiteWolfKing: true,
	models.RoleWolfBeauty:    true,
	models.RoleSnowWolf:      true,
	models.RoleHiddenWolf:    true,
	models.RoleGargoyle:      true,
}

// GodRoles is the set of non-villager good roles with a night or day
// ability.
var GodRoles = map[models.Role]bool{
	models.RoleSeer:   true,
	models.RoleWitch:  true,
	models.RoleHunter: true,
	models.RoleIdiot:  true,
	models.RoleGuard:  true,
	models.RoleKnight: true,
}

// IsWolf reports whether a role belongs to the wolf faction.
func IsWolf(role models.Role) bool { return WolfFaction[role] }

// IsGod reports whether a role is a god role.
func IsGod(role models.Role) bool { return GodRoles[role] }

// RoleCapabilities is the tagged-enum capability table referenced in the
// source design notes: role abilities are recorded as data (this table)
// rather than inheritance. The game package does not read this table: its
// phase machine and resolution rules check IsWolf and specific roles
// (witch, seer, guard) directly.
type RoleCapabilities struct {
	CanCheck       bool
	CanSave        bool
	CanPoison      bool
	CanGuard       bool
	IsWolf         bool
	IsGod          bool
	VoteWeightBase float64
}

var capabilities = map[models.Role]RoleCapabilities{}

func init() {
	for _, r := range models.AllRoles {
		capabilities[r] = RoleCapabilities{
			IsWolf:         IsWolf(r),
			IsGod:          IsGod(r),
			VoteWeightBase: 1.0,
		}
	}
	set := capabilities[models.RoleSeer]
	set.CanCheck = true
	capabilities[models.RoleSeer] = set

	set = capabilities[models.RoleWitch]
	set.CanSave, set.CanPoison = true, true
	capabilities[models.RoleWitch] = set

	set = capabilities[models.RoleGuard]
	set.CanGuard = true
	capabilities[models.RoleGuard] = set
}

// Capabilities returns the capability row for a role. Unknown roles get the
// zero value (no abilities, neither wolf nor god, vote weight 0).
func Capabilities(role models.Role) RoleCapabilities { return capabilities[role] }

// templates is the immutable, process-wide set of pre-defined role
// compositions. Invariant enforced by the init-time validation below: the
// sum of each template's role counts equals every value in PlayerCounts.
var templates = []models.GameTemplate{
	{
		Name:         "6-player classic",
		PlayerCounts: []int{6},
		Roles: map[models.Role]int{
			models.RoleWerewolf: 2,
			models.RoleVillager: 2,
			models.RoleSeer:     1,
			models.RoleGuard:    1,
		},
		Description: "Two werewolves, two villagers, a seer, and a guard.",
	},
	{
		Name:         "9-player standard",
		PlayerCounts: []int{9},
		Roles: map[models.Role]int{
			models.RoleWerewolf: 3,
			models.RoleVillager: 3,
			models.RoleSeer:     1,
			models.RoleWitch:    1,
			models.RoleHunter:   1,
		},
		Description: "Three werewolves against three villagers and three gods.",
	},
	{
		Name:         "12-player deluxe",
		PlayerCounts: []int{12},
		Roles: map[models.Role]int{
			models.RoleWerewolf: 4,
			models.RoleVillager: 4,
			models.RoleSeer:     1,
			models.RoleWitch:    1,
			models.RoleHunter:   1,
			models.RoleGuard:    1,
		},
		Description: "Four werewolves, four villagers, and four gods.",
	},
}

func init() {
	for _, t := range templates {
		sum := 0
		for _, n := range t.Roles {
			sum += n
		}
		for _, count := range t.PlayerCounts {
			if count != sum {
				panic("catalog: template " + t.Name + " role counts do not sum to player count")
			}
		}
	}
}

// ListTemplates returns every pre-defined role composition.
func ListTemplates() []models.GameTemplate {
	out := make([]models.GameTemplate, len(templates))
	copy(out, templates)
	return out
}

// TemplateByName returns the template with the given name, or nil.
func TemplateByName(name string) *models.GameTemplate {
	for i := range templates {
		if templates[i].Name == name {
			t := templates[i]
			return &t
		}
	}
	return nil
}
