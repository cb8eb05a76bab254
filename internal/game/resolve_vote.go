package game

import (
	"github.com/kazerdira/wolverix/backend/internal/catalog"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

// ResolveDayVotes aggregates weighted votes and determines who, if anyone,
// is exiled. A living sheriff's vote carries weight 1.5; a revealed Idiot's
// vote carries weight 0 (having lost eligibility). A unique maximum wins;
// any tie eliminates nobody.
func ResolveDayVotes(state *models.GameState) models.VoteResult {
	weights := map[models.PlayerID]float64{}
	for voter, target := range state.DayVotes {
		p := state.PlayerByID(voter)
		if p == nil || !p.IsAlive {
			continue
		}
		w := 1.0
		if p.IsSheriff {
			w = 1.5
		}
		if p.HasVotedOut {
			w = 0
		}
		weights[target] += w
	}

	return models.VoteResult{
		Eliminated: uniqueMaxWeighted(weights),
		Votes:      copyVotes(state.DayVotes),
	}
}

func uniqueMaxWeighted(weights map[models.PlayerID]float64) models.PlayerID {
	var max float64
	var top models.PlayerID
	tied := false
	for target, w := range weights {
		if w > max {
			max = w
			top = target
			tied = false
		} else if w == max && max > 0 {
			tied = true
		}
	}
	if tied || max == 0 {
		return ""
	}
	return top
}

func copyVotes(votes map[models.PlayerID]models.PlayerID) map[models.PlayerID]models.PlayerID {
	out := make(map[models.PlayerID]models.PlayerID, len(votes))
	for k, v := range votes {
		out[k] = v
	}
	return out
}

// DetermineSpeechOrder computes the circular rotation of living players
// that day discussion follows: anchored at a random player on day 1, or at
// the first living player past the lowest-seat overnight victim
// thereafter; a peaceful night (no deaths) anchors randomly as well.
func DetermineSpeechOrder(state *models.GameState) []models.PlayerID {
	living := state.LivingPlayers()
	if len(living) == 0 {
		return nil
	}

	startIdx := 0
	if state.Day == 1 || len(state.NightlyDeaths) == 0 {
		startIdx = randIntn(len(living))
	} else {
		anchorSeat := -1
		for _, victim := range state.NightlyDeaths {
			p := state.PlayerByID(victim)
			if p == nil || p.Seat == nil {
				continue
			}
			if anchorSeat == -1 || *p.Seat < anchorSeat {
				anchorSeat = *p.Seat
			}
		}
		if anchorSeat == -1 {
			startIdx = randIntn(len(living))
		} else {
			found := false
			for i, p := range living {
				if p.Seat != nil && *p.Seat > anchorSeat {
					startIdx = i
					found = true
					break
				}
			}
			if !found {
				startIdx = 0 // wrap: no living seat greater than the anchor
			}
		}
	}

	order := make([]models.PlayerID, 0, len(living))
	for i := 0; i < len(living); i++ {
		order = append(order, living[(startIdx+i)%len(living)].ID)
	}
	return order
}

// CheckGameOver evaluates victory conditions and, if the game has ended,
// sets state.Winner. Wolves-eliminated is checked ahead of the god/villager
// wipe conditions so that a simultaneous wipe resolves in the good
// faction's favor.
func CheckGameOver(state *models.GameState) bool {
	var livingWolves, livingGods, livingVillagers int
	for _, p := range state.LivingPlayers() {
		switch {
		case catalog.IsWolf(p.Role):
			livingWolves++
		case catalog.IsGod(p.Role):
			livingGods++
		default:
			livingVillagers++
		}
	}

	switch {
	case livingWolves == 0:
		state.Winner = models.FactionGood
		return true
	case livingGods == 0:
		state.Winner = models.FactionWolf
		return true
	case livingVillagers == 0:
		state.Winner = models.FactionWolf
		return true
	default:
		return false
	}
}
