package composer

import (
	"strings"

	"github.com/jonathan/speak-out/internal/types"
)

// Title returns the honorific for a candidate's role.
func Title(c types.Candidate) string {
	switch c.Role {
	case types.RoleSenator:
		return "Senator"
	case types.RoleMP:
		return "Hon."
	default:
		return ""
	}
}

// Addressee is the candidate name prefixed with its title, if any.
func Addressee(c types.Candidate) string {
	return strings.TrimSpace(Title(c) + " " + c.Name)
}

// RoleDescription describes what the candidate is, e.g. "the elected Member
// for Wentworth" or "a prospective Senate candidate for Victoria".
func RoleDescription(c types.Candidate) string {
	division := orDefault(c.Division, areaFallback)
	state := orDefault(c.State, stateFallback)

	switch c.Chamber {
	case types.ChamberHouse:
		if c.IsSitting() {
			return "the elected Member for " + division
		}
		return "a prospective candidate for the House of Representatives seat of " + division
	case types.ChamberSenate:
		if c.IsSitting() {
			return "an elected Senator for " + state
		}
		return "a prospective Senate candidate for " + state
	default:
		place := c.Division
		if place == "" {
			place = c.State
		}
		return "a representative for " + orDefault(place, areaFallback)
	}
}

// roleSentence names the candidate's role and party.
func roleSentence(c types.Candidate) string {
	party := strings.TrimSpace(c.Party)
	var affiliation string
	switch {
	case party == "":
	case strings.EqualFold(party, "independent"):
		affiliation = " and an independent voice"
	default:
		affiliation = " representing the " + party
	}
	return "As " + RoleDescription(c) + affiliation + ", you are well placed to act on this issue."
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
