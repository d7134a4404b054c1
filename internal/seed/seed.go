// Package seed generates demo accounts for local and staging databases.
package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
)

const (
	DefaultCount    = 200
	DefaultPassword = "password123"
	creatorShare    = 0.7
)

var (
	firstNames = []string{
		"John", "Jane", "Michael", "Sarah", "David", "Emily", "James", "Emma",
		"Robert", "Olivia", "William", "Sophia", "Daniel", "Amelia", "Matthew",
		"Harper", "Anthony", "Evelyn", "Thomas", "Grace",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Wilson", "Anderson", "Taylor", "Moore", "Jackson", "Martin", "Lee",
		"Thompson", "White", "Harris", "Clark", "Lewis",
	}
	descriptions = []string{
		"Video Creator", "Photographer", "Content Creator", "Digital Artist",
		"Video Editor", "Creative Director", "Media Producer", "Visual Storyteller",
		"Photo Editor", "Professional Photographer",
	}
	skills    = []domain.Skill{domain.SkillVideo, domain.SkillPhoto}
	locations = []domain.Location{domain.LocationUK, domain.LocationNepal}
)

// MaxCount is the number of distinct "first last" pairs; user names are unique.
var MaxCount = len(firstNames) * len(lastNames)

// Generate builds n users and matching profiles. All accounts share
// passwordHash. The same seed yields the same data apart from ids.
func Generate(n int, passwordHash string, now time.Time, seed uint64) ([]domain.User, []domain.Profile, error) {
	if n <= 0 || n > MaxCount {
		return nil, nil, fmt.Errorf("seed count must be in [1..%d], got %d", MaxCount, n)
	}

	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	users := make([]domain.User, 0, n)
	profiles := make([]domain.Profile, 0, n)

	for i := 0; i < n; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames))%len(lastNames)]

		role := domain.RoleCustomer
		if rnd.Float64() < creatorShare {
			role = domain.RoleCreator
		}

		created := now.Add(-time.Duration(n-i) * time.Minute)
		u, err := domain.NewUser(fmt.Sprintf("user%d@example.com", i+1), passwordHash, role, created,
			domain.WithNames(first, last),
			domain.WithLocation(locations[rnd.IntN(len(locations))]),
		)
		if err != nil {
			return nil, nil, err
		}

		dob := time.Date(1980+rnd.IntN(21), time.Month(1+rnd.IntN(12)), 1+rnd.IntN(28), 0, 0, 0, 0, time.UTC)
		desc := descriptions[rnd.IntN(len(descriptions))]
		skill := skills[rnd.IntN(len(skills))]
		exp := 1 + rnd.IntN(20)
		pic := "https://i.pravatar.cc/256?u=" + u.Email

		u.DateOfBirth = &dob
		u.Description = &desc
		u.PrimarySkill = &skill
		u.Experience = &exp
		u.ProfilePicture = &pic

		p := domain.ProfileFromUser(u)
		p.CreatedAt, p.UpdatedAt = created, created

		users = append(users, *u)
		profiles = append(profiles, *p)
	}

	return users, profiles, nil
}
