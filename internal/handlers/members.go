package handlers

import "github.com/KnowYourLines/blabhear-backend-archive-3/internal/models"

// displayNames собирает имена участников для события members
func displayNames(members []models.User) []string {
	names := make([]string, len(members))
	for i, member := range members {
		names[i] = member.DisplayName
	}
	return names
}
