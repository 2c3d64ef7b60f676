package pipeline

import (
	"math/rand/v2"
	"sort"

	"github.com/upandey0/eval-sys/internal/models"
)

// sampleSessions picks n sessions uniformly at random while preserving
// retrieval order. Callers guarantee n < len(sessions).
func sampleSessions(sessions []models.Record, n int) []models.Record {
	picked := rand.Perm(len(sessions))[:n]
	sort.Ints(picked)

	out := make([]models.Record, 0, n)
	for _, i := range picked {
		out = append(out, sessions[i])
	}
	return out
}
