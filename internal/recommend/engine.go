package recommend

import (
	"math"
	"sort"
	"strings"
	"time"
)

// recentWindow caps how much history feeds recency-weighted stats.
const recentWindow = 7

const inactivityDecay = 10 * 24 * time.Hour

var nowFn = time.Now

// historyStats are derived once per ranking call from the recent window.
// The "All" averages zero-fill unset effort/enjoyment across the whole
// window; the "Reflected" averages divide by reflected entries only. Both
// treat an unset numeric field as 0, matching the original app.
type historyStats struct {
	recent             []HikeSession
	reflectedCount     int
	avgEffortAll       float64
	avgEnjoyAll        float64
	avgEffortReflected float64
	avgEnjoyReflected  float64
}

func computeStats(history []HikeSession) historyStats {
	recent := history
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}

	stats := historyStats{recent: recent}
	var effortSum, enjoySum float64
	for _, h := range recent {
		effortSum += float64(h.Effort)
		enjoySum += float64(h.Enjoyment)
		if h.HasReflection() {
			stats.reflectedCount++
		}
	}
	if len(recent) > 0 {
		stats.avgEffortAll = effortSum / float64(len(recent))
		stats.avgEnjoyAll = enjoySum / float64(len(recent))
	}
	if stats.reflectedCount > 0 {
		stats.avgEffortReflected = effortSum / float64(stats.reflectedCount)
		stats.avgEnjoyReflected = enjoySum / float64(stats.reflectedCount)
	}
	return stats
}

// ReadinessScore derives a 1-4 capacity estimate from the profile and the
// most recent hikes. History must be ordered newest first.
func ReadinessScore(p Profile, history []HikeSession) int {
	score := 1
	switch p.WeeklyActivity {
	case "2-3":
		score++
	case "4+":
		score += 2
	}
	if p.Pace == "fast" {
		score++
	}
	if p.DistanceBand == "6-10" {
		score++
	}

	stats := computeStats(history)
	if len(stats.recent) >= 2 {
		score++
	}
	if len(stats.recent) >= 5 {
		score++
	}
	if len(stats.recent) > 0 {
		last := time.UnixMilli(stats.recent[0].StartedAt)
		if nowFn().Sub(last) > inactivityDecay {
			score--
		}
	}

	if stats.reflectedCount >= 2 {
		if stats.avgEnjoyReflected >= 7 {
			score++
		}
		if stats.avgEffortReflected <= 7 {
			score++
		}
		if stats.avgEffortReflected >= 9 {
			score--
		}
	}

	return clamp(score, 1, 4)
}

// MaxDifficultyAllowed gates trail difficulty by readiness; Strenuous
// unlocks only at max readiness.
func MaxDifficultyAllowed(readiness int) int {
	switch {
	case readiness <= 2:
		return 1
	case readiness == 3:
		return 2
	}
	return 3
}

// progressionCap allows one difficulty tier above the hardest trail hiked
// in the recent window. Entries whose trail id is missing or unknown score
// 0 and do not count as observed; no observations leave the cap open.
func progressionCap(history []HikeSession, catalog []Trail) int {
	byID := make(map[string]Trail, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}

	recent := history
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}

	observed := 0
	for _, h := range recent {
		if t, ok := byID[h.TrailID]; ok && int(t.Difficulty) > observed {
			observed = int(t.Difficulty)
		}
	}
	if observed == 0 {
		return 3
	}
	return clamp(observed+1, 1, 3)
}

func targetDistance(band string) float64 {
	switch band {
	case "1-2":
		return 2
	case "6-10":
		return 7
	}
	return 4
}

func fitScore(t Trail, maxDiff int, target float64, p Profile, stats historyStats, lastTrailID string) float64 {
	score := float64(maxDiff-int(t.Difficulty)) * 5
	score -= math.Abs(t.DistanceMi-target) * 2
	if t.DistanceMi > target*1.4 {
		score -= 8
	}
	if t.DistanceMi < target*0.6 {
		score -= 4
	}
	if p.WeeklyActivity == "0-1" {
		score -= math.Max(0, (t.EstTimeMin-90)/10)
	}
	if stats.avgEffortAll >= 8 {
		score -= float64(t.Difficulty) * 2
		score -= math.Max(0, (t.EstTimeMin-60)/10)
	}
	if lastTrailID != "" && lastTrailID == t.ID {
		score -= 2
	}
	return score
}

func buildWhy(t Trail, maxDiff int, target float64, stats historyStats) string {
	var clauses []string

	switch {
	case maxDiff == 1:
		clauses = append(clauses, "Keeping it easy while you build momentum.")
	case t.Difficulty == Moderate && maxDiff == 2:
		clauses = append(clauses, "Moderate trails are unlocked for you.")
	case t.Difficulty == Strenuous && maxDiff == 3:
		clauses = append(clauses, "You're ready for a strenuous challenge.")
	case t.Difficulty == Easy:
		clauses = append(clauses, "A comfortable option at your level.")
	}

	switch {
	case math.Abs(t.DistanceMi-target) <= 0.7:
		clauses = append(clauses, "Matches your typical distance.")
	case t.DistanceMi < target:
		clauses = append(clauses, "A bit shorter to keep the effort manageable.")
	default:
		clauses = append(clauses, "A step up in distance.")
	}

	if stats.avgEffortAll >= 8 && int(t.Difficulty) >= 2 {
		clauses = append(clauses, "Recent efforts were high, so take this one steady.")
	} else if stats.avgEnjoyAll >= 7 {
		clauses = append(clauses, "You've been enjoying hikes like this.")
	}

	return strings.Join(clauses, " ")
}

// RankTrails filters the catalog to the allowed difficulty ceiling and
// orders it by fit, most recommended first. Ties keep catalog order.
func RankTrails(p Profile, history []HikeSession, catalog []Trail) []RankedTrail {
	maxDiff := MaxDifficultyAllowed(ReadinessScore(p, history))
	if ceiling := progressionCap(history, catalog); ceiling < maxDiff {
		maxDiff = ceiling
	}

	stats := computeStats(history)
	target := targetDistance(p.DistanceBand)
	lastTrailID := ""
	if len(history) > 0 {
		lastTrailID = history[0].TrailID
	}

	type scored struct {
		trail RankedTrail
		score float64
	}
	var candidates []scored
	for _, t := range catalog {
		if int(t.Difficulty) > maxDiff {
			continue
		}
		candidates = append(candidates, scored{
			trail: RankedTrail{Trail: t, Why: buildWhy(t, maxDiff, target, stats)},
			score: fitScore(t, maxDiff, target, p, stats, lastTrailID),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	ranked := make([]RankedTrail, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, c.trail)
	}
	return ranked
}

// PickTrails returns the top three ranked trails.
func PickTrails(p Profile, history []HikeSession, catalog []Trail) []RankedTrail {
	ranked := RankTrails(p, history, catalog)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
