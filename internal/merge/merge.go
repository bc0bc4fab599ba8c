// Package merge reconciles a locally-held AppState document against the copy
// last pushed to the remote store. It runs exactly once per established
// session, before any further push, and is a one-shot two-way union: no
// version vectors, no three-way merge.
package merge

import "github.com/lockinhq/lockin/internal/models"

// States merges local into remote and returns the single authoritative
// document.
//
// A fresh install (no logs, progress, or tasks) adopts the remote document
// wholesale, keeping only an explicitly set local theme. Otherwise logs and
// tasks are unioned by ID with remote entries first, progress is unioned by
// composite key keeping the status further along the cycle, and scalar
// preferences come from remote with local theme preserved when set.
func States(local, remote models.AppState) models.AppState {
	if local.Empty() {
		merged := remote
		if local.Theme != "" {
			merged.Theme = local.Theme
		}
		return normalize(merged)
	}

	merged := remote

	merged.Logs = unionLogs(remote.Logs, local.Logs)
	merged.Tasks = unionTasks(remote.Tasks, local.Tasks)
	merged.Progress = unionProgress(remote.Progress, local.Progress)

	if local.Theme != "" {
		merged.Theme = local.Theme
	}

	return normalize(merged)
}

func unionLogs(remote, local []models.FocusLog) []models.FocusLog {
	seen := make(map[string]bool, len(remote))
	out := make([]models.FocusLog, 0, len(remote)+len(local))
	for _, l := range remote {
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	for _, l := range local {
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	return out
}

func unionTasks(remote, local []models.Task) []models.Task {
	seen := make(map[string]bool, len(remote))
	out := make([]models.Task, 0, len(remote)+len(local))
	for _, t := range remote {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	for _, t := range local {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

func unionProgress(remote, local []models.ChapterProgress) []models.ChapterProgress {
	index := make(map[models.ProgressKey]int, len(remote))
	out := make([]models.ChapterProgress, 0, len(remote)+len(local))
	for _, p := range remote {
		if _, dup := index[p.Key()]; dup {
			continue
		}
		index[p.Key()] = len(out)
		out = append(out, p)
	}
	for _, p := range local {
		i, ok := index[p.Key()]
		if !ok {
			index[p.Key()] = len(out)
			out = append(out, p)
			continue
		}
		out[i] = furtherAlong(out[i], p)
	}
	return out
}

// furtherAlong keeps whichever entry's status is later in the fixed cycle.
// Ties keep the remote entry. The winner keeps its notes, but never discards
// the only notes present.
func furtherAlong(remote, local models.ChapterProgress) models.ChapterProgress {
	winner := remote
	loser := local
	if models.CycleIndex(local.Status) > models.CycleIndex(remote.Status) {
		winner = local
		loser = remote
	}
	if winner.Notes == "" && loser.Notes != "" {
		winner.Notes = loser.Notes
	}
	return winner
}

// normalize ensures collections marshal as [] rather than null, so a merged
// document round-trips through JSON identically.
func normalize(s models.AppState) models.AppState {
	if s.Logs == nil {
		s.Logs = []models.FocusLog{}
	}
	if s.Tasks == nil {
		s.Tasks = []models.Task{}
	}
	if s.Progress == nil {
		s.Progress = []models.ChapterProgress{}
	}
	if s.AllowList == nil {
		s.AllowList = []string{}
	}
	return s
}
