package service

import (
	"context"
	"errors"
	"time"

	"gauntlet/internal/judge/profile"
	"gauntlet/internal/judge/verdict"
	"gauntlet/internal/problemset"
	"gauntlet/internal/session"
	"gauntlet/internal/store"
	"gauntlet/pkg/utils/logger"

	"go.uber.org/zap"
)

// Judger evaluates a submission against one problem.
type Judger interface {
	Judge(ctx context.Context, problemIndex int, code string, lang profile.Language) verdict.Verdict
}

// ProgressStore is the slice of the player store the pipeline needs.
type ProgressStore interface {
	CurrentProblem(ctx context.Context, userID string) (int, error)
	RecordAccepted(ctx context.Context, sub store.Submission) error
}

// SubmitService gates submissions on the session token, resolves the
// player's current problem, judges, and commits accepted results.
type SubmitService struct {
	codec    *session.Codec
	store    ProgressStore
	judge    Judger
	problems *problemset.Set
	now      func() time.Time
}

// NewSubmitService wires the full submission pipeline.
func NewSubmitService(codec *session.Codec, progress ProgressStore, judge Judger, problems *problemset.Set) *SubmitService {
	return &SubmitService{
		codec:    codec,
		store:    progress,
		judge:    judge,
		problems: problems,
		now:      time.Now,
	}
}

// Submit runs the whole pipeline for one request. The target problem is
// never client-chosen; it is the player's current progress index. No state
// is written unless the verdict is Accepted, and then the submission row and
// the solved counter advance in one transaction.
func (s *SubmitService) Submit(ctx context.Context, token, code string, lang profile.Language) verdict.Verdict {
	userID, err := s.codec.Decrypt(token)
	if err != nil {
		return verdict.Unauthorized()
	}

	problem, err := s.store.CurrentProblem(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrPlayerNotFound) {
			return verdict.Unauthorized()
		}
		logger.Error(ctx, "progress lookup failed", zap.String("player", userID), zap.Error(err))
		return verdict.ServerError()
	}
	if s.problems.Completed(problem) {
		return verdict.Completed()
	}
	logger.Debug(ctx, "judging submission", zap.String("player", userID), zap.Int("problem", problem))

	result := s.judge.Judge(ctx, problem, code, lang)
	if result.Status != verdict.StatusAccepted {
		return result
	}

	err = s.store.RecordAccepted(ctx, store.Submission{
		UserID:    userID,
		Problem:   problem,
		Language:  string(lang),
		Code:      code,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error(ctx, "progress commit failed", zap.String("player", userID), zap.Int("problem", problem), zap.Error(err))
		return verdict.ServerError()
	}
	logger.Info(ctx, "submission accepted", zap.String("player", userID), zap.Int("problem", problem), zap.String("language", string(lang)))
	return result
}
