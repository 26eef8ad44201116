package usecase

import (
	"context"
	"time"

	"talenthub/internal/config"
	"talenthub/internal/dto"
	"talenthub/internal/model"
	"talenthub/internal/scoring"
	"talenthub/internal/service"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

type jobCorpus interface {
	SearchByEmbedding(embedding pgvector.Vector, topK int) ([]model.Job, error)
	FindRecent(limit int) ([]model.Job, error)
}

type matchStore interface {
	Upsert(match *model.JobMatch) error
	FindByUser(userID uuid.UUID) ([]model.JobMatch, error)
}

type recommender interface {
	Recommend(ctx context.Context, candidate *service.CandidateContext, corpus []service.JobContext, history *service.BehavioralSummary) ([]service.RawRecommendation, error)
}

type latestRunFinder interface {
	FindByUser(userID uuid.UUID, page, pageSize int) ([]model.AnalysisRun, int64, error)
}

type RecommendationUsecase struct {
	jobs       jobCorpus
	matches    matchStore
	runs       latestRunFinder
	recommend  recommender
	embedder   service.Embedder
	summarizer behaviorSummarizer
	skills     *config.SkillsConfig
	logger     *zap.Logger
}

func NewRecommendationUsecase(
	jobs jobCorpus,
	matches matchStore,
	runs latestRunFinder,
	recommend recommender,
	embedder service.Embedder,
	summarizer behaviorSummarizer,
	skills *config.SkillsConfig,
	logger *zap.Logger,
) *RecommendationUsecase {
	return &RecommendationUsecase{
		jobs:       jobs,
		matches:    matches,
		runs:       runs,
		recommend:  recommend,
		embedder:   embedder,
		summarizer: summarizer,
		skills:     skills,
		logger:     logger,
	}
}

const (
	corpusTopK     = 10
	corpusFallback = 25
)

// Recommend generates ranked job recommendations for a user. AI failure
// degrades to an empty list rather than an error; recommendations naming
// jobs outside the corpus are dropped.
func (uc *RecommendationUsecase) Recommend(ctx context.Context, userID uuid.UUID) ([]dto.JobRecommendation, error) {
	candidate := uc.candidateContext(userID)
	corpus, byID := uc.corpus(ctx, candidate.CVText)
	if len(corpus) == 0 {
		return []dto.JobRecommendation{}, nil
	}

	var history *service.BehavioralSummary
	if uc.summarizer != nil {
		if summary, err := uc.summarizer.Summarize(ctx, userID); err == nil {
			history = summary
		}
	}

	raw, err := uc.recommend.Recommend(ctx, candidate, corpus, history)
	if err != nil {
		uc.logger.Warn("recommendation call degraded to empty result",
			zap.String("user_id", userID.String()),
			zap.Int("corpus_size", len(corpus)),
			zap.Error(err))
		return []dto.JobRecommendation{}, nil
	}

	recs := make([]dto.JobRecommendation, 0, len(raw))
	for _, r := range raw {
		jobID, err := uuid.Parse(r.JobID)
		if err != nil {
			continue
		}
		job, ok := byID[jobID]
		if !ok {
			// The model mentioned a job not in the corpus; drop it rather
			// than keep a dangling reference.
			uc.logger.Debug("dropping recommendation for unknown job",
				zap.String("job_id", r.JobID))
			continue
		}

		score := scoring.Clamp(r.MatchScore)
		rec := dto.JobRecommendation{
			JobID:          job.ID,
			Title:          job.Title,
			Company:        job.Company,
			Location:       job.Location,
			Salary:         job.Salary,
			RequiredSkills: uc.requiredSkills(job),
			MatchScore:     score,
			Reason:         r.Reason,
			Level:          scoring.Tier(score),
		}
		recs = append(recs, rec)

		match := &model.JobMatch{
			UserID:     userID,
			JobID:      job.ID,
			MatchScore: score,
			Reason:     r.Reason,
			Level:      rec.Level,
			UpdatedAt:  time.Now(),
		}
		if err := uc.matches.Upsert(match); err != nil {
			uc.logger.Warn("match analytics upsert failed",
				zap.String("user_id", userID.String()),
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	}
	return recs, nil
}

// SavedMatches returns the persisted match analytics rows, best score
// first. Unlike Recommend this never calls the model.
func (uc *RecommendationUsecase) SavedMatches(userID uuid.UUID) ([]model.JobMatch, error) {
	return uc.matches.FindByUser(userID)
}

// candidateContext seeds the prompt from the user's most recent analysis
// run; a user with no runs still gets behavioral-only recommendations.
func (uc *RecommendationUsecase) candidateContext(userID uuid.UUID) *service.CandidateContext {
	runs, _, err := uc.runs.FindByUser(userID, 1, 1)
	if err != nil || len(runs) == 0 {
		return &service.CandidateContext{}
	}
	return &service.CandidateContext{CVText: runs[0].CVText}
}

// corpus retrieves candidate jobs by vector similarity when an embedding is
// available, falling back to the recent corpus.
func (uc *RecommendationUsecase) corpus(ctx context.Context, cvText string) ([]service.JobContext, map[uuid.UUID]model.Job) {
	var jobs []model.Job

	if uc.embedder != nil && cvText != "" {
		if emb, err := uc.embedder.GenerateEmbedding(ctx, cvText); err == nil {
			if found, err := uc.jobs.SearchByEmbedding(pgvector.NewVector(emb), corpusTopK); err == nil {
				jobs = found
			}
		} else {
			uc.logger.Debug("embedding unavailable, using recent corpus", zap.Error(err))
		}
	}
	if len(jobs) == 0 {
		found, err := uc.jobs.FindRecent(corpusFallback)
		if err != nil {
			uc.logger.Warn("corpus load failed", zap.Error(err))
			return nil, nil
		}
		jobs = found
	}

	corpus := make([]service.JobContext, 0, len(jobs))
	byID := make(map[uuid.UUID]model.Job, len(jobs))
	for _, job := range jobs {
		corpus = append(corpus, *JobToContext(&job))
		byID[job.ID] = job
	}
	return corpus, byID
}

// requiredSkills falls back to the field's configured skill list when the
// posting itself does not name any.
func (uc *RecommendationUsecase) requiredSkills(job model.Job) []string {
	if skills := model.DecodeList(job.RequiredSkills); len(skills) > 0 {
		return skills
	}
	return uc.skills.SkillsForField(job.Field)
}
