package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talenthub/internal/model"
	"talenthub/internal/repository"
	"talenthub/internal/response"
	"talenthub/internal/scoring"
	"talenthub/internal/service"
	"talenthub/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type analysisStore interface {
	Create(run *model.AnalysisRun) error
	FindByID(userID, analysisID uuid.UUID) (*model.AnalysisRun, error)
	FindByUser(userID uuid.UUID, page, pageSize int) ([]model.AnalysisRun, int64, error)
	Stats(userID uuid.UUID) (*repository.AnalysisStats, error)
}

type matchCounter interface {
	CountByUser(userID uuid.UUID) (int64, error)
}

type jobFinder interface {
	FindByID(id uuid.UUID) (*model.Job, error)
	FindRecent(limit int) ([]model.Job, error)
}

type textExtractor interface {
	ExtractText(path string) (string, error)
}

type candidateAnalyzer interface {
	AnalyzeCandidate(ctx context.Context, cvText string, job *service.JobContext, history *service.BehavioralSummary) (*scoring.Judgment, error)
}

type behaviorSummarizer interface {
	Summarize(ctx context.Context, userID uuid.UUID) (*service.BehavioralSummary, error)
}

type AnalysisUsecase struct {
	runs       analysisStore
	matches    matchCounter
	jobs       jobFinder
	extractor  textExtractor
	analyzer   candidateAnalyzer
	files      service.FileStore
	summarizer behaviorSummarizer
	notifier   notifier
	logger     *zap.Logger
}

func NewAnalysisUsecase(
	runs analysisStore,
	matches matchCounter,
	jobs jobFinder,
	extractor textExtractor,
	analyzer candidateAnalyzer,
	files service.FileStore,
	summarizer behaviorSummarizer,
	notifier notifier,
	logger *zap.Logger,
) *AnalysisUsecase {
	return &AnalysisUsecase{
		runs:       runs,
		matches:    matches,
		jobs:       jobs,
		extractor:  extractor,
		analyzer:   analyzer,
		files:      files,
		summarizer: summarizer,
		notifier:   notifier,
		logger:     logger,
	}
}

// AnalyzeUpload runs the full pipeline for an uploaded CV document.
// Extraction errors are surfaced; storage upload and the AI call itself are
// best-effort and degrade to conservative results.
func (uc *AnalysisUsecase) AnalyzeUpload(ctx context.Context, userID uuid.UUID, filePath, fileName string, fileSize int64, jobID *uuid.UUID) (*model.AnalysisRun, error) {
	cvText, err := uc.extractor.ExtractText(filePath)
	if err != nil {
		uc.logger.Warn("cv extraction failed",
			zap.String("user_id", userID.String()),
			zap.String("file_name", fileName),
			zap.Error(err))
		return nil, err
	}

	var stored *service.StoredFile
	if uc.files != nil {
		stored, err = uc.files.Upload(ctx, filePath, fileName)
		if err != nil {
			// Storage is best-effort; the analysis continues without it.
			uc.logger.Warn("cv upload failed, continuing analysis",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			stored = nil
		}
	}

	run, err := uc.analyze(ctx, userID, cvText, jobID)
	if err != nil {
		return nil, err
	}

	run.FileName = fileName
	run.FileSize = fileSize
	if stored != nil {
		run.FileURL = stored.URL
	}
	if err := uc.runs.Create(run); err != nil {
		return nil, fmt.Errorf("save analysis run: %w", err)
	}
	uc.notifyCompletion(ctx, run)
	return run, nil
}

// AnalyzeText runs the pipeline for CV text submitted directly.
func (uc *AnalysisUsecase) AnalyzeText(ctx context.Context, userID uuid.UUID, rawText string, jobID *uuid.UUID) (*model.AnalysisRun, error) {
	run, err := uc.analyze(ctx, userID, util.NormalizeText(rawText), jobID)
	if err != nil {
		return nil, err
	}
	if err := uc.runs.Create(run); err != nil {
		return nil, fmt.Errorf("save analysis run: %w", err)
	}
	uc.notifyCompletion(ctx, run)
	return run, nil
}

// notifyCompletion tells the user their analysis finished. Delivery is
// best-effort and must never fail a run that is already persisted.
func (uc *AnalysisUsecase) notifyCompletion(ctx context.Context, run *model.AnalysisRun) {
	if uc.notifier == nil {
		return
	}
	body := fmt.Sprintf("Your CV scored %d: %s.", run.MatchScore, run.Recommendation)
	if err := uc.notifier.Notify(ctx, run.UserID, "", "CV analysis complete", body); err != nil {
		uc.logger.Warn("analysis completion notification failed",
			zap.String("user_id", run.UserID.String()),
			zap.Error(err))
	}
}

func (uc *AnalysisUsecase) analyze(ctx context.Context, userID uuid.UUID, cvText string, jobID *uuid.UUID) (*model.AnalysisRun, error) {
	jobCtx, err := uc.jobContext(jobID)
	if err != nil {
		return nil, err
	}

	var result *scoring.Result
	if strings.TrimSpace(cvText) == "" {
		// Rejecting before any external call: empty text is an explicit
		// low-score outcome, not an error.
		result = scoring.EmptyCVResult(jobCtx.RequiredSkills)
	} else {
		history := uc.history(ctx, userID)

		judgment, err := uc.analyzer.AnalyzeCandidate(ctx, cvText, jobCtx, history)
		if err != nil {
			uc.logger.Warn("falling back to default analysis result",
				zap.String("user_id", userID.String()),
				zap.Int("cv_len", len(cvText)),
				zap.Error(err))
			result = scoring.DefaultResult()
		} else {
			result = scoring.Score(judgment)
		}
	}

	return &model.AnalysisRun{
		ID:               uuid.New(),
		UserID:           userID,
		CVText:           cvText,
		MatchScore:       result.MatchScore,
		Strengths:        model.EncodeList(result.Strengths),
		Weaknesses:       model.EncodeList(result.Weaknesses),
		Suggestions:      model.EncodeList(result.Suggestions),
		DetailedAnalysis: result.DetailedAnalysis,
		Recommendation:   result.Recommendation,
		CreatedAt:        time.Now(),
	}, nil
}

// jobContext resolves the analysis target: a specific job when one is
// named, otherwise a synthetic context over the recent corpus.
func (uc *AnalysisUsecase) jobContext(jobID *uuid.UUID) (*service.JobContext, error) {
	if jobID != nil {
		job, err := uc.jobs.FindByID(*jobID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		if err != nil {
			return nil, fmt.Errorf("load job: %w", err)
		}
		return JobToContext(job), nil
	}

	jobs, err := uc.jobs.FindRecent(5)
	if err != nil || len(jobs) == 0 {
		return &service.JobContext{
			Title:       "General candidate screening",
			Description: "Assess the CV on general professional merit.",
		}, nil
	}

	var sb strings.Builder
	for i, job := range jobs {
		fmt.Fprintf(&sb, "Job %d: %s at %s. %s\n", i+1, job.Title, job.Company, job.Description)
	}
	return &service.JobContext{
		Title:       "Open positions on the platform",
		Description: sb.String(),
	}, nil
}

func (uc *AnalysisUsecase) history(ctx context.Context, userID uuid.UUID) *service.BehavioralSummary {
	if uc.summarizer == nil {
		return nil
	}
	summary, err := uc.summarizer.Summarize(ctx, userID)
	if err != nil {
		uc.logger.Debug("behavioral summary unavailable",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil
	}
	return summary
}

func (uc *AnalysisUsecase) GetHistory(userID uuid.UUID, page, pageSize int) ([]model.AnalysisRun, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	runs, total, err := uc.runs.FindByUser(userID, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return runs, response.NewPagination(page, pageSize, total), nil
}

func (uc *AnalysisUsecase) GetByID(userID, analysisID uuid.UUID) (*model.AnalysisRun, error) {
	run, err := uc.runs.FindByID(userID, analysisID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (uc *AnalysisUsecase) GetStats(userID uuid.UUID) (*repository.AnalysisStats, int64, error) {
	stats, err := uc.runs.Stats(userID)
	if err != nil {
		return nil, 0, err
	}
	totalRecs, err := uc.matches.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}
	return stats, totalRecs, nil
}

// JobToContext maps a corpus row to its prompt payload.
func JobToContext(job *model.Job) *service.JobContext {
	return &service.JobContext{
		ID:             job.ID.String(),
		Title:          job.Title,
		Company:        job.Company,
		Field:          job.Field,
		Location:       job.Location,
		JobType:        job.JobType,
		Salary:         job.Salary,
		Description:    job.Description,
		RequiredSkills: model.DecodeList(job.RequiredSkills),
		ExperienceMin:  job.ExperienceMin,
	}
}
