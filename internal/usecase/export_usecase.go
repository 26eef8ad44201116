package usecase

import (
	"fmt"
	"strings"

	"talenthub/internal/model"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ExportUsecase struct {
	runs   analysisStore
	logger *zap.Logger
}

func NewExportUsecase(runs analysisStore, logger *zap.Logger) *ExportUsecase {
	return &ExportUsecase{runs: runs, logger: logger}
}

const exportPageSize = 1000

// ExportHistory renders the user's analysis history as an Excel workbook.
func (uc *ExportUsecase) ExportHistory(userID uuid.UUID) (*excelize.File, error) {
	runs, _, err := uc.runs.FindByUser(userID, 1, exportPageSize)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Analysis History"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Analysis ID", "Date", "Score", "Recommendation", "File", "Strengths", "Weaknesses", "Suggestions"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, run := range runs {
		values := []any{
			run.ID.String(),
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.MatchScore,
			run.Recommendation,
			run.FileName,
			strings.Join(model.DecodeList(run.Strengths), "; "),
			strings.Join(model.DecodeList(run.Weaknesses), "; "),
			strings.Join(model.DecodeList(run.Suggestions), "; "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	uc.logger.Info("history exported",
		zap.String("user_id", userID.String()),
		zap.Int("rows", len(runs)))
	return f, nil
}
