package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/prompts"
	"github.com/blociq/blociq-engine/pkg/repositories"
)

// contextAggregator gathers the building-scoped context sources shared
// by the ask and inbox pipelines. Each source soft-fails into the
// context's Missing list; aggregation never fails a request.
type contextAggregator struct {
	compliance     repositories.ComplianceRepository
	communications repositories.CommunicationRepository
	logger         *zap.Logger
}

// aggregate fans out the independent lookups (compliance and
// correspondence history) and joins before prompt assembly.
func (a *contextAggregator) aggregate(ctx context.Context, entityCtx *prompts.EntityContext) {
	if entityCtx.Building == nil {
		return
	}
	buildingID := entityCtx.Building.ID

	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, err := a.compliance.SummaryByBuilding(ctx, buildingID)
		if err != nil {
			a.logger.Warn("Compliance summary failed, falling back to scan", zap.Error(err))
			items, fallbackErr := a.compliance.ListByBuilding(ctx, buildingID)
			if fallbackErr != nil {
				mu.Lock()
				entityCtx.Missing = append(entityCtx.Missing, "compliance")
				mu.Unlock()
				return
			}
			summary = summarizeItems(buildingID, items)
		}
		mu.Lock()
		entityCtx.Compliance = summary
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		history, err := a.communications.ListRecentByBuilding(ctx, buildingID, 10)
		if err != nil {
			a.logger.Warn("Correspondence history fetch failed", zap.Error(err))
			mu.Lock()
			entityCtx.Missing = append(entityCtx.Missing, "history")
			mu.Unlock()
			return
		}
		mu.Lock()
		entityCtx.History = history
		mu.Unlock()
	}()

	wg.Wait()
}

// summarizeItems computes the aggregate counts client-side when the
// aggregate query was unavailable.
func summarizeItems(buildingID uuid.UUID, items []*models.ComplianceItem) *models.ComplianceSummary {
	summary := &models.ComplianceSummary{BuildingID: buildingID, Items: items, Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.ComplianceStatusOverdue:
			summary.Overdue++
		case models.ComplianceStatusDueSoon:
			summary.DueSoon++
		}
	}
	return summary
}

// auditWriter appends ai_logs rows. Failure is logged and swallowed;
// the answer has already been produced when the write happens.
type auditWriter struct {
	aiLogs repositories.AILogRepository
	logger *zap.Logger
}

func (w *auditWriter) write(ctx context.Context, req AskRequest, result *AskResult) {
	meta := models.AILogMetadata{
		Route:     req.Route,
		Category:  string(result.Triage.Category),
		Urgency:   result.Triage.Urgency,
		Degraded:  result.Degraded,
		Missing:   result.Missing,
		UnitCount: len(result.Context.Units),
	}
	if result.Usage != nil {
		meta.PromptTokens = result.Usage.PromptTokens
		meta.ResponseTokens = result.Usage.CompletionTokens
		meta.ElapsedMillis = result.Usage.Elapsed.Milliseconds()
	}
	if result.Context.Building != nil {
		meta.BuildingID = result.Context.Building.ID.String()
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		w.logger.Warn("Failed to marshal audit metadata", zap.Error(err))
	}

	log := &models.AILog{
		UserID:   req.UserID,
		AgencyID: req.AgencyID,
		Question: req.Question,
		Response: result.Answer,
		Metadata: metaJSON,
	}
	if err := w.aiLogs.Insert(ctx, log); err != nil {
		w.logger.Warn("Failed to write ai audit log", zap.Error(err))
	}
}
