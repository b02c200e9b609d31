package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/apperrors"
	"github.com/blociq/blociq-engine/pkg/llm"
	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/prompts"
	"github.com/blociq/blociq-engine/pkg/repositories"
	"github.com/blociq/blociq-engine/pkg/retry"
	"github.com/blociq/blociq-engine/pkg/triage"
)

// Per-route chat parameters. The Outlook drafting pane wants longer,
// more conservative output than the plain Q&A route.
const (
	TempOutlook      = 0.1
	TempDraft        = 0.2
	TempAsk          = 0.3
	MaxTokensOutlook = 2000
	MaxTokensDraft   = 1500
	MaxTokensAsk     = 1000
)

// AskRequest is one question for the drafting pipeline. BuildingRef may
// be a UUID (direct lookup) or free text (fuzzy lookup); UnitRef is
// optional free text like "Flat 5".
type AskRequest struct {
	Question    string
	BuildingRef string
	UnitRef     string
	SenderName  string
	AgencyID    uuid.UUID
	UserID      uuid.UUID
	Route       string
	Temperature float64
	MaxTokens   int
}

// AskResult is the pipeline outcome. Degraded and Missing make data-
// gathering failures visible to callers instead of silently returning a
// context-free answer.
type AskResult struct {
	Answer      string
	Triage      triage.Result
	Context     *prompts.EntityContext
	ContextText string
	Degraded    bool
	Missing     []string
	Usage       *llm.GenerateResponseResult
}

// AskService runs the resolve, aggregate, classify, assemble, complete,
// post-process pipeline for one question.
type AskService interface {
	// Answer resolves entities from free-text references and drafts a reply.
	Answer(ctx context.Context, req AskRequest) (*AskResult, error)
	// AnswerForBuilding is the /api/ask variant: the building is
	// identified by ID and its absence is an error, not a degraded prompt.
	AnswerForBuilding(ctx context.Context, buildingID, userID uuid.UUID, question string) (*AskResult, error)
}

type askService struct {
	buildings    repositories.BuildingRepository
	units        repositories.UnitRepository
	leaseholders repositories.LeaseholderRepository
	aggregator   *contextAggregator
	audit        *auditWriter
	store        *prompts.Store
	client       llm.LLMClient
	retryConfig  *retry.Config
	logger       *zap.Logger
}

// NewAskService creates a new ask service.
func NewAskService(
	buildings repositories.BuildingRepository,
	units repositories.UnitRepository,
	leaseholders repositories.LeaseholderRepository,
	compliance repositories.ComplianceRepository,
	communications repositories.CommunicationRepository,
	aiLogs repositories.AILogRepository,
	store *prompts.Store,
	client llm.LLMClient,
	retryConfig *retry.Config,
	logger *zap.Logger,
) AskService {
	logger = logger.Named("ask")
	return &askService{
		buildings:    buildings,
		units:        units,
		leaseholders: leaseholders,
		aggregator: &contextAggregator{
			compliance:     compliance,
			communications: communications,
			logger:         logger,
		},
		audit:       &auditWriter{aiLogs: aiLogs, logger: logger},
		store:       store,
		client:      client,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

var _ AskService = (*askService)(nil)

func (s *askService) Answer(ctx context.Context, req AskRequest) (*AskResult, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, apperrors.ErrMissingQuestion
	}

	entityCtx := s.resolveEntities(ctx, req.AgencyID, req.BuildingRef, req.UnitRef)
	return s.complete(ctx, req, entityCtx)
}

func (s *askService) AnswerForBuilding(ctx context.Context, buildingID, userID uuid.UUID, question string) (*AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.ErrMissingQuestion
	}

	building, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, err
	}

	entityCtx := &prompts.EntityContext{Building: building}
	s.aggregator.aggregate(ctx, entityCtx)

	req := AskRequest{
		Question:    question,
		AgencyID:    building.AgencyID,
		UserID:      userID,
		Route:       "/api/ask",
		Temperature: TempAsk,
		MaxTokens:   MaxTokensAsk,
	}
	return s.complete(ctx, req, entityCtx)
}

// resolveEntities performs the best-effort building/unit/leaseholder
// lookup. Failures degrade the prompt; they never fail the request.
func (s *askService) resolveEntities(ctx context.Context, agencyID uuid.UUID, buildingRef, unitRef string) *prompts.EntityContext {
	entityCtx := &prompts.EntityContext{}

	buildingRef = strings.TrimSpace(buildingRef)
	if buildingRef == "" {
		return entityCtx
	}

	var building *models.Building
	var err error
	if id, parseErr := uuid.Parse(buildingRef); parseErr == nil {
		building, err = s.buildings.GetByID(ctx, id)
	} else {
		building, err = s.buildings.SearchByName(ctx, agencyID, buildingRef)
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrBuildingMissing) {
			s.logger.Warn("Building lookup failed",
				zap.String("building_ref", buildingRef),
				zap.Error(err))
			entityCtx.Missing = append(entityCtx.Missing, "building")
		}
		return entityCtx
	}
	entityCtx.Building = building

	if unitRef != "" {
		units, err := s.units.MatchInBuilding(ctx, building.ID, unitRef)
		if err != nil {
			s.logger.Warn("Unit match failed",
				zap.String("unit_ref", unitRef),
				zap.Error(err))
			entityCtx.Missing = append(entityCtx.Missing, "units")
		} else {
			entityCtx.Units = units
		}
	}

	if len(entityCtx.Units) > 0 {
		unitIDs := make([]uuid.UUID, len(entityCtx.Units))
		for i, u := range entityCtx.Units {
			unitIDs[i] = u.ID
		}
		leaseholders, err := s.leaseholders.ListByUnitIDs(ctx, unitIDs)
		if err != nil {
			s.logger.Warn("Leaseholder fetch failed", zap.Error(err))
			entityCtx.Missing = append(entityCtx.Missing, "leaseholders")
		} else {
			entityCtx.Leaseholders = leaseholders
		}
	}

	s.aggregator.aggregate(ctx, entityCtx)
	return entityCtx
}

// complete runs classification, prompt assembly, the chat call, and the
// audit write for an already-resolved context.
func (s *askService) complete(ctx context.Context, req AskRequest, entityCtx *prompts.EntityContext) (*AskResult, error) {
	triageResult := triage.Classify("", req.Question)

	prompt := s.store.BuildReplyPrompt(prompts.ReplyInput{
		Question:   req.Question,
		Triage:     triageResult,
		Context:    entityCtx,
		SenderName: triage.SenderFirstName(req.SenderName, req.Question),
	})

	temperature := req.Temperature
	if temperature == 0 {
		temperature = TempAsk
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = MaxTokensAsk
	}

	usage, err := retry.DoWithResult(ctx, s.retryConfig, func() (*llm.GenerateResponseResult, error) {
		return s.client.GenerateResponse(ctx, prompt, prompts.SystemMessage, temperature, maxTokens)
	})
	if err != nil {
		return nil, err
	}

	result := &AskResult{
		Answer:      strings.TrimSpace(usage.Content),
		Triage:      triageResult,
		Context:     entityCtx,
		ContextText: entityCtx.Render(),
		Degraded:    entityCtx.Degraded(),
		Missing:     entityCtx.Missing,
		Usage:       usage,
	}

	s.audit.write(ctx, req, result)

	return result, nil
}
