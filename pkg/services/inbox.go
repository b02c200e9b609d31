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

// DraftResult is a generated reply for an inbox email plus the triage
// labels it was drafted under.
type DraftResult struct {
	Draft    string
	Triage   triage.Result
	Degraded bool
	Missing  []string
}

// InboxService provides the email-triage workflow: list, flag mutations,
// classification tagging, and reply drafting.
type InboxService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.IncomingEmail, error)
	List(ctx context.Context, agencyID uuid.UUID, unhandledOnly bool) ([]*models.IncomingEmail, error)
	// Ingest stores a new email and tags it with its triage result.
	Ingest(ctx context.Context, email *models.IncomingEmail) (*models.IncomingEmail, error)
	MarkRead(ctx context.Context, id uuid.UUID, read bool) error
	MarkHandled(ctx context.Context, id uuid.UUID, handled bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	// GenerateDraft produces a reply draft for an email, pulling building
	// context when the email is linked to a building.
	GenerateDraft(ctx context.Context, emailID uuid.UUID, userID uuid.UUID) (*DraftResult, error)
}

type inboxService struct {
	emails      repositories.EmailRepository
	buildings   repositories.BuildingRepository
	aggregator  *contextAggregator
	audit       *auditWriter
	store       *prompts.Store
	client      llm.LLMClient
	retryConfig *retry.Config
	logger      *zap.Logger
}

// NewInboxService creates a new inbox service.
func NewInboxService(
	emails repositories.EmailRepository,
	buildings repositories.BuildingRepository,
	compliance repositories.ComplianceRepository,
	communications repositories.CommunicationRepository,
	aiLogs repositories.AILogRepository,
	store *prompts.Store,
	client llm.LLMClient,
	retryConfig *retry.Config,
	logger *zap.Logger,
) InboxService {
	logger = logger.Named("inbox")
	return &inboxService{
		emails:    emails,
		buildings: buildings,
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

var _ InboxService = (*inboxService)(nil)

func (s *inboxService) Get(ctx context.Context, id uuid.UUID) (*models.IncomingEmail, error) {
	return s.emails.GetByID(ctx, id)
}

func (s *inboxService) List(ctx context.Context, agencyID uuid.UUID, unhandledOnly bool) ([]*models.IncomingEmail, error) {
	return s.emails.ListByAgency(ctx, agencyID, unhandledOnly)
}

func (s *inboxService) Ingest(ctx context.Context, email *models.IncomingEmail) (*models.IncomingEmail, error) {
	result := triage.Classify(email.Subject, email.Body)
	email.Tags = result.Tags()

	if err := s.emails.Insert(ctx, email); err != nil {
		return nil, err
	}

	s.logger.Info("Email ingested",
		zap.String("email_id", email.ID.String()),
		zap.String("category", string(result.Category)),
		zap.String("urgency", result.Urgency))

	return email, nil
}

func (s *inboxService) MarkRead(ctx context.Context, id uuid.UUID, read bool) error {
	return s.emails.MarkRead(ctx, id, read)
}

func (s *inboxService) MarkHandled(ctx context.Context, id uuid.UUID, handled bool) error {
	return s.emails.MarkHandled(ctx, id, handled)
}

func (s *inboxService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.emails.Delete(ctx, id)
}

func (s *inboxService) GenerateDraft(ctx context.Context, emailID uuid.UUID, userID uuid.UUID) (*DraftResult, error) {
	email, err := s.emails.GetByID(ctx, emailID)
	if err != nil {
		return nil, err
	}

	entityCtx := &prompts.EntityContext{}
	if email.BuildingID != nil {
		building, err := s.buildings.GetByID(ctx, *email.BuildingID)
		if err != nil && !errors.Is(err, apperrors.ErrBuildingMissing) {
			s.logger.Warn("Building fetch failed for draft", zap.Error(err))
			entityCtx.Missing = append(entityCtx.Missing, "building")
		} else if building != nil {
			entityCtx.Building = building
			s.aggregator.aggregate(ctx, entityCtx)
		}
	}

	triageResult := triage.Classify(email.Subject, email.Body)

	question := email.Subject
	if strings.TrimSpace(email.Body) != "" {
		question = email.Subject + "\n\n" + email.Body
	}

	prompt := s.store.BuildReplyPrompt(prompts.ReplyInput{
		Question:   question,
		Triage:     triageResult,
		Context:    entityCtx,
		SenderName: triage.SenderFirstName(email.FromName, email.Body),
	})

	usage, err := retry.DoWithResult(ctx, s.retryConfig, func() (*llm.GenerateResponseResult, error) {
		return s.client.GenerateResponse(ctx, prompt, prompts.SystemMessage, TempDraft, MaxTokensDraft)
	})
	if err != nil {
		return nil, err
	}

	result := &DraftResult{
		Draft:    strings.TrimSpace(usage.Content),
		Triage:   triageResult,
		Degraded: entityCtx.Degraded(),
		Missing:  entityCtx.Missing,
	}

	s.audit.write(ctx, AskRequest{
		Question: question,
		AgencyID: email.AgencyID,
		UserID:   userID,
		Route:    "/api/generate-draft",
	}, &AskResult{
		Answer:   result.Draft,
		Triage:   triageResult,
		Context:  entityCtx,
		Degraded: result.Degraded,
		Missing:  result.Missing,
		Usage:    usage,
	})

	return result, nil
}
