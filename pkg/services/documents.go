package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/apperrors"
	"github.com/blociq/blociq-engine/pkg/llm"
	"github.com/blociq/blociq-engine/pkg/prompts"
	"github.com/blociq/blociq-engine/pkg/repositories"
	"github.com/blociq/blociq-engine/pkg/retry"
	"github.com/blociq/blociq-engine/pkg/triage"
)

// SummaryResult is a document summary: the model's narrative plus the
// structured block when one could be extracted.
type SummaryResult struct {
	Text       string
	Structured *DocumentSummary
}

// ComplaintResult is a complaint acknowledgement draft plus extracted
// complaint metadata (nil when the model's JSON was unusable).
type ComplaintResult struct {
	Draft string
	Info  *ComplaintInfo
}

// DocumentService runs the structured-output prompts: document
// summarisation and complaint analysis.
type DocumentService interface {
	SummarizeDocument(ctx context.Context, agencyID, userID uuid.UUID, documentText string) (*SummaryResult, error)
	AnalyzeComplaint(ctx context.Context, agencyID, userID uuid.UUID, complaintText string) (*ComplaintResult, error)
}

type documentService struct {
	audit       *auditWriter
	client      llm.LLMClient
	retryConfig *retry.Config
	logger      *zap.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	aiLogs repositories.AILogRepository,
	client llm.LLMClient,
	retryConfig *retry.Config,
	logger *zap.Logger,
) DocumentService {
	logger = logger.Named("documents")
	return &documentService{
		audit:       &auditWriter{aiLogs: aiLogs, logger: logger},
		client:      client,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

var _ DocumentService = (*documentService)(nil)

func (s *documentService) SummarizeDocument(ctx context.Context, agencyID, userID uuid.UUID, documentText string) (*SummaryResult, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, apperrors.ErrValidation
	}

	prompt := prompts.BuildDocumentSummaryPrompt(documentText)
	usage, err := retry.DoWithResult(ctx, s.retryConfig, func() (*llm.GenerateResponseResult, error) {
		return s.client.GenerateResponse(ctx, prompt, prompts.SystemMessage, TempAsk, MaxTokensOutlook)
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(usage.Content)
	structured := ExtractDocumentSummary(text)
	if structured == nil {
		s.logger.Warn("Document summary reply had no parseable structured block")
	}

	s.audit.write(ctx, AskRequest{
		Question: "[document summary]",
		AgencyID: agencyID,
		UserID:   userID,
		Route:    "/api/summarise-document",
	}, &AskResult{
		Answer:  text,
		Context: &prompts.EntityContext{},
		Usage:   usage,
	})

	return &SummaryResult{Text: text, Structured: structured}, nil
}

func (s *documentService) AnalyzeComplaint(ctx context.Context, agencyID, userID uuid.UUID, complaintText string) (*ComplaintResult, error) {
	if strings.TrimSpace(complaintText) == "" {
		return nil, apperrors.ErrValidation
	}

	prompt := prompts.BuildComplaintPrompt(complaintText, nil)
	usage, err := retry.DoWithResult(ctx, s.retryConfig, func() (*llm.GenerateResponseResult, error) {
		return s.client.GenerateResponse(ctx, prompt, prompts.SystemMessage, TempDraft, MaxTokensDraft)
	})
	if err != nil {
		return nil, err
	}

	draft := strings.TrimSpace(usage.Content)
	info := ExtractComplaintInfo(draft)
	if info == nil {
		s.logger.Warn("Complaint reply had no parseable structured block")
	}

	s.audit.write(ctx, AskRequest{
		Question: complaintText,
		AgencyID: agencyID,
		UserID:   userID,
		Route:    "/api/analyse-complaint",
	}, &AskResult{
		Answer:  draft,
		Triage:  triage.Classify("", complaintText),
		Context: &prompts.EntityContext{},
		Usage:   usage,
	})

	return &ComplaintResult{Draft: draft, Info: info}, nil
}
