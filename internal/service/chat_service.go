package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusbot-be/internal/dto"
	"campusbot-be/internal/pkg/logger"
	"campusbot-be/internal/repository/contract"
	"campusbot-be/pkg/assistant"
	"campusbot-be/pkg/events"
	"campusbot-be/pkg/llm"
	"campusbot-be/pkg/utils"

	"github.com/google/uuid"
)

const chatModule = "CHAT"

// TurnRunner executes one assistant turn.
type TurnRunner interface {
	Run(ctx context.Context, in assistant.TurnInput) (*assistant.TurnResult, error)
}

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, sessionId string) ([]dto.ChatMessageDTO, error)
	Clear(ctx context.Context, sessionId string) error
}

type chatService struct {
	runner   TurnRunner
	sessions contract.SessionRepository
	audit    IAuditPublisher
	locks    *utils.KeyedMutex
	logger   logger.ILogger
}

// NewChatService wires the orchestrator to session memory. audit may be nil.
func NewChatService(runner TurnRunner, sessions contract.SessionRepository, audit IAuditPublisher, log logger.ILogger) IChatService {
	return &chatService{
		runner:   runner,
		sessions: sessions,
		audit:    audit,
		locks:    utils.NewKeyedMutex(),
		logger:   log,
	}
}

// Chat runs one turn. Turns of the same session are serialized so each one
// sees the full history of the previous. History is written only after the
// turn produced an answer, user message and answer together.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId := strings.TrimSpace(req.SessionId)
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	unlock := s.locks.Lock(sessionId)
	defer unlock()

	history, err := s.sessions.Get(ctx, sessionId)
	if err != nil {
		s.logger.Error(chatModule, "Failed to load session history", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, wrapSessionErr(err)
	}

	result, err := s.runner.Run(ctx, assistant.TurnInput{
		SessionID:    sessionId,
		Query:        req.Query,
		LanguageHint: req.Language,
		History:      history,
	})
	if err != nil {
		return nil, err
	}

	err = s.sessions.Append(ctx, sessionId,
		llm.Message{Role: llm.RoleUser, Content: req.Query},
		llm.Message{Role: llm.RoleAssistant, Content: result.Answer},
	)
	if err != nil {
		s.logger.Error(chatModule, "Failed to save session history", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, wrapSessionErr(err)
	}

	s.publishAudit(ctx, sessionId, result)

	return &dto.ChatResponse{
		Answer:    result.Answer,
		Source:    result.Source,
		SessionId: sessionId,
	}, nil
}

func (s *chatService) History(ctx context.Context, sessionId string) ([]dto.ChatMessageDTO, error) {
	unlock := s.locks.Lock(sessionId)
	defer unlock()

	history, err := s.sessions.Get(ctx, sessionId)
	if err != nil {
		return nil, wrapSessionErr(err)
	}

	res := make([]dto.ChatMessageDTO, len(history))
	for i, m := range history {
		res[i] = dto.ChatMessageDTO{Role: m.Role, Content: m.Content}
	}
	return res, nil
}

func (s *chatService) Clear(ctx context.Context, sessionId string) error {
	unlock := s.locks.Lock(sessionId)
	defer unlock()

	if err := s.sessions.Delete(ctx, sessionId); err != nil {
		return wrapSessionErr(err)
	}
	s.logger.Info(chatModule, "Session cleared", map[string]interface{}{"session_id": sessionId})
	return nil
}

func (s *chatService) publishAudit(ctx context.Context, sessionId string, result *assistant.TurnResult) {
	if s.audit == nil {
		return
	}
	err := s.audit.PublishTurn(ctx, events.ChatTurnCompleted{
		SessionID:        sessionId,
		Route:            string(result.Route),
		Source:           result.Source,
		DetectedLanguage: result.DetectedLanguage,
		RefinedQuery:     result.RefinedQuery,
		Translated:       result.Translated,
		Fallbacks:        result.Fallbacks,
		DurationMs:       result.Duration.Milliseconds(),
		OccurredAt:       time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn(chatModule, "Failed to publish audit event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func wrapSessionErr(err error) error {
	if errors.Is(err, contract.ErrSessionStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", contract.ErrSessionStoreUnavailable, err)
}
