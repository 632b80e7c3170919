package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ecostudy/internal/llm"
	"ecostudy/internal/logger"
	"ecostudy/internal/models"
	"ecostudy/internal/repository"

	"github.com/sethvargo/go-retry"
)

// FallbackAnswer is returned to the student when the model cannot answer.
const FallbackAnswer = "I'm having trouble thinking right now. Please check my API key."

const (
	DefaultCompletionTimeout = 30 * time.Second
	defaultRetryBase         = 500 * time.Millisecond

	// MaxQuestionLen caps a question in runes.
	MaxQuestionLen = 4000
)

// CompletionPolicy bounds one answer: Timeout covers all attempts together.
type CompletionPolicy struct {
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// Completion is the outcome of asking the model; Text is always usable.
type Completion struct {
	Text     string
	Fallback bool
	Reason   error
}

// ChatService answers questions and keeps the transcript.
type ChatService struct {
	chats   repository.Chats
	prompts *PromptBuilder
	llm     llm.Completer
	policy  CompletionPolicy
	log     *logger.Logger
}

func NewChatService(chats repository.Chats, prompts *PromptBuilder, completer llm.Completer, policy CompletionPolicy, log *logger.Logger) *ChatService {
	if policy.Timeout <= 0 {
		policy.Timeout = DefaultCompletionTimeout
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.RetryBase <= 0 {
		policy.RetryBase = defaultRetryBase
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ChatService{chats: chats, prompts: prompts, llm: completer, policy: policy, log: log}
}

// Ask answers question for userID and persists exactly one chat. The answer
// falls back to FallbackAnswer on model failure; only input and storage
// errors are returned.
func (s *ChatService) Ask(ctx context.Context, userID, question string, kind models.ChatKind) (*models.Chat, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(question) > MaxQuestionLen {
		return nil, fmt.Errorf("%w: question is longer than %d characters", ErrInvalidInput, MaxQuestionLen)
	}
	if kind == "" {
		kind = models.KindText
	}

	c := &models.Chat{UserID: userID, Question: question, Kind: kind}
	// validate before paying for a model call
	c.Answer = FallbackAnswer
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res := s.Complete(ctx, s.prompts.Build(question))
	if res.Fallback {
		s.log.Warnw("completion_fallback", "user_id", userID, "kind", string(kind), "err", res.Reason)
	}
	c.Answer = res.Text

	if err := s.chats.Append(ctx, c); err != nil {
		return nil, fmt.Errorf("persist chat: %w", err)
	}
	return c, nil
}

// Complete runs the model call under the policy and never fails.
func (s *ChatService) Complete(ctx context.Context, prompt string) Completion {
	ctx, cancel := context.WithTimeout(ctx, s.policy.Timeout)
	defer cancel()

	backoff := retry.WithMaxRetries(uint64(s.policy.MaxRetries), retry.NewExponential(s.policy.RetryBase))

	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, err := s.llm.Complete(ctx, prompt)
		if err != nil {
			if llm.IsRetriable(err) && ctx.Err() == nil {
				s.log.Debugw("completion_retry", "err", err)
				return retry.RetryableError(err)
			}
			return err
		}
		text = out
		return nil
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		return Completion{Text: FallbackAnswer, Fallback: true, Reason: err}
	}
	return Completion{Text: text}
}

// History returns the user's chats newest first; limit 0 means all.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]models.Chat, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	if userID == "" {
		return nil, errors.New("history: empty user id")
	}
	chats, err := s.chats.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return chats, nil
}
