package service

import (
	"context"
	"fmt"

	"ecostudy/internal/llm"
	"ecostudy/internal/logger"
	"ecostudy/internal/models"
	"ecostudy/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (LoginResult, error)
	ParseToken(accessToken string) (Identity, error)
}

// Chat answers tutor questions and reads the transcript back.
type Chat interface {
	Ask(ctx context.Context, userID, question string, kind models.ChatKind) (*models.Chat, error)
	History(ctx context.Context, userID string, limit int) ([]models.Chat, error)
}

type Tips interface {
	ListTips() []models.Tip
}

type Sources interface {
	ListSources(ctx context.Context) ([]models.Source, error)
	Seed(ctx context.Context) error
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Chat
	Tips
	Sources
}

// Deps carries everything the services need besides storage.
type Deps struct {
	Tokens     *TokenManager
	BcryptCost int
	Completer  llm.Completer
	Prompts    *PromptBuilder
	Policy     CompletionPolicy
	Logger     *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) (*Service, error) {
	if deps.Tokens == nil {
		return nil, fmt.Errorf("service: token manager is required")
	}
	if deps.Completer == nil {
		return nil, fmt.Errorf("service: completer is required")
	}
	if deps.Prompts == nil {
		p, err := NewPromptBuilder(DefaultTutorName, "")
		if err != nil {
			return nil, err
		}
		deps.Prompts = p
	}
	tips, err := LoadTips()
	if err != nil {
		return nil, err
	}

	return &Service{
		Authorization: NewAuthService(repos.Users, deps.Tokens, deps.BcryptCost),
		Chat:          NewChatService(repos.Chats, deps.Prompts, deps.Completer, deps.Policy, deps.Logger),
		Tips:          NewTipsService(tips),
		Sources:       NewSourceService(repos.Sources),
	}, nil
}
