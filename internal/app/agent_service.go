package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"agenthub/internal/cache"
	"agenthub/internal/model"
	"agenthub/internal/repository"
)

const (
	defaultPublicPageSize = 20
	maxPublicPageSize     = 100
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrAgentNameExists = errors.New("agent name already exists")
	ErrFileExists      = errors.New("file already exists for this agent")
	ErrForbidden       = errors.New("access denied")
)

type AgentService struct {
	agentRepo *repository.AgentRepository
	fileRepo  *repository.AgentFileRepository
	catalog   *cache.CatalogCache
}

func NewAgentService(
	agentRepo *repository.AgentRepository,
	fileRepo *repository.AgentFileRepository,
	catalog *cache.CatalogCache,
) *AgentService {
	return &AgentService{
		agentRepo: agentRepo,
		fileRepo:  fileRepo,
		catalog:   catalog,
	}
}

type CreateAgentInput struct {
	OwnerID     uint
	Name        string
	Description string
	Prompt      string
	Provider    string
	IsPublic    bool
}

// CreateAgent persists a new agent row. The "public agents need at least one
// category" rule belongs to the boundary; this layer persists what it is given.
func (s *AgentService) CreateAgent(ctx context.Context, input CreateAgentInput) (*model.Agent, error) {
	name := strings.TrimSpace(input.Name)
	prompt := strings.TrimSpace(input.Prompt)
	if input.OwnerID == 0 || name == "" || prompt == "" {
		return nil, ErrInvalidInput
	}
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	if provider == "" {
		provider = "openai"
	}

	agent := &model.Agent{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Prompt:      prompt,
		Provider:    provider,
		IsPublic:    input.IsPublic,
		OwnerID:     input.OwnerID,
	}
	if err := s.agentRepo.Create(agent); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAgentNameExists
		}
		return nil, err
	}

	s.invalidateCatalog(ctx)
	return agent, nil
}

// AssignCategories inserts one join row per category id. Empty input is a
// no-op. Unknown ids are rejected by the foreign key, not by a lookup here.
func (s *AgentService) AssignCategories(ctx context.Context, agentID uint, categoryIDs []uint) error {
	if agentID == 0 {
		return ErrInvalidInput
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	if err := s.agentRepo.AssignCategories(agentID, categoryIDs); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrInvalidInput
		}
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// ReplaceCategories swaps the agent's category set atomically. An empty set
// just clears the joins.
func (s *AgentService) ReplaceCategories(ctx context.Context, agentID uint, categoryIDs []uint) error {
	if agentID == 0 {
		return ErrInvalidInput
	}
	if len(categoryIDs) == 0 {
		return s.DeleteAgentCategories(ctx, agentID)
	}
	if err := s.agentRepo.ReplaceCategories(agentID, categoryIDs); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrInvalidInput
		}
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *AgentService) DeleteAgentCategories(ctx context.Context, agentID uint) error {
	if agentID == 0 {
		return ErrInvalidInput
	}
	if err := s.agentRepo.DeleteCategories(agentID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// GetPublicAgents returns a page of public agents, optionally filtered to one
// category. Pages are served from the catalog cache when warm.
func (s *AgentService) GetPublicAgents(ctx context.Context, categoryID uint, limit, offset int) ([]model.Agent, error) {
	if limit <= 0 {
		limit = defaultPublicPageSize
	}
	if limit > maxPublicPageSize {
		limit = maxPublicPageSize
	}
	if offset < 0 {
		offset = 0
	}

	if s.catalog != nil {
		if agents, ok, err := s.catalog.GetPage(ctx, categoryID, limit, offset); err != nil {
			log.Printf("catalog cache read failed: %v", err)
		} else if ok {
			return agents, nil
		}
	}

	agents, err := s.agentRepo.ListPublic(categoryID, limit, offset)
	if err != nil {
		return nil, err
	}

	if s.catalog != nil {
		if err := s.catalog.SetPage(ctx, categoryID, limit, offset, agents); err != nil {
			log.Printf("catalog cache write failed: %v", err)
		}
	}
	return agents, nil
}

// GetPrivateAgents returns every non-public agent the caller owns.
func (s *AgentService) GetPrivateAgents(ownerID uint) ([]model.Agent, error) {
	if ownerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.agentRepo.ListPrivateByOwnerID(ownerID)
}

// GetAgentsByOwner returns all agents (public and private) the caller owns.
func (s *AgentService) GetAgentsByOwner(ownerID uint) ([]model.Agent, error) {
	if ownerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.agentRepo.ListByOwnerID(ownerID)
}

// GetPublicAgentsByUser returns another user's public agents.
func (s *AgentService) GetPublicAgentsByUser(userID uint) ([]model.Agent, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.agentRepo.ListPublicByOwnerID(userID)
}

// GetAgentByIDAndOwner is the authorization primitive for owner-scoped
// operations. nil means not found or not owned; callers cannot tell which.
func (s *AgentService) GetAgentByIDAndOwner(agentID, ownerID uint) (*model.Agent, error) {
	if agentID == 0 || ownerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.agentRepo.GetByIDAndOwnerID(agentID, ownerID)
}

// GetAgentByID fetches an agent readable by userID: public agents are open,
// private ones only to their owner.
func (s *AgentService) GetAgentByID(agentID, userID uint) (*model.Agent, error) {
	if agentID == 0 {
		return nil, ErrInvalidInput
	}
	agent, err := s.agentRepo.GetByID(agentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrAgentNotFound
	}
	if !agent.IsPublic && agent.OwnerID != userID {
		return nil, ErrForbidden
	}
	return agent, nil
}

type UpdateAgentInput struct {
	Name        *string
	Description *string
	Prompt      *string
	Provider    *string
	IsPublic    *bool
}

// fieldUpdates maps only the explicitly supplied fields to their columns.
func (in UpdateAgentInput) fieldUpdates() map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Prompt != nil {
		fields["prompt"] = strings.TrimSpace(*in.Prompt)
	}
	if in.Provider != nil {
		fields["provider"] = strings.ToLower(strings.TrimSpace(*in.Provider))
	}
	if in.IsPublic != nil {
		fields["is_public"] = *in.IsPublic
	}
	return fields
}

// UpdateAgent applies a partial update scoped by id and owner. A non-owner
// gets ErrAgentNotFound, indistinguishable from a missing id.
func (s *AgentService) UpdateAgent(ctx context.Context, agentID, ownerID uint, input UpdateAgentInput) (*model.Agent, error) {
	if agentID == 0 || ownerID == 0 {
		return nil, ErrInvalidInput
	}

	agent, err := s.agentRepo.GetByIDAndOwnerID(agentID, ownerID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrAgentNotFound
	}

	fields := input.fieldUpdates()
	if len(fields) > 0 {
		if err := s.agentRepo.Updates(agentID, ownerID, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrAgentNameExists
			}
			return nil, err
		}
		agent, err = s.agentRepo.GetByIDAndOwnerID(agentID, ownerID)
		if err != nil {
			return nil, err
		}
	}

	s.invalidateCatalog(ctx)
	return agent, nil
}

// DeleteAgent removes an owned agent; joins and file rows cascade. Returns
// false when nothing matched the id+owner scope.
func (s *AgentService) DeleteAgent(ctx context.Context, agentID, ownerID uint) (bool, error) {
	if agentID == 0 || ownerID == 0 {
		return false, ErrInvalidInput
	}
	deleted, err := s.agentRepo.DeleteByIDAndOwnerID(agentID, ownerID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateCatalog(ctx)
	}
	return deleted, nil
}

// UploadDocument records file metadata for an agent. A duplicate
// (agent_id, filename) pair surfaces as ErrFileExists, never as a raw
// constraint error.
func (s *AgentService) UploadDocument(agentID uint, filename, contentType string) (*model.AgentFile, error) {
	if agentID == 0 || strings.TrimSpace(filename) == "" {
		return nil, ErrInvalidInput
	}
	file := &model.AgentFile{
		AgentID:     agentID,
		Filename:    filename,
		ContentType: contentType,
	}
	if err := s.fileRepo.Create(file); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFileExists
		}
		return nil, err
	}
	return file, nil
}

// GetAgentFiles lists file metadata without re-deriving ownership; callers
// must authorize first.
func (s *AgentService) GetAgentFiles(agentID uint) ([]model.AgentFile, error) {
	if agentID == 0 {
		return nil, ErrInvalidInput
	}
	return s.fileRepo.ListByAgentID(agentID)
}

func (s *AgentService) invalidateCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		log.Printf("catalog cache invalidate failed: %v", err)
	}
}
