package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"agenthub/internal/model"
	"agenthub/internal/platform/rabbitmq"
	"agenthub/internal/storage"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUploadFailed        = errors.New("file upload failed")
)

// allowedContentTypes is the upload allow-list: PDF and DOCX only.
var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

type FileService struct {
	agentService *AgentService
	contentStore storage.ContentStore
	publisher    *rabbitmq.IndexPublisher
}

func NewFileService(agentService *AgentService, contentStore storage.ContentStore, publisher *rabbitmq.IndexPublisher) *FileService {
	return &FileService{
		agentService: agentService,
		contentStore: contentStore,
		publisher:    publisher,
	}
}

type SaveFileInput struct {
	AgentID     uint
	UserID      uint
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SaveFile verifies agent ownership, checks the content-type allow-list,
// writes the bytes to the content store and records the metadata row. The
// stored key is derived from the agent id and the sanitized original name,
// so re-uploading the same name overwrites the same object.
func (s *FileService) SaveFile(ctx context.Context, input SaveFileInput) (*model.AgentFile, error) {
	filename := strings.TrimSpace(input.Filename)
	if input.AgentID == 0 || input.UserID == 0 || filename == "" {
		return nil, ErrInvalidInput
	}

	agent, err := s.agentService.GetAgentByIDAndOwner(input.AgentID, input.UserID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrForbidden
	}

	if _, ok := allowedContentTypes[input.ContentType]; !ok {
		return nil, ErrUnsupportedFileType
	}

	key := StorageKey(input.AgentID, filename)
	if err := s.contentStore.Put(ctx, key, input.Content, input.Size, input.ContentType); err != nil {
		log.Printf("content store write failed: %v", err)
		return nil, ErrUploadFailed
	}

	file, err := s.agentService.UploadDocument(input.AgentID, filename, input.ContentType)
	if err != nil {
		if errors.Is(err, ErrFileExists) {
			return nil, err
		}
		return nil, ErrUploadFailed
	}

	if s.publisher != nil {
		job := rabbitmq.IndexJob{
			AgentID:     file.AgentID,
			FileID:      file.ID,
			Filename:    file.Filename,
			ContentType: file.ContentType,
			StorageKey:  key,
		}
		if err := s.publisher.Publish(ctx, job); err != nil {
			// Indexing is async enrichment; the upload itself already succeeded.
			log.Printf("publish index job failed: %v", err)
		}
	}

	return file, nil
}

// GetFiles lists an agent's file metadata after verifying ownership. nil
// uniformly means not found or not owned.
func (s *FileService) GetFiles(agentID, userID uint) ([]model.AgentFile, error) {
	if agentID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}

	agent, err := s.agentService.GetAgentByIDAndOwner(agentID, userID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, nil
	}

	files, err := s.agentService.GetAgentFiles(agentID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		// Authorized but empty must stay distinguishable from the nil that
		// means not-owned.
		files = []model.AgentFile{}
	}
	return files, nil
}

// StorageKey builds the deterministic content-store key for an upload.
// Slashes in the original name are flattened to keep the key path-safe.
func StorageKey(agentID uint, filename string) string {
	sanitized := strings.ReplaceAll(filename, "/", "_")
	sanitized = strings.ReplaceAll(sanitized, "\\", "_")
	return fmt.Sprintf("%d_%s", agentID, sanitized)
}
