package vector

import "sync"

// Document is an indexed text blob attached to an agent.
type Document struct {
	AgentID  uint   `json:"agent_id"`
	FileID   uint   `json:"file_id"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Store is the retrieval contract consumed by future RAG features.
type Store interface {
	AddDocument(doc Document)
	Query(queryText string, topK int) []Document
}

// MemoryStore keeps documents in an in-memory list. Query does no similarity
// scoring yet; it returns the first topK documents, which is the full
// contract callers may rely on until a real vector backend lands.
type MemoryStore struct {
	mu        sync.RWMutex
	documents []Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AddDocument(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
}

func (s *MemoryStore) Query(_ string, topK int) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		return []Document{}
	}
	if topK > len(s.documents) {
		topK = len(s.documents)
	}
	out := make([]Document, topK)
	copy(out, s.documents[:topK])
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}
