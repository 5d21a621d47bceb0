package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Kenil818282/caratbridge-secret-finder1/model"
)

// Store persists the single state document. Every mutation is one
// serialized read-modify-write of the whole document, so two concurrent
// AddLeads calls can never both claim the same lead as new.
type Store interface {
	Load() (model.Document, error)
	AddLeads(candidates []model.Lead) ([]model.Lead, error)
	AddTag(tag string) error
	RemoveTag(tag string) error
	SetRunning(running bool) error
	Close() error
}

// NormalizeTag trims whitespace and a leading '#' from a tag
func NormalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "#")
}

// addLeadsToDoc inserts candidates whose id is not yet present and returns
// the inserted subset in input order. Existing leads are never overwritten.
func addLeadsToDoc(doc *model.Document, candidates []model.Lead) []model.Lead {
	var added []model.Lead
	for _, lead := range candidates {
		if _, exists := doc.Leads[lead.ID]; exists {
			continue
		}
		doc.Leads[lead.ID] = lead
		added = append(added, lead)
	}
	return added
}

// MemoryStore keeps the document in memory. Used in tests and available as
// a throwaway backend when persistence is not wanted.
type MemoryStore struct {
	mu  sync.Mutex
	doc model.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: model.NewDocument()}
}

func (s *MemoryStore) Load() (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), nil
}

func (s *MemoryStore) AddLeads(candidates []model.Lead) ([]model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return addLeadsToDoc(&s.doc, candidates), nil
}

func (s *MemoryStore) AddTag(tag string) error {
	tag = NormalizeTag(tag)
	if tag == "" {
		return fmt.Errorf("tag required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.HasTag(tag) {
		return nil
	}
	s.doc.MonitoredTags = append(s.doc.MonitoredTags, tag)
	return nil
}

func (s *MemoryStore) RemoveTag(tag string) error {
	tag = NormalizeTag(tag)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.doc.MonitoredTags {
		if t == tag {
			s.doc.MonitoredTags = append(s.doc.MonitoredTags[:i], s.doc.MonitoredTags[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) SetRunning(running bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.IsRunning = running
	return nil
}

func (s *MemoryStore) Close() error { return nil }
