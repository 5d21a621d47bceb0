package service

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Kenil818282/caratbridge-secret-finder1/model"
)

// BoltStore persists the document as one JSON value in a bbolt bucket.
// bbolt serializes writers, which gives every mutation the required
// read-modify-write atomicity.
type BoltStore struct {
	db *bolt.DB
}

var (
	bucketState = []byte("state")
	keyDocument = []byte("document")
)

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketState)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

func decodeDocument(raw []byte) (model.Document, error) {
	if raw == nil {
		return model.NewDocument(), nil
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Document{}, err
	}
	if doc.Leads == nil {
		doc.Leads = make(map[string]model.Lead)
	}
	if doc.MonitoredTags == nil {
		doc.MonitoredTags = []string{}
	}
	return doc, nil
}

func (s *BoltStore) Load() (model.Document, error) {
	var doc model.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		var e error
		doc, e = decodeDocument(tx.Bucket(bucketState).Get(keyDocument))
		return e
	})
	return doc, err
}

// update runs fn against the current document inside one write transaction
// and persists the result
func (s *BoltStore) update(fn func(doc *model.Document) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		doc, err := decodeDocument(bucket.Get(keyDocument))
		if err != nil {
			return err
		}
		if err := fn(&doc); err != nil {
			return err
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return bucket.Put(keyDocument, raw)
	})
}

func (s *BoltStore) AddLeads(candidates []model.Lead) ([]model.Lead, error) {
	var added []model.Lead
	err := s.update(func(doc *model.Document) error {
		added = addLeadsToDoc(doc, candidates)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *BoltStore) AddTag(tag string) error {
	tag = NormalizeTag(tag)
	if tag == "" {
		return fmt.Errorf("tag required")
	}
	return s.update(func(doc *model.Document) error {
		if doc.HasTag(tag) {
			return nil
		}
		doc.MonitoredTags = append(doc.MonitoredTags, tag)
		return nil
	})
}

func (s *BoltStore) RemoveTag(tag string) error {
	tag = NormalizeTag(tag)
	return s.update(func(doc *model.Document) error {
		for i, t := range doc.MonitoredTags {
			if t == tag {
				doc.MonitoredTags = append(doc.MonitoredTags[:i], doc.MonitoredTags[i+1:]...)
				break
			}
		}
		return nil
	})
}

func (s *BoltStore) SetRunning(running bool) error {
	return s.update(func(doc *model.Document) error {
		doc.IsRunning = running
		return nil
	})
}
