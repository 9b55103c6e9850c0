package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"portfolio/internal/domain/content"

	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("not found")

// Load returns the stored snapshot, or ErrNotFound when nothing was saved yet.
func (s *Store) Load() (content.Snapshot, error) {
	var snap content.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		stateB := tx.Bucket(bState)
		artB := tx.Bucket(bArticles)
		orderB := tx.Bucket(bOrder)
		if stateB == nil || artB == nil || orderB == nil {
			return ErrNotFound
		}

		snap.FetchedAt = decodeTime(stateB.Get(kFetchedAt))
		snap.Fingerprint = string(stateB.Get(kFingerprint))
		snap.Source = string(stateB.Get(kSource))
		snap.Articles = []content.Article{}

		cur := orderB.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			raw := artB.Get(v)
			if raw == nil {
				id, _ := idFromKey(v)
				return fmt.Errorf("index: article %d listed but not stored", id)
			}
			var a content.Article
			if err := json.Unmarshal(raw, &a); err != nil {
				return fmt.Errorf("index: decode article: %w", err)
			}
			snap.Articles = append(snap.Articles, a)
		}
		return nil
	})
	if err != nil {
		return content.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) Get(id int64) (content.Article, error) {
	var a content.Article
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bArticles)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(idKey(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &a)
	})
	return a, err
}
