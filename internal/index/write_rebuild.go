package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"portfolio/internal/domain/content"

	bolt "go.etcd.io/bbolt"
)

// ErrDuplicateID is returned by Save when two articles share an ID.
var ErrDuplicateID = errors.New("index: duplicate article id")

// Save replaces the stored snapshot in a single transaction. Article IDs must
// be unique; a list repeating one is rejected and the stored snapshot is kept.
func (s *Store) Save(snap content.Snapshot) error {
	seen := make(map[int64]int, len(snap.Articles))
	for i, a := range snap.Articles {
		if j, ok := seen[a.ID]; ok {
			return fmt.Errorf("%w %d at positions %d and %d", ErrDuplicateID, a.ID, j, i)
		}
		seen[a.ID] = i
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bArticles, bOrder, bState} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}

		artB, err := tx.CreateBucket(bArticles)
		if err != nil {
			return err
		}
		orderB, err := tx.CreateBucket(bOrder)
		if err != nil {
			return err
		}
		stateB, err := tx.CreateBucket(bState)
		if err != nil {
			return err
		}

		for i, a := range snap.Articles {
			ab, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("index: encode article %d: %w", a.ID, err)
			}
			if err := artB.Put(idKey(a.ID), ab); err != nil {
				return err
			}
			if err := orderB.Put(positionKey(i), idKey(a.ID)); err != nil {
				return err
			}
		}

		if err := stateB.Put(kFetchedAt, encodeTime(snap.FetchedAt)); err != nil {
			return err
		}
		if err := stateB.Put(kFingerprint, []byte(snap.Fingerprint)); err != nil {
			return err
		}
		return stateB.Put(kSource, []byte(snap.Source))
	})
}
