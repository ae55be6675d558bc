/*
 * @Author:    thepoy
 * @File Name: snapshot.go
 */

package asyncrawler

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/go-predator/asyncrawler/queue"
	"github.com/go-predator/asyncrawler/store"
	"github.com/go-predator/asyncrawler/transaction"
)

// snapshotKey is the reserved store key spec.md §4.9/§6 holds the queue
// snapshot pair under, outside the fingerprint keyspace — no well-formed
// Transaction's MD5-derived decimal fingerprint collides with a literal
// word.
const snapshotKey = "queue"

type snapshotPair struct {
	Download []*transaction.Transaction `json:"download"`
	Scrape   []*transaction.Transaction `json:"scrape"`
}

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// saveQueue drains both queues into an ordered pair and stores it under the
// reserved snapshot key, spec.md §4.9.
func saveQueue(s store.Store, dl, scrape *queue.Queue[*transaction.Transaction]) error {
	pair := snapshotPair{
		Download: dl.DrainAll(),
		Scrape:   scrape.DrainAll(),
	}

	blob, err := snapshotJSON.Marshal(pair)
	if err != nil {
		return err
	}
	return s.Put(snapshotKey, blob)
}

// loadQueue reads the snapshot pair, if present, and restores each queue in
// the order it was stored. It reports true iff at least one item was
// restored.
func loadQueue(s store.Store, dl, scrape *queue.Queue[*transaction.Transaction]) (bool, error) {
	blob, _, err := s.Get(snapshotKey)
	if err != nil {
		if err == store.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	var pair snapshotPair
	if err := snapshotJSON.Unmarshal(blob, &pair); err != nil {
		return false, err
	}

	dl.RestoreAll(pair.Download)
	scrape.RestoreAll(pair.Scrape)

	return len(pair.Download)+len(pair.Scrape) > 0, nil
}

// clearQueue deletes the reserved snapshot key if present, spec.md §4.9.
func clearQueue(s store.Store) error {
	if err := s.Del(snapshotKey); err != nil && err != store.ErrNotFound {
		return err
	}
	return nil
}
