package dashboard

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/etcd-io/bbolt"
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(db *bbolt.DB) Store {
	return &BoltStore{db: db}
}

var (
	pinnedComparisonsBucketName = []byte("pinnedComparisons")
	metaBucketName              = []byte("meta")
)

func (rs *BoltStore) bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	if !tx.Writable() {
		bkt := tx.Bucket(name)

		if bkt == nil {
			return nil, bbolt.ErrBucketNotFound
		}

		return bkt, nil
	}

	return tx.CreateBucketIfNotExists(name)
}

func (rs *BoltStore) encode(data interface{}) ([]byte, error) {
	return json.Marshal(data)
}

func (rs *BoltStore) decode(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

func (rs *BoltStore) UpsertPinnedComparison(p *PinnedComparison) error {
	p.Updated = time.Now()

	return rs.db.Update(func(tx *bbolt.Tx) error {
		bkt, err := rs.bucket(tx, pinnedComparisonsBucketName)

		if err != nil {
			return err
		}

		data, err := rs.encode(p)

		if err != nil {
			return err
		}

		return bkt.Put([]byte(p.ID.String()), data)
	})
}

func (rs *BoltStore) ListPinnedComparisons() ([]*PinnedComparison, error) {
	var pinned []*PinnedComparison

	err := rs.db.View(func(tx *bbolt.Tx) error {
		bkt, err := rs.bucket(tx, pinnedComparisonsBucketName)

		if err == bbolt.ErrBucketNotFound {
			return nil
		} else if err != nil {
			return err
		}

		return bkt.ForEach(func(k, v []byte) error {
			var p *PinnedComparison

			if err := rs.decode(v, &p); err != nil {
				return err
			}

			if !p.Deleted.IsZero() {
				return nil // continue
			}

			pinned = append(pinned, p)

			return nil
		})
	})

	sort.Slice(pinned, func(i, j int) bool {
		return pinned[i].Created.After(pinned[j].Created)
	})

	return pinned, err
}

func (rs *BoltStore) LoadPinnedComparison(id string) (*PinnedComparison, error) {
	var p *PinnedComparison

	err := rs.db.View(func(tx *bbolt.Tx) error {
		bkt, err := rs.bucket(tx, pinnedComparisonsBucketName)

		if err == bbolt.ErrBucketNotFound {
			return ErrPinnedComparisonNotFound
		} else if err != nil {
			return err
		}

		data := bkt.Get([]byte(id))

		if data == nil {
			return ErrPinnedComparisonNotFound
		}

		return rs.decode(data, &p)
	})

	if err != nil {
		return nil, err
	}

	return p, nil
}

func (rs *BoltStore) DeletePinnedComparison(id string) error {
	p, err := rs.LoadPinnedComparison(id)

	if err != nil {
		return err
	}

	p.Deleted = time.Now()

	return rs.UpsertPinnedComparison(p)
}

func (rs *BoltStore) SetMeta(key string, value interface{}) error {
	return rs.db.Update(func(tx *bbolt.Tx) error {
		bkt, err := rs.bucket(tx, metaBucketName)

		if err != nil {
			return err
		}

		enc, err := rs.encode(value)

		if err != nil {
			return err
		}

		return bkt.Put([]byte(key), enc)
	})
}

func (rs *BoltStore) GetMeta(key string, out interface{}) error {
	return rs.db.View(func(tx *bbolt.Tx) error {
		bkt, err := rs.bucket(tx, metaBucketName)

		if err == bbolt.ErrBucketNotFound {
			return ErrValueNotSet
		} else if err != nil {
			return err
		}

		val := bkt.Get([]byte(key))

		if val == nil {
			return ErrValueNotSet
		}

		return rs.decode(val, out)
	})
}

func (rs *BoltStore) Close() error {
	return rs.db.Close()
}
