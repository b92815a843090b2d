package store

import (
	bolt "go.etcd.io/bbolt"
	. "src.sexp.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize bindings table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketBindings))
		return err
	}
}

// Binding gets the printed value of a persisted binding.
func (s *dbStore) Binding(name string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBindings))
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNoBinding
		}
		value = string(v)
		return nil
	})
	return value, err
}

// SetBinding persists a binding, replacing any old value.
func (s *dbStore) SetBinding(name, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBindings))
		return b.Put([]byte(name), []byte(value))
	})
}

// DelBinding deletes a persisted binding. Deleting a binding that does not
// exist is not an error.
func (s *dbStore) DelBinding(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBindings))
		return b.Delete([]byte(name))
	})
}

// Bindings returns all persisted bindings, in the order of their names.
func (s *dbStore) Bindings() ([]Binding, error) {
	var bindings []Binding
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBindings))
		return b.ForEach(func(k, v []byte) error {
			bindings = append(bindings, Binding{Name: string(k), Value: string(v)})
			return nil
		})
	})
	return bindings, err
}
