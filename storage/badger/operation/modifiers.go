package operation

import (
	"errors"

	"github.com/dgraph-io/badger/v2"

	"github.com/lattice-foundation/lattice-go/storage"
)

// SkipDuplicates turns storage.ErrAlreadyExists into a no-op success.
func SkipDuplicates(op func(*badger.Txn) error) func(tx *badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := op(tx)
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil
		}
		return err
	}
}

// RetryOnConflict retries the given database operation for as long as it
// fails with a badger transaction conflict.
func RetryOnConflict(action func(func(*badger.Txn) error) error, op func(tx *badger.Txn) error) error {
	for {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}
