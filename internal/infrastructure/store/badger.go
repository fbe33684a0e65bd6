package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/recipebook/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Key layout
const (
	recipeKeyPrefix = "recipe:"
	recipeSeqKey    = "seq:recipe"
	seqBandwidth    = 100
)

// BadgerRecipeStore implements domain.RecipeRepository on BadgerDB
type BadgerRecipeStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// OpenBadger opens (or creates) a badger database at path.
// An empty path opens an in-memory database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// NewBadgerRecipeStore creates a store on an open database.
// Call Close to release the ID sequence; the database is owned by the caller.
func NewBadgerRecipeStore(db *badger.DB) (*BadgerRecipeStore, error) {
	seq, err := db.GetSequence([]byte(recipeSeqKey), seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("get recipe sequence: %w", err)
	}
	return &BadgerRecipeStore{db: db, seq: seq}, nil
}

// Close releases the ID sequence lease
func (s *BadgerRecipeStore) Close() error {
	return s.seq.Release()
}

// recipeKey zero-pads IDs so keys iterate in ID order
func recipeKey(id int64) []byte {
	return []byte(recipeKeyPrefix + fmt.Sprintf("%020d", id))
}

// Create stores a recipe and assigns its ID. CreatedAt defaults to now.
func (s *BadgerRecipeStore) Create(ctx context.Context, recipe *domain.Recipe) error {
	next, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next recipe id: %w", err)
	}

	recipe.ID = int64(next) + 1
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recipeKey(recipe.ID), data)
	}); err != nil {
		return fmt.Errorf("set recipe %d: %w", recipe.ID, err)
	}

	log.Debug().Msgf("[STORE] created recipe %d %q", recipe.ID, recipe.Title)
	return nil
}

// GetByID retrieves a single recipe
func (s *BadgerRecipeStore) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recipeKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrRecipeNotFound
		}
		if err != nil {
			return fmt.Errorf("get recipe %d: %w", id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &recipe)
		})
	})
	if err != nil {
		return nil, err
	}

	return &recipe, nil
}

// List returns the recipes passing filter, newest first
func (s *BadgerRecipeStore) List(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	var recipes []domain.Recipe

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recipeKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var r domain.Recipe
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if filter.Matches(r) {
				recipes = append(recipes, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(recipes)
	return recipes, nil
}
