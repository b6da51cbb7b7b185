//go:generate go run go.uber.org/mock/mockgen -source=product.go -destination=../mocks/mock_product_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"plaza/domain"
	"plaza/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IProductRepository interface {
	Save(product domain.Product) (domain.Product, error)
	GetAll() ([]domain.Product, error)
	FindByID(id uuid.UUID) (domain.Product, error)
}

type ProductRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewProductRepository(db *badger.DB, log *slog.Logger) ProductRepository {
	return ProductRepository{db: db, log: log}
}

// Same key scheme as messages: creation order is the catalog order.
func productKey(product domain.Product) []byte {
	return []byte(fmt.Sprintf("prd:%019d:%s", product.CreatedAt.UnixNano(), product.ID))
}

func (p ProductRepository) Save(product domain.Product) (domain.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(productKey(product), data)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (p ProductRepository) GetAll() ([]domain.Product, error) {
	var products []domain.Product
	err := p.db.View(func(txn *badger.Txn) error {
		prefix := []byte("prd:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var product domain.Product
				if err := json.Unmarshal(val, &product); err != nil {
					return err
				}
				products = append(products, product)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (p ProductRepository) FindByID(id uuid.UUID) (domain.Product, error) {
	products, err := p.GetAll()
	if err != nil {
		return domain.Product{}, err
	}
	for _, product := range products {
		if product.ID == id {
			return product, nil
		}
	}
	return domain.Product{}, errors.ErrNotFound
}
