package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

type txKey struct{}

// TxManager реализует repository.Transactor
type TxManager struct {
	db *gorm.DB
}

// NewTxManager создает менеджер транзакций
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTransaction выполняет fn в транзакции; вложенный вызов переиспользует внешнюю транзакцию
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn возвращает транзакцию из ctx, если она есть, иначе общий пул
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// mapError переводит ошибки gorm в ошибки приложения
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrConflict
	default:
		return err
	}
}

// rowsOrNotFound возвращает ErrNotFound, если запрос не затронул ни одной строки
func rowsOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
