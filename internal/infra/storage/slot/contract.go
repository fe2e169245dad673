package slot

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxManager выполняет проверку и запись в одной сериализуемой транзакции
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
