package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

const tableName = "slots"

var slotColumns = []string{
	"id",
	"salon_id",
	"employee_id",
	"slot_date",
	"start_time",
	"end_time",
	"status",
	"client_name",
	"client_email",
	"client_phone",
	"service_id",
	"source",
	"block_reason",
	"created_at",
	"updated_at",
}

// Repository SQL-хранилище слотов (PostgreSQL или SQLite)
type Repository struct {
	db        DBExecutor
	txManager TxManager
	builder   psqlbuilder.Builder
	now       func() time.Time
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor, txManager TxManager, builder psqlbuilder.Builder) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
		builder:   builder,
		now:       time.Now,
	}
}

// GetSlots возвращает материализованные слоты салона за период
// Результат упорядочен по дате, времени начала и сотруднику
func (r *Repository) GetSlots(ctx context.Context, q domain.SlotQuery) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{squirrel.Eq{"salon_id": q.SalonID}}
	if q.EmployeeID != nil {
		where = append(where, squirrel.Eq{"employee_id": *q.EmployeeID})
	}
	if !q.From.IsZero() {
		where = append(where, squirrel.GtOrEq{"slot_date": q.From})
	}
	if !q.To.IsZero() {
		where = append(where, squirrel.LtOrEq{"slot_date": q.To})
	}
	if len(q.Statuses) > 0 {
		where = append(where, squirrel.Eq{"status": statusValues(q.Statuses)})
	}

	query, args, err := r.builder.Select(slotColumns...).
		From(tableName).
		Where(where).
		OrderBy("slot_date", "start_time", "employee_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlots - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetSlots - scan slot: %w", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSlots - iterate rows: %w", ErrScanRow, err)
	}

	return slots, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	query, args, err := r.builder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(dbmetrics.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// TrySetStatus атомарно переводит слот из Expected в New
// Проверка текущего статуса, проверка пересечений и запись выполняются в одной SERIALIZABLE транзакции.
// Если слот по ключу еще не материализован, он считается свободным и создается при записи.
// Возвращает ErrConflict, если статус изменился или время сотрудника уже занято.
func (r *Repository) TrySetStatus(ctx context.Context, change domain.StatusChange) (*domain.Slot, error) {
	if err := change.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidChange, err)
	}

	var result *domain.Slot
	err := r.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Находим текущее состояние слота
		current, err := r.loadCurrent(txCtx, change)
		if err != nil {
			return err
		}

		// 2. Сверяем ожидаемый статус (несуществующий слот = available)
		currentStatus := domain.SlotStatusAvailable
		if current != nil {
			currentStatus = current.Status
		}
		if currentStatus != change.Expected {
			return fmt.Errorf("%w: expected %s, got %s", ErrConflict, change.Expected, currentStatus)
		}

		key := keyOf(change, current)
		excludeID := ""
		if current != nil {
			excludeID = current.ID
		}

		// 3. Для занимающих время статусов проверяем пересечения у сотрудника
		if change.New.IsOccupied() {
			overlaps, err := r.hasOccupiedOverlap(txCtx, key, excludeID)
			if err != nil {
				return err
			}
			if overlaps {
				return fmt.Errorf("%w: %s overlaps an occupied slot", ErrConflict, key)
			}
		}

		now := r.now().UTC()

		// 4. Записываем: создаем слот или условно обновляем существующий
		if current == nil {
			result = &domain.Slot{
				ID:         uuid.NewString(),
				SalonID:    key.SalonID,
				EmployeeID: key.EmployeeID,
				Date:       key.Date,
				StartTime:  key.StartTime,
				EndTime:    key.EndTime,
				Status:     change.New,
				Payload:    change.Payload,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			return r.insert(txCtx, result)
		}

		if err := r.conditionalUpdate(txCtx, current.ID, change.Expected, change.New, change.Payload, now); err != nil {
			return err
		}

		updated := *current
		updated.Status = change.New
		updated.Payload = change.Payload
		updated.UpdatedAt = now
		result = &updated
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrConflict), errors.Is(err, ErrSlotNotFound):
			return nil, err
		case isConflictError(err):
			return nil, fmt.Errorf("%w: TrySetStatus - %v", ErrConflict, err)
		default:
			return nil, err
		}
	}

	return result, nil
}

func (r *Repository) loadCurrent(ctx context.Context, change domain.StatusChange) (*domain.Slot, error) {
	if change.SlotID != "" {
		return r.GetByID(ctx, change.SlotID)
	}
	return r.findByKey(ctx, *change.Key)
}

// findByKey ищет слот с точным совпадением ключа; nil, если слот не материализован
func (r *Repository) findByKey(ctx context.Context, key domain.SlotKey) (*domain.Slot, error) {
	query, args, err := r.builder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{
			"salon_id":    key.SalonID,
			"employee_id": key.EmployeeID,
			"slot_date":   key.Date,
			"start_time":  key.StartTime,
			"end_time":    key.EndTime,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: findByKey - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(dbmetrics.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: findByKey - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// hasOccupiedOverlap проверяет, занято ли время сотрудника другим слотом
// Пересечение полуинтервалов: start < key.end AND end > key.start
func (r *Repository) hasOccupiedOverlap(ctx context.Context, key domain.SlotKey, excludeID string) (bool, error) {
	where := squirrel.And{
		squirrel.Eq{
			"salon_id":    key.SalonID,
			"employee_id": key.EmployeeID,
			"slot_date":   key.Date,
			"status":      statusValues(domain.OccupiedStatuses),
		},
		squirrel.Lt{"start_time": key.EndTime},
		squirrel.Gt{"end_time": key.StartTime},
	}
	if excludeID != "" {
		where = append(where, squirrel.NotEq{"id": excludeID})
	}

	query, args, err := r.builder.Select("COUNT(*)").
		From(tableName).
		Where(where).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: hasOccupiedOverlap - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := dbmetrics.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: hasOccupiedOverlap - scan count: %w", ErrExecQuery, err)
	}

	return count > 0, nil
}

func (r *Repository) insert(ctx context.Context, slot *domain.Slot) error {
	p := payloadColumns(slot.Payload)

	query, args, err := r.builder.Insert(tableName).
		Columns(slotColumns...).
		Values(
			slot.ID,
			slot.SalonID,
			slot.EmployeeID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			string(slot.Status),
			p.clientName,
			p.clientEmail,
			p.clientPhone,
			p.serviceID,
			p.source,
			p.blockReason,
			slot.CreatedAt,
			slot.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := dbmetrics.GetExecutor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) conditionalUpdate(
	ctx context.Context,
	id string,
	expected, next domain.SlotStatus,
	payload domain.SlotPayload,
	now time.Time,
) error {
	p := payloadColumns(payload)

	query, args, err := r.builder.Update(tableName).
		Set("status", string(next)).
		Set("client_name", p.clientName).
		Set("client_email", p.clientEmail).
		Set("client_phone", p.clientPhone).
		Set("service_id", p.serviceID).
		Set("source", p.source).
		Set("block_reason", p.blockReason).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id, "status": string(expected)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: conditionalUpdate - build update query: %v", ErrBuildQuery, err)
	}

	res, err := dbmetrics.GetExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: conditionalUpdate - execute update: %w", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: conditionalUpdate - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: slot %s is no longer %s", ErrConflict, id, expected)
	}

	return nil
}

func keyOf(change domain.StatusChange, current *domain.Slot) domain.SlotKey {
	if current != nil {
		return current.Key()
	}
	return *change.Key
}

func statusValues(statuses []domain.SlotStatus) []string {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return values
}

// payloadRow колонки payload; неиспользуемые для статуса колонки = NULL
type payloadRow struct {
	clientName  sql.NullString
	clientEmail sql.NullString
	clientPhone sql.NullString
	serviceID   sql.NullInt64
	source      sql.NullString
	blockReason sql.NullString
}

func payloadColumns(payload domain.SlotPayload) payloadRow {
	var row payloadRow

	switch p := payload.(type) {
	case domain.ReservedPayload:
		row.clientName = nullString(p.ClientName)
		row.clientEmail = nullString(p.Contact.Email)
		row.clientPhone = nullString(p.Contact.Phone)
		row.serviceID = sql.NullInt64{Int64: p.ServiceID, Valid: true}
		row.source = nullString(string(p.Source))
	case domain.BlockedPayload:
		row.blockReason = nullString(p.Reason)
	case domain.AvailablePayload:
	}

	return row
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var (
		slot                 domain.Slot
		status               string
		p                    payloadRow
		createdAt, updatedAt nullTime
	)

	err := row.Scan(
		&slot.ID,
		&slot.SalonID,
		&slot.EmployeeID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&status,
		&p.clientName,
		&p.clientEmail,
		&p.clientPhone,
		&p.serviceID,
		&p.source,
		&p.blockReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Status = domain.SlotStatus(status)
	slot.Payload = payloadFromRow(slot.Status, p)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// payloadFromRow восстанавливает payload по статусу; для неизвестного статуса nil
func payloadFromRow(status domain.SlotStatus, p payloadRow) domain.SlotPayload {
	switch status {
	case domain.SlotStatusAvailable:
		return domain.AvailablePayload{}
	case domain.SlotStatusReserved:
		return domain.ReservedPayload{
			ClientName: p.clientName.String,
			Contact: domain.Contact{
				Email: p.clientEmail.String,
				Phone: p.clientPhone.String,
			},
			ServiceID: p.serviceID.Int64,
			Source:    domain.BookingSource(p.source.String),
		}
	case domain.SlotStatusBlocked:
		return domain.BlockedPayload{Reason: p.blockReason.String}
	default:
		return nil
	}
}

// nullTime принимает time.Time (postgres) и текстовые метки времени (sqlite)
type nullTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

func (t *nullTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case []byte:
		return t.Scan(string(v))
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				t.Time, t.Valid = parsed, true
				return nil
			}
		}
		return fmt.Errorf("unsupported time format %q", v)
	default:
		return fmt.Errorf("unsupported time type %T", src)
	}
}
