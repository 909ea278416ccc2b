// Package docstore is the gorm-backed generic document store behind the
// document service. Doctypes and fields come from a registry; nothing a client
// sends is interpolated into SQL unless the registry lists it.
package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

const maxLimit = 500

type Store struct {
	db       *gorm.DB
	registry Registry
	logger   *slog.Logger
}

func NewStore(db *gorm.DB, registry Registry, logger *slog.Logger) *Store {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, registry: registry, logger: logger}
}

func (s *Store) doctype(name string) (Doctype, error) {
	dt, ok := s.registry[name]
	if !ok {
		return Doctype{}, errors.NewValidationError(fmt.Sprintf("Unknown doctype %q", name), errors.ErrCodeUnknownDoctype)
	}
	return dt, nil
}

func unknownField(dt Doctype, field string) error {
	return errors.NewValidationFieldError(field, fmt.Sprintf("%s has no field %q", dt.Name, field), errors.ErrCodeUnknownField)
}

func (s *Store) Find(ctx context.Context, doctype string, query docservice.ListQuery) ([]docservice.Record, error) {
	dt, err := s.doctype(doctype)
	if err != nil {
		return nil, err
	}

	fields := query.Fields
	if len(fields) == 0 {
		fields = dt.Fields
	}
	for _, f := range fields {
		if !dt.allows(f) {
			return nil, unknownField(dt, f)
		}
	}

	tx := s.db.WithContext(ctx).Table(dt.Table).Select(fields)
	for _, filter := range query.Filters {
		if tx, err = applyFilter(tx, dt, filter); err != nil {
			return nil, err
		}
	}

	order, err := orderClause(dt, query.OrderBy)
	if err != nil {
		return nil, err
	}
	tx = tx.Order(order)

	limit := query.Limit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	tx = tx.Limit(limit)

	var rows []map[string]interface{}
	if err := tx.Find(&rows).Error; err != nil {
		s.logger.Error("document query failed", "error", err, "doctype", doctype)
		return nil, fmt.Errorf("list %s: %w", doctype, err)
	}
	return toRecords(rows), nil
}

func applyFilter(tx *gorm.DB, dt Doctype, f docservice.Filter) (*gorm.DB, error) {
	if !dt.allows(f.Field) {
		return nil, unknownField(dt, f.Field)
	}
	switch f.Operator {
	case docservice.OpEquals, "":
		return tx.Where(fmt.Sprintf("%s = ?", f.Field), f.Value), nil
	case docservice.OpIn:
		values := f.Strings()
		if len(values) == 0 {
			return tx.Where("1 = 0"), nil
		}
		return tx.Where(fmt.Sprintf("%s IN ?", f.Field), values), nil
	case docservice.OpLike:
		return tx.Where(fmt.Sprintf("%s LIKE ?", f.Field), fmt.Sprint(f.Value)), nil
	}
	return nil, errors.NewValidationFieldError(f.Field, fmt.Sprintf("unsupported operator %q", f.Operator), errors.ErrCodeInvalidFilter)
}

func orderClause(dt Doctype, orderBy string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		if dt.allows("created_at") {
			return "created_at DESC", nil
		}
		return "name ASC", nil
	}
	parts := strings.Fields(orderBy)
	if len(parts) > 2 || !dt.allows(parts[0]) {
		return "", unknownField(dt, parts[0])
	}
	direction := "ASC"
	if len(parts) == 2 {
		switch strings.ToUpper(parts[1]) {
		case "ASC":
		case "DESC":
			direction = "DESC"
		default:
			return "", errors.NewValidationFieldError("order_by", "order direction must be asc or desc", errors.ErrCodeInvalidFilter)
		}
	}
	return parts[0] + " " + direction, nil
}

func (s *Store) Get(ctx context.Context, doctype, name string) (docservice.Record, error) {
	dt, err := s.doctype(doctype)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	err = s.db.WithContext(ctx).Table(dt.Table).Select(dt.Fields).Where("name = ?", name).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", doctype, name, err)
	}
	if len(rows) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("%s %s not found", doctype, name), errors.ErrCodeDocumentNotFound)
	}
	rec := docservice.Record(rows[0])

	for _, child := range dt.Children {
		var childRows []map[string]interface{}
		err := s.db.WithContext(ctx).Table(child.Table).Select(child.Fields).
			Where("parent = ?", name).Order("idx ASC").Find(&childRows).Error
		if err != nil {
			return nil, fmt.Errorf("get %s %s.%s: %w", doctype, name, child.Field, err)
		}
		rec[child.Field] = toRecords(childRows)
	}
	return rec, nil
}

func (s *Store) Insert(ctx context.Context, doctype string, record docservice.Record) error {
	dt, err := s.doctype(doctype)
	if err != nil {
		return err
	}
	values := make(map[string]interface{}, len(record))
	for field, value := range record {
		if !dt.allows(field) {
			return unknownField(dt, field)
		}
		values[field] = value
	}
	if record.String("name") == "" {
		return errors.NewValidationFieldError("name", "name is required", errors.ErrCodeValidationFailed)
	}
	if err := s.db.WithContext(ctx).Table(dt.Table).Create(values).Error; err != nil {
		return fmt.Errorf("insert %s: %w", doctype, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, doctype, name string) error {
	dt, err := s.doctype(doctype)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range dt.Children {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE parent = ?", child.Table), name).Error; err != nil {
				return err
			}
		}
		res := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE name = ?", dt.Table), name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.NewNotFoundError(fmt.Sprintf("%s %s not found", doctype, name), errors.ErrCodeDocumentNotFound)
		}
		return nil
	})
}

func toRecords(rows []map[string]interface{}) []docservice.Record {
	records := make([]docservice.Record, len(rows))
	for i, row := range rows {
		records[i] = docservice.Record(row)
	}
	return records
}
