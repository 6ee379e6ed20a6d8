package sqlstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/yungbote/pitchbridge/internal/backend"
)

// table is one data table exposed through the Tables contract. The auth
// tables are deliberately absent.
type table struct {
	name   string
	typ    reflect.Type
	schema *schema.Schema
}

func (s *Store) registerTables() error {
	s.tables = map[string]*table{}
	for _, m := range []any{&Profile{}, &Idea{}, &ConnectRequest{}, &NdaRequest{}} {
		sch, err := parseSchema(m)
		if err != nil {
			return fmt.Errorf("parse schema %T: %w", m, err)
		}
		s.tables[sch.Table] = &table{name: sch.Table, typ: reflect.TypeOf(m).Elem(), schema: sch}
	}
	return nil
}

func (s *Store) table(name string) (*table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, &backend.Error{
			Status:  http.StatusNotFound,
			Code:    "42P01",
			Message: fmt.Sprintf("relation \"public.%s\" does not exist", name),
		}
	}
	return t, nil
}

func (t *table) newModel() any { return reflect.New(t.typ).Interface() }

func (t *table) newSlice() any { return reflect.New(reflect.SliceOf(t.typ)).Interface() }

func (t *table) column(name string) error {
	if _, ok := t.schema.FieldsByDBName[name]; ok {
		return nil
	}
	return &backend.Error{
		Status:  http.StatusBadRequest,
		Code:    "42703",
		Message: fmt.Sprintf("column %s.%s does not exist", t.name, name),
	}
}

func (t *table) where(tx *gorm.DB, filters []backend.Filter) (*gorm.DB, error) {
	for _, f := range filters {
		if err := t.column(f.Column); err != nil {
			return nil, err
		}
		col := clause.Column{Name: f.Column}
		switch f.Op {
		case backend.OpEq, "":
			tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
		case backend.OpIn:
			tx = tx.Where(clause.IN{Column: col, Values: f.Values()})
		default:
			return nil, &backend.Error{Status: http.StatusBadRequest, Code: "PGRST100", Message: fmt.Sprintf("unsupported operator %q", f.Op)}
		}
	}
	return tx, nil
}

func (s *Store) Select(ctx context.Context, q backend.Query, dest any) error {
	rows, err := s.selectRows(ctx, q)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", q.Table, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", q.Table, err)
	}
	return nil
}

func (s *Store) selectRows(ctx context.Context, q backend.Query) ([]map[string]any, error) {
	t, err := s.table(q.Table)
	if err != nil {
		return nil, err
	}
	tx, err := t.where(s.db.WithContext(ctx).Model(t.newModel()), q.Filters)
	if err != nil {
		return nil, err
	}
	for _, o := range q.Order {
		if err := t.column(o.Column); err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	found := t.newSlice()
	if err := tx.Find(found).Error; err != nil {
		return nil, dbError(err)
	}
	rows, err := toRows(found)
	if err != nil {
		return nil, err
	}
	for _, e := range q.Embeds {
		if err := s.embed(ctx, t, rows, e); err != nil {
			return nil, err
		}
	}
	if len(q.Columns) > 0 {
		keep := append([]string(nil), q.Columns...)
		for _, e := range q.Embeds {
			keep = append(keep, e.Alias)
		}
		for i := range rows {
			rows[i] = project(rows[i], keep)
		}
	}
	return rows, nil
}

// embed attaches the related row named by each row's foreign key, or nil.
func (s *Store) embed(ctx context.Context, t *table, rows []map[string]any, e backend.Embed) error {
	if err := t.column(e.ForeignKey); err != nil {
		return err
	}
	var ids []string
	seen := map[string]bool{}
	for _, r := range rows {
		id, _ := r[e.ForeignKey].(string)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	byID := map[string]map[string]any{}
	if len(ids) > 0 {
		related, err := s.selectRows(ctx, backend.Query{Table: e.Table, Filters: []backend.Filter{backend.In("id", ids...)}})
		if err != nil {
			return err
		}
		for _, r := range related {
			id, _ := r["id"].(string)
			byID[id] = r
		}
	}
	for _, r := range rows {
		id, _ := r[e.ForeignKey].(string)
		rel, ok := byID[id]
		if !ok {
			r[e.Alias] = nil
			continue
		}
		if len(e.Columns) > 0 {
			rel = project(rel, e.Columns)
		}
		r[e.Alias] = rel
	}
	return nil
}

func (s *Store) Count(ctx context.Context, tableName string, filters ...backend.Filter) (int64, error) {
	t, err := s.table(tableName)
	if err != nil {
		return 0, err
	}
	tx, err := t.where(s.db.WithContext(ctx).Model(t.newModel()), filters)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

func (s *Store) Insert(ctx context.Context, tableName string, row map[string]any) error {
	t, err := s.table(tableName)
	if err != nil {
		return err
	}
	for col := range row {
		if err := t.column(col); err != nil {
			return err
		}
	}
	m := t.newModel()
	raw, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", tableName, err)
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return &backend.Error{Status: http.StatusBadRequest, Code: "22P02", Message: "invalid input syntax: " + err.Error()}
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, tableName string, fields map[string]any, filters ...backend.Filter) error {
	t, err := s.table(tableName)
	if err != nil {
		return err
	}
	if len(filters) == 0 {
		return &backend.Error{Status: http.StatusBadRequest, Code: "21000", Message: "UPDATE requires a WHERE clause"}
	}
	for col := range fields {
		if err := t.column(col); err != nil {
			return err
		}
	}
	tx, err := t.where(s.db.WithContext(ctx).Model(t.newModel()), filters)
	if err != nil {
		return err
	}
	if err := tx.Updates(fields).Error; err != nil {
		return dbError(err)
	}
	return nil
}

// Increment adds by to column in one statement and returns the stored value.
func (s *Store) Increment(ctx context.Context, tableName, column string, by int, filters ...backend.Filter) (int, error) {
	t, err := s.table(tableName)
	if err != nil {
		return 0, err
	}
	if err := t.column(column); err != nil {
		return 0, err
	}
	if len(filters) == 0 {
		return 0, &backend.Error{Status: http.StatusBadRequest, Code: "21000", Message: "UPDATE requires a WHERE clause"}
	}
	var value int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upd, err := t.where(tx.Model(t.newModel()), filters)
		if err != nil {
			return err
		}
		res := upd.UpdateColumn(column, gorm.Expr("? + ?", clause.Column{Name: column}, by))
		if res.Error != nil {
			return dbError(res.Error)
		}
		if res.RowsAffected == 0 {
			return backend.ErrNoRows
		}
		read, err := t.where(tx.Model(t.newModel()), filters)
		if err != nil {
			return err
		}
		var values []int
		if err := read.Limit(1).Pluck(column, &values).Error; err != nil {
			return dbError(err)
		}
		if len(values) == 0 {
			return backend.ErrNoRows
		}
		value = values[0]
		return nil
	})
	return value, err
}

func toRows(slice any) ([]map[string]any, error) {
	raw, err := json.Marshal(slice)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func project(row map[string]any, cols []string) map[string]any {
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		if c == "*" {
			return row
		}
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}

func dbError(err error) error {
	var be *backend.Error
	switch {
	case errors.As(err, &be):
		return be
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &backend.Error{Status: http.StatusConflict, Code: "23505", Message: err.Error()}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &backend.Error{Status: http.StatusConflict, Code: "23503", Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &backend.Error{Status: http.StatusInternalServerError, Code: "db_error", Message: err.Error()}
	}
}
