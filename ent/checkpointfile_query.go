// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"fmt"
	"math"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/kiln-dev/kiln/ent/checkpoint"
	"github.com/kiln-dev/kiln/ent/checkpointfile"
	"github.com/kiln-dev/kiln/ent/predicate"
)

// CheckpointFileQuery is the builder for querying CheckpointFile entities.
type CheckpointFileQuery struct {
	config
	ctx            *QueryContext
	order          []checkpointfile.OrderOption
	inters         []Interceptor
	predicates     []predicate.CheckpointFile
	withCheckpoint *CheckpointQuery
	modifiers      []func(*sql.Selector)
	// intermediate query (i.e. traversal path).
	sql  *sql.Selector
	path func(context.Context) (*sql.Selector, error)
}

// Where adds a new predicate for the CheckpointFileQuery builder.
func (_q *CheckpointFileQuery) Where(ps ...predicate.CheckpointFile) *CheckpointFileQuery {
	_q.predicates = append(_q.predicates, ps...)
	return _q
}

// Limit the number of records to be returned by this query.
func (_q *CheckpointFileQuery) Limit(limit int) *CheckpointFileQuery {
	_q.ctx.Limit = &limit
	return _q
}

// Offset to start from.
func (_q *CheckpointFileQuery) Offset(offset int) *CheckpointFileQuery {
	_q.ctx.Offset = &offset
	return _q
}

// Unique configures the query builder to filter duplicate records on query.
// By default, unique is set to true, and can be disabled using this method.
func (_q *CheckpointFileQuery) Unique(unique bool) *CheckpointFileQuery {
	_q.ctx.Unique = &unique
	return _q
}

// Order specifies how the records should be ordered.
func (_q *CheckpointFileQuery) Order(o ...checkpointfile.OrderOption) *CheckpointFileQuery {
	_q.order = append(_q.order, o...)
	return _q
}

// QueryCheckpoint chains the current query on the "checkpoint" edge.
func (_q *CheckpointFileQuery) QueryCheckpoint() *CheckpointQuery {
	query := (&CheckpointClient{config: _q.config}).Query()
	query.path = func(ctx context.Context) (fromU *sql.Selector, err error) {
		if err := _q.prepareQuery(ctx); err != nil {
			return nil, err
		}
		selector := _q.sqlQuery(ctx)
		if err := selector.Err(); err != nil {
			return nil, err
		}
		step := sqlgraph.NewStep(
			sqlgraph.From(checkpointfile.Table, checkpointfile.FieldID, selector),
			sqlgraph.To(checkpoint.Table, checkpoint.FieldID),
			sqlgraph.Edge(sqlgraph.M2O, true, checkpointfile.CheckpointTable, checkpointfile.CheckpointColumn),
		)
		fromU = sqlgraph.SetNeighbors(_q.driver.Dialect(), step)
		return fromU, nil
	}
	return query
}

// First returns the first CheckpointFile entity from the query.
// Returns a *NotFoundError when no CheckpointFile was found.
func (_q *CheckpointFileQuery) First(ctx context.Context) (*CheckpointFile, error) {
	nodes, err := _q.Limit(1).All(setContextOp(ctx, _q.ctx, ent.OpQueryFirst))
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, &NotFoundError{checkpointfile.Label}
	}
	return nodes[0], nil
}

// FirstX is like First, but panics if an error occurs.
func (_q *CheckpointFileQuery) FirstX(ctx context.Context) *CheckpointFile {
	node, err := _q.First(ctx)
	if err != nil && !IsNotFound(err) {
		panic(err)
	}
	return node
}

// FirstID returns the first CheckpointFile ID from the query.
// Returns a *NotFoundError when no CheckpointFile ID was found.
func (_q *CheckpointFileQuery) FirstID(ctx context.Context) (id string, err error) {
	var ids []string
	if ids, err = _q.Limit(1).IDs(setContextOp(ctx, _q.ctx, ent.OpQueryFirstID)); err != nil {
		return
	}
	if len(ids) == 0 {
		err = &NotFoundError{checkpointfile.Label}
		return
	}
	return ids[0], nil
}

// FirstIDX is like FirstID, but panics if an error occurs.
func (_q *CheckpointFileQuery) FirstIDX(ctx context.Context) string {
	id, err := _q.FirstID(ctx)
	if err != nil && !IsNotFound(err) {
		panic(err)
	}
	return id
}

// Only returns a single CheckpointFile entity found by the query, ensuring it only returns one.
// Returns a *NotSingularError when more than one CheckpointFile entity is found.
// Returns a *NotFoundError when no CheckpointFile entities are found.
func (_q *CheckpointFileQuery) Only(ctx context.Context) (*CheckpointFile, error) {
	nodes, err := _q.Limit(2).All(setContextOp(ctx, _q.ctx, ent.OpQueryOnly))
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 1:
		return nodes[0], nil
	case 0:
		return nil, &NotFoundError{checkpointfile.Label}
	default:
		return nil, &NotSingularError{checkpointfile.Label}
	}
}

// OnlyX is like Only, but panics if an error occurs.
func (_q *CheckpointFileQuery) OnlyX(ctx context.Context) *CheckpointFile {
	node, err := _q.Only(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// OnlyID is like Only, but returns the only CheckpointFile ID in the query.
// Returns a *NotSingularError when more than one CheckpointFile ID is found.
// Returns a *NotFoundError when no entities are found.
func (_q *CheckpointFileQuery) OnlyID(ctx context.Context) (id string, err error) {
	var ids []string
	if ids, err = _q.Limit(2).IDs(setContextOp(ctx, _q.ctx, ent.OpQueryOnlyID)); err != nil {
		return
	}
	switch len(ids) {
	case 1:
		id = ids[0]
	case 0:
		err = &NotFoundError{checkpointfile.Label}
	default:
		err = &NotSingularError{checkpointfile.Label}
	}
	return
}

// OnlyIDX is like OnlyID, but panics if an error occurs.
func (_q *CheckpointFileQuery) OnlyIDX(ctx context.Context) string {
	id, err := _q.OnlyID(ctx)
	if err != nil {
		panic(err)
	}
	return id
}

// All executes the query and returns a list of CheckpointFiles.
func (_q *CheckpointFileQuery) All(ctx context.Context) ([]*CheckpointFile, error) {
	ctx = setContextOp(ctx, _q.ctx, ent.OpQueryAll)
	if err := _q.prepareQuery(ctx); err != nil {
		return nil, err
	}
	qr := querierAll[[]*CheckpointFile, *CheckpointFileQuery]()
	return withInterceptors[[]*CheckpointFile](ctx, _q, qr, _q.inters)
}

// AllX is like All, but panics if an error occurs.
func (_q *CheckpointFileQuery) AllX(ctx context.Context) []*CheckpointFile {
	nodes, err := _q.All(ctx)
	if err != nil {
		panic(err)
	}
	return nodes
}

// IDs executes the query and returns a list of CheckpointFile IDs.
func (_q *CheckpointFileQuery) IDs(ctx context.Context) (ids []string, err error) {
	if _q.ctx.Unique == nil && _q.path != nil {
		_q.Unique(true)
	}
	ctx = setContextOp(ctx, _q.ctx, ent.OpQueryIDs)
	if err = _q.Select(checkpointfile.FieldID).Scan(ctx, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// IDsX is like IDs, but panics if an error occurs.
func (_q *CheckpointFileQuery) IDsX(ctx context.Context) []string {
	ids, err := _q.IDs(ctx)
	if err != nil {
		panic(err)
	}
	return ids
}

// Count returns the count of the given query.
func (_q *CheckpointFileQuery) Count(ctx context.Context) (int, error) {
	ctx = setContextOp(ctx, _q.ctx, ent.OpQueryCount)
	if err := _q.prepareQuery(ctx); err != nil {
		return 0, err
	}
	return withInterceptors[int](ctx, _q, querierCount[*CheckpointFileQuery](), _q.inters)
}

// CountX is like Count, but panics if an error occurs.
func (_q *CheckpointFileQuery) CountX(ctx context.Context) int {
	count, err := _q.Count(ctx)
	if err != nil {
		panic(err)
	}
	return count
}

// Exist returns true if the query has elements in the graph.
func (_q *CheckpointFileQuery) Exist(ctx context.Context) (bool, error) {
	ctx = setContextOp(ctx, _q.ctx, ent.OpQueryExist)
	switch _, err := _q.FirstID(ctx); {
	case IsNotFound(err):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("ent: check existence: %w", err)
	default:
		return true, nil
	}
}

// ExistX is like Exist, but panics if an error occurs.
func (_q *CheckpointFileQuery) ExistX(ctx context.Context) bool {
	exist, err := _q.Exist(ctx)
	if err != nil {
		panic(err)
	}
	return exist
}

// Clone returns a duplicate of the CheckpointFileQuery builder, including all associated steps. It can be
// used to prepare common query builders and use them differently after the clone is made.
func (_q *CheckpointFileQuery) Clone() *CheckpointFileQuery {
	if _q == nil {
		return nil
	}
	return &CheckpointFileQuery{
		config:         _q.config,
		ctx:            _q.ctx.Clone(),
		order:          append([]checkpointfile.OrderOption{}, _q.order...),
		inters:         append([]Interceptor{}, _q.inters...),
		predicates:     append([]predicate.CheckpointFile{}, _q.predicates...),
		withCheckpoint: _q.withCheckpoint.Clone(),
		// clone intermediate query.
		sql:  _q.sql.Clone(),
		path: _q.path,
	}
}

// WithCheckpoint tells the query-builder to eager-load the nodes that are connected to
// the "checkpoint" edge. The optional arguments are used to configure the query builder of the edge.
func (_q *CheckpointFileQuery) WithCheckpoint(opts ...func(*CheckpointQuery)) *CheckpointFileQuery {
	query := (&CheckpointClient{config: _q.config}).Query()
	for _, opt := range opts {
		opt(query)
	}
	_q.withCheckpoint = query
	return _q
}

// GroupBy is used to group vertices by one or more fields/columns.
// It is often used with aggregate functions, like: count, max, mean, min, sum.
//
// Example:
//
//	var v []struct {
//		CheckpointID string `json:"checkpoint_id,omitempty"`
//		Count int `json:"count,omitempty"`
//	}
//
//	client.CheckpointFile.Query().
//		GroupBy(checkpointfile.FieldCheckpointID).
//		Aggregate(ent.Count()).
//		Scan(ctx, &v)
func (_q *CheckpointFileQuery) GroupBy(field string, fields ...string) *CheckpointFileGroupBy {
	_q.ctx.Fields = append([]string{field}, fields...)
	grbuild := &CheckpointFileGroupBy{build: _q}
	grbuild.flds = &_q.ctx.Fields
	grbuild.label = checkpointfile.Label
	grbuild.scan = grbuild.Scan
	return grbuild
}

// Select allows the selection one or more fields/columns for the given query,
// instead of selecting all fields in the entity.
//
// Example:
//
//	var v []struct {
//		CheckpointID string `json:"checkpoint_id,omitempty"`
//	}
//
//	client.CheckpointFile.Query().
//		Select(checkpointfile.FieldCheckpointID).
//		Scan(ctx, &v)
func (_q *CheckpointFileQuery) Select(fields ...string) *CheckpointFileSelect {
	_q.ctx.Fields = append(_q.ctx.Fields, fields...)
	sbuild := &CheckpointFileSelect{CheckpointFileQuery: _q}
	sbuild.label = checkpointfile.Label
	sbuild.flds, sbuild.scan = &_q.ctx.Fields, sbuild.Scan
	return sbuild
}

// Aggregate returns a CheckpointFileSelect configured with the given aggregations.
func (_q *CheckpointFileQuery) Aggregate(fns ...AggregateFunc) *CheckpointFileSelect {
	return _q.Select().Aggregate(fns...)
}

func (_q *CheckpointFileQuery) prepareQuery(ctx context.Context) error {
	for _, inter := range _q.inters {
		if inter == nil {
			return fmt.Errorf("ent: uninitialized interceptor (forgotten import ent/runtime?)")
		}
		if trv, ok := inter.(Traverser); ok {
			if err := trv.Traverse(ctx, _q); err != nil {
				return err
			}
		}
	}
	for _, f := range _q.ctx.Fields {
		if !checkpointfile.ValidColumn(f) {
			return &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
		}
	}
	if _q.path != nil {
		prev, err := _q.path(ctx)
		if err != nil {
			return err
		}
		_q.sql = prev
	}
	return nil
}

func (_q *CheckpointFileQuery) sqlAll(ctx context.Context, hooks ...queryHook) ([]*CheckpointFile, error) {
	var (
		nodes       = []*CheckpointFile{}
		_spec       = _q.querySpec()
		loadedTypes = [1]bool{
			_q.withCheckpoint != nil,
		}
	)
	_spec.ScanValues = func(columns []string) ([]any, error) {
		return (*CheckpointFile).scanValues(nil, columns)
	}
	_spec.Assign = func(columns []string, values []any) error {
		node := &CheckpointFile{config: _q.config}
		nodes = append(nodes, node)
		node.Edges.loadedTypes = loadedTypes
		return node.assignValues(columns, values)
	}
	if len(_q.modifiers) > 0 {
		_spec.Modifiers = _q.modifiers
	}
	for i := range hooks {
		hooks[i](ctx, _spec)
	}
	if err := sqlgraph.QueryNodes(ctx, _q.driver, _spec); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nodes, nil
	}
	if query := _q.withCheckpoint; query != nil {
		if err := _q.loadCheckpoint(ctx, query, nodes, nil,
			func(n *CheckpointFile, e *Checkpoint) { n.Edges.Checkpoint = e }); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

func (_q *CheckpointFileQuery) loadCheckpoint(ctx context.Context, query *CheckpointQuery, nodes []*CheckpointFile, init func(*CheckpointFile), assign func(*CheckpointFile, *Checkpoint)) error {
	ids := make([]string, 0, len(nodes))
	nodeids := make(map[string][]*CheckpointFile)
	for i := range nodes {
		fk := nodes[i].CheckpointID
		if _, ok := nodeids[fk]; !ok {
			ids = append(ids, fk)
		}
		nodeids[fk] = append(nodeids[fk], nodes[i])
	}
	if len(ids) == 0 {
		return nil
	}
	query.Where(checkpoint.IDIn(ids...))
	neighbors, err := query.All(ctx)
	if err != nil {
		return err
	}
	for _, n := range neighbors {
		nodes, ok := nodeids[n.ID]
		if !ok {
			return fmt.Errorf(`unexpected foreign-key "checkpoint_id" returned %v`, n.ID)
		}
		for i := range nodes {
			assign(nodes[i], n)
		}
	}
	return nil
}

func (_q *CheckpointFileQuery) sqlCount(ctx context.Context) (int, error) {
	_spec := _q.querySpec()
	if len(_q.modifiers) > 0 {
		_spec.Modifiers = _q.modifiers
	}
	_spec.Node.Columns = _q.ctx.Fields
	if len(_q.ctx.Fields) > 0 {
		_spec.Unique = _q.ctx.Unique != nil && *_q.ctx.Unique
	}
	return sqlgraph.CountNodes(ctx, _q.driver, _spec)
}

func (_q *CheckpointFileQuery) querySpec() *sqlgraph.QuerySpec {
	_spec := sqlgraph.NewQuerySpec(checkpointfile.Table, checkpointfile.Columns, sqlgraph.NewFieldSpec(checkpointfile.FieldID, field.TypeString))
	_spec.From = _q.sql
	if unique := _q.ctx.Unique; unique != nil {
		_spec.Unique = *unique
	} else if _q.path != nil {
		_spec.Unique = true
	}
	if fields := _q.ctx.Fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, checkpointfile.FieldID)
		for i := range fields {
			if fields[i] != checkpointfile.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, fields[i])
			}
		}
		if _q.withCheckpoint != nil {
			_spec.Node.AddColumnOnce(checkpointfile.FieldCheckpointID)
		}
	}
	if ps := _q.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if limit := _q.ctx.Limit; limit != nil {
		_spec.Limit = *limit
	}
	if offset := _q.ctx.Offset; offset != nil {
		_spec.Offset = *offset
	}
	if ps := _q.order; len(ps) > 0 {
		_spec.Order = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	return _spec
}

func (_q *CheckpointFileQuery) sqlQuery(ctx context.Context) *sql.Selector {
	builder := sql.Dialect(_q.driver.Dialect())
	t1 := builder.Table(checkpointfile.Table)
	columns := _q.ctx.Fields
	if len(columns) == 0 {
		columns = checkpointfile.Columns
	}
	selector := builder.Select(t1.Columns(columns...)...).From(t1)
	if _q.sql != nil {
		selector = _q.sql
		selector.Select(selector.Columns(columns...)...)
	}
	if _q.ctx.Unique != nil && *_q.ctx.Unique {
		selector.Distinct()
	}
	for _, m := range _q.modifiers {
		m(selector)
	}
	for _, p := range _q.predicates {
		p(selector)
	}
	for _, p := range _q.order {
		p(selector)
	}
	if offset := _q.ctx.Offset; offset != nil {
		// limit is mandatory for offset clause. We start
		// with default value, and override it below if needed.
		selector.Offset(*offset).Limit(math.MaxInt32)
	}
	if limit := _q.ctx.Limit; limit != nil {
		selector.Limit(*limit)
	}
	return selector
}

// ForUpdate locks the selected rows against concurrent updates, and prevent them from being
// updated, deleted or "selected ... for update" by other sessions, until the transaction is
// either committed or rolled-back.
func (_q *CheckpointFileQuery) ForUpdate(opts ...sql.LockOption) *CheckpointFileQuery {
	if _q.driver.Dialect() == dialect.Postgres {
		_q.Unique(false)
	}
	_q.modifiers = append(_q.modifiers, func(s *sql.Selector) {
		s.ForUpdate(opts...)
	})
	return _q
}

// ForShare behaves similarly to ForUpdate, except that it acquires a shared mode lock
// on any rows that are read. Other sessions can read the rows, but cannot modify them
// until your transaction commits.
func (_q *CheckpointFileQuery) ForShare(opts ...sql.LockOption) *CheckpointFileQuery {
	if _q.driver.Dialect() == dialect.Postgres {
		_q.Unique(false)
	}
	_q.modifiers = append(_q.modifiers, func(s *sql.Selector) {
		s.ForShare(opts...)
	})
	return _q
}

// CheckpointFileGroupBy is the group-by builder for CheckpointFile entities.
type CheckpointFileGroupBy struct {
	selector
	build *CheckpointFileQuery
}

// Aggregate adds the given aggregation functions to the group-by query.
func (_g *CheckpointFileGroupBy) Aggregate(fns ...AggregateFunc) *CheckpointFileGroupBy {
	_g.fns = append(_g.fns, fns...)
	return _g
}

// Scan applies the selector query and scans the result into the given value.
func (_g *CheckpointFileGroupBy) Scan(ctx context.Context, v any) error {
	ctx = setContextOp(ctx, _g.build.ctx, ent.OpQueryGroupBy)
	if err := _g.build.prepareQuery(ctx); err != nil {
		return err
	}
	return scanWithInterceptors[*CheckpointFileQuery, *CheckpointFileGroupBy](ctx, _g.build, _g, _g.build.inters, v)
}

func (_g *CheckpointFileGroupBy) sqlScan(ctx context.Context, root *CheckpointFileQuery, v any) error {
	selector := root.sqlQuery(ctx).Select()
	aggregation := make([]string, 0, len(_g.fns))
	for _, fn := range _g.fns {
		aggregation = append(aggregation, fn(selector))
	}
	if len(selector.SelectedColumns()) == 0 {
		columns := make([]string, 0, len(*_g.flds)+len(_g.fns))
		for _, f := range *_g.flds {
			columns = append(columns, selector.C(f))
		}
		columns = append(columns, aggregation...)
		selector.Select(columns...)
	}
	selector.GroupBy(selector.Columns(*_g.flds...)...)
	if err := selector.Err(); err != nil {
		return err
	}
	rows := &sql.Rows{}
	query, args := selector.Query()
	if err := _g.build.driver.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	return sql.ScanSlice(rows, v)
}

// CheckpointFileSelect is the builder for selecting fields of CheckpointFile entities.
type CheckpointFileSelect struct {
	*CheckpointFileQuery
	selector
}

// Aggregate adds the given aggregation functions to the selector query.
func (_s *CheckpointFileSelect) Aggregate(fns ...AggregateFunc) *CheckpointFileSelect {
	_s.fns = append(_s.fns, fns...)
	return _s
}

// Scan applies the selector query and scans the result into the given value.
func (_s *CheckpointFileSelect) Scan(ctx context.Context, v any) error {
	ctx = setContextOp(ctx, _s.ctx, ent.OpQuerySelect)
	if err := _s.prepareQuery(ctx); err != nil {
		return err
	}
	return scanWithInterceptors[*CheckpointFileQuery, *CheckpointFileSelect](ctx, _s.CheckpointFileQuery, _s, _s.inters, v)
}

func (_s *CheckpointFileSelect) sqlScan(ctx context.Context, root *CheckpointFileQuery, v any) error {
	selector := root.sqlQuery(ctx)
	aggregation := make([]string, 0, len(_s.fns))
	for _, fn := range _s.fns {
		aggregation = append(aggregation, fn(selector))
	}
	switch n := len(*_s.selector.flds); {
	case n == 0 && len(aggregation) > 0:
		selector.Select(aggregation...)
	case n != 0 && len(aggregation) > 0:
		selector.AppendSelect(aggregation...)
	}
	rows := &sql.Rows{}
	query, args := selector.Query()
	if err := _s.driver.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	return sql.ScanSlice(rows, v)
}
