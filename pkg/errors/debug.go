package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgresDiagnostics are the server-side fields of a failed statement.
type PostgresDiagnostics struct {
	Code       string `json:"pg_code"`
	Constraint string `json:"pg_constraint,omitempty"`
	Table      string `json:"pg_table,omitempty"`
	Column     string `json:"pg_column,omitempty"`
	Detail     string `json:"pg_detail,omitempty"`
	Message    string `json:"pg_message,omitempty"`
}

// ErrorDump flattens an error chain for structured logging.
type ErrorDump struct {
	TopMessage string               `json:"top_message"`
	Code       Code                 `json:"code,omitempty"`
	Status     int                  `json:"status"`
	Retryable  bool                 `json:"retryable"`
	Chain      []string             `json:"chain,omitempty"`
	Postgres   *PostgresDiagnostics `json:"postgres,omitempty"`
}

// PGCode returns the SQLSTATE of the wrapped Postgres error, if any.
func (d ErrorDump) PGCode() string {
	if d.Postgres == nil {
		return ""
	}
	return d.Postgres.Code
}

// Dump walks err, recording the typed code with its HTTP metadata and any
// Postgres diagnostics from pgx or lib/pq.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	code := CodeInternal
	if te := As(err); te != nil {
		code = te.Code()
	}
	meta := MetadataFor(code)
	d := ErrorDump{
		TopMessage: err.Error(),
		Code:       code,
		Status:     meta.HTTPStatus,
		Retryable:  meta.Retryable,
		Postgres:   postgresDiagnostics(err),
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

// Fields renders the dump as logger fields.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"http_status": d.Status,
		"retryable":   d.Retryable,
		"error_chain": d.Chain,
	}
	if pg := d.Postgres; pg != nil {
		fields["pg_code"] = pg.Code
		for key, value := range map[string]string{
			"pg_constraint": pg.Constraint,
			"pg_table":      pg.Table,
			"pg_column":     pg.Column,
			"pg_detail":     pg.Detail,
			"pg_message":    pg.Message,
		} {
			if value != "" {
				fields[key] = value
			}
		}
	}
	return fields
}

func postgresDiagnostics(err error) *PostgresDiagnostics {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PostgresDiagnostics{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &PostgresDiagnostics{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
