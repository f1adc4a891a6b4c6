// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

// This file contains generic support code for PostgreSQL
// applications:
//
// (1) Functions to help with database/sql: withTx() to do work in a
//     transaction that can be retried, and scanRows() to loop over the
//     results of a multi-row SELECT
//
// (2) Helpers to build SQL SELECT statements (dealing entirely in
//     strings)
//
// (3) queryParams, a parameter list that can produce $1, $2, ... out

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// withTx calls some function with a database/sql transaction object.
// If f panics or returns a non-nil error, rolls the transaction back;
// otherwise commits it before returning.  Returns the error value from
// f, or some other error related to transaction management.
func withTx(s *pgStore, readOnly bool, f func(*sql.Tx) error) (err error) {
	var (
		tx   *sql.Tx
		done bool
	)

	defer func() {
		if tx != nil && !done {
			err2 := tx.Rollback()
			if err == nil {
				err = err2
			}
		}
	}()

	// Run in a loop, repeating the work on serialization errors
	for {
		tx, err = s.db.Begin()
		if err != nil {
			return
		}

		level := "REPEATABLE READ"
		if readOnly {
			level += " READ ONLY"
		}
		_, err = tx.Exec("SET TRANSACTION ISOLATION LEVEL " + level)
		if err != nil {
			return
		}

		err = f(tx)

		if err == nil {
			err = tx.Commit()
			done = true
		}

		// If we specifically got a serialization error,
		// retry
		if isSerializationFailure(err) {
			err = tx.Rollback()
			if err == sql.ErrTxDone {
				// Already rolled back by the failed commit
				err = nil
			} else if err != nil {
				return
			}
			tx = nil
			done = false
			continue
		}

		break
	}

	return
}

// isSerializationFailure is true if err is a PostgreSQL
// serialization_failure, which means the transaction can be retried.
func isSerializationFailure(err error) bool {
	pqerr, ok := err.(*pq.Error)
	return ok && pqerr.Code == "40001"
}

// scanRows runs an SQL query and calls a function for each row in the
// result.  The callback function should only call the Scan() method on
// the provided Rows object; this function will take care of advancing
// through the list of rows and closing the iterator as required.
func scanRows(rows *sql.Rows, f func() error) (err error) {
	var done bool
	defer func() {
		if !done {
			err2 := rows.Close()
			if err == nil {
				err = err2
			}
		}
	}()

	for rows.Next() {
		err = f()
		if err != nil {
			return
		}
	}
	done = true
	err = rows.Err()
	return
}

// queryAndScan establishes a read-only transaction, runs query on it
// with params, and calls f for each row in it.  It is the common case
// of combining withTx() and scanRows().
func queryAndScan(s *pgStore, query string, params queryParams, f func(*sql.Rows) error) error {
	return withTx(s, true, func(tx *sql.Tx) error {
		rows, err := tx.Query(query, params...)
		if err != nil {
			return err
		}
		return scanRows(rows, func() error {
			return f(rows)
		})
	})
}

// buildSelect constructs a simple SQL SELECT statement by string
// concatenation.  All of the conditions are ANDed together.  order,
// if non-empty, becomes an ORDER BY clause.
func buildSelect(outputs, tables, conditions []string, order string) string {
	query := "SELECT "
	query += strings.Join(outputs, ", ")
	query += " FROM "
	query += strings.Join(tables, ", ")
	if len(conditions) > 0 {
		query += " WHERE "
		query += strings.Join(conditions, " AND ")
	}
	if order != "" {
		query += " ORDER BY " + order
	}
	return query
}

// queryParams wraps a list of query parameters.
type queryParams []interface{}

// Param adds a parameter to the query parameter list, returning its
// position as $1, $2, ...
func (qp *queryParams) Param(param interface{}) string {
	*qp = append(*qp, param)
	return fmt.Sprintf("$%v", len(*qp))
}
