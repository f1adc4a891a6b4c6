// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"os"
	"testing"

	"github.com/diffeo/go-resource/store/storetest"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic store tests against a PostgreSQL database.
// The connection comes entirely from the standard libpq environment
// variables, see
// http://www.postgresql.org/docs/current/static/libpq-envars.html.
type Suite struct {
	storetest.Suite
	pg *pgStore
}

// SetupSuite connects to the database, creating the schema if needed.
func (s *Suite) SetupSuite() {
	if os.Getenv("PGHOST") == "" {
		s.T().Skip("PGHOST not set")
	}
	st, err := New("")
	s.Require().NoError(err)
	s.pg = st.(*pgStore)
	s.Store = st
}

// SetupTest empties both tables.
func (s *Suite) SetupTest() {
	_, err := s.pg.db.Exec("DELETE FROM documents")
	s.Require().NoError(err)
	_, err = s.pg.db.Exec("DELETE FROM sequences")
	s.Require().NoError(err)
}

// TearDownSuite closes the connection pool.
func (s *Suite) TearDownSuite() {
	if s.pg != nil {
		s.NoError(s.pg.db.Close())
	}
}

// TestStore is the top-level entry point to run tests.
func TestStore(t *testing.T) {
	suite.Run(t, &Suite{})
}
