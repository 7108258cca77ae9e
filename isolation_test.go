package pooldb_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"pooldb"
)

type IsolationTestSuite struct {
	suite.Suite
}

func TestIsolationTestSuite(t *testing.T) {
	suite.Run(t, new(IsolationTestSuite))
}

func (s *IsolationTestSuite) TestJDBCCompatibleCodes() {
	s.EqualValues(0, pooldb.IsolationNone)
	s.EqualValues(1, pooldb.IsolationReadUncommitted)
	s.EqualValues(2, pooldb.IsolationReadCommitted)
	s.EqualValues(4, pooldb.IsolationRepeatableRead)
	s.EqualValues(8, pooldb.IsolationSerializable)
	s.EqualValues(0x1000, pooldb.IsolationSQLServerSnapshot)
}

func (s *IsolationTestSuite) TestStringNames() {
	s.Equal("READ_COMMITTED", pooldb.IsolationReadCommitted.String())
	s.Equal("SQL_SERVER_SNAPSHOT", pooldb.IsolationSQLServerSnapshot.String())
	s.Equal("UNKNOWN", pooldb.IsolationLevel(99).String())
}
