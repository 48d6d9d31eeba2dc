package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMySQLDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     3306,
				Database: "cdm",
				Username: "omop",
				Password: "secret",
			},
			expected: "omop:secret@tcp(localhost:3306)/cdm?parseTime=true",
		},
		{
			name:     "defaults",
			config:   adapter.Config{Database: "synpuf"},
			expected: "tcp(localhost:3306)/synpuf?parseTime=true",
		},
		{
			name: "custom port with options",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     3307,
				Database: "omop",
				Username: "reader",
				Options:  map[string]string{"autocommit": "true"},
			},
			expected: "reader@tcp(db.example.com:3307)/omop?parseTime=true&autocommit=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildMySQLDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)
	assert.Nil(t, adp.Pool())
	assert.Equal(t, "mysql", adp.Dialect().Name)
	assert.Equal(t, "`person`", adp.Dialect().QuoteIdentifier("person"))
	assert.Equal(t, "?", adp.Dialect().FormatPlaceholder(2))
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	_, err := adp.ListSchemas(ctx)
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	_, err = adp.ListTables(ctx, "cdm")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	_, err = adp.GetTableMetadata(ctx, "person")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}

func TestAdapter_Reflection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	adp := New(nil)
	adp.DB = db
	adp.Cfg = adapter.Config{Database: "cdm", Schema: "cdm"}

	ctx := context.Background()

	schemas, err := adp.ListSchemas(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cdm"}, schemas)

	mock.ExpectQuery(`FROM information_schema.tables\s+WHERE table_schema = \?`).
		WithArgs("cdm").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("care_site").AddRow("location"))

	tables, err := adp.ListTables(ctx, "cdm")
	require.NoError(t, err)
	assert.Equal(t, []string{"care_site", "location"}, tables)

	mock.ExpectQuery(`FROM information_schema.columns\s+WHERE table_schema = \? AND table_name = \?`).
		WithArgs("cdm", "location").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("location_id", "int", "NO", 1).
			AddRow("state", "varchar", "YES", 2).
			AddRow("zip", "varchar", "YES", 3))
	mock.ExpectQuery(`PRIMARY KEY`).
		WithArgs("cdm", "location").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	md, err := adp.GetTableMetadata(ctx, "location")
	require.NoError(t, err)
	assert.Equal(t, "cdm", md.Schema)
	assert.Len(t, md.Columns, 3)
	assert.Empty(t, md.PrimaryKey())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Registry(t *testing.T) {
	factory, ok := adapter.Get("mysql")
	require.True(t, ok, "mysql adapter should be registered")
	_, ok = factory(nil).(*Adapter)
	assert.True(t, ok, "factory should return *Adapter")
}
