package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "cdm",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=cdm sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "omop",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=omop sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "synpuf",
			},
			expected: "host=localhost port=5432 dbname=synpuf sslmode=disable",
		},
		{
			name: "extra options and quoted password",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "analytics",
				Username: "analyst",
				Password: "it's secret",
				Options:  map[string]string{"application_name": "inspectomop", "connect_timeout": "5"},
			},
			expected: `host=db.example.com port=5433 dbname=analytics sslmode=disable user=analyst ` +
				`password='it\'s secret' application_name=inspectomop connect_timeout=5`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp, "New() should return non-nil adapter")
	assert.Nil(t, adp.Pool(), "pool should be nil before Connect")
	assert.False(t, adp.IsConnected(), "should not be connected initially")
	assert.Equal(t, "postgres", adp.Dialect().Name)
	assert.Equal(t, "$3", adp.Dialect().FormatPlaceholder(3))

	var _ adapter.Adapter = adp
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.Exec(ctx, "SELECT 1")
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Query(ctx, "SELECT 1")
				return err
			},
		},
		{
			name: "list schemas without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.ListSchemas(ctx)
				return err
			},
		},
		{
			name: "get metadata without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.GetTableMetadata(ctx, "person")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), New(nil))
			require.Error(t, err)
			assert.ErrorIs(t, err, adapter.ErrNotConnected)
		})
	}
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adp := New(nil)
	adp.DB = db
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return adp, mock
}

func TestAdapter_ListSchemas(t *testing.T) {
	adp, _ := newMockAdapter(t)

	schemas, err := adp.ListSchemas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"public"}, schemas)

	adp.Cfg.Schema = "cdm"
	schemas, err = adp.ListSchemas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cdm"}, schemas)
}

func TestAdapter_ListTables(t *testing.T) {
	adp, mock := newMockAdapter(t)

	mock.ExpectQuery(`FROM information_schema.tables\s+WHERE table_schema = \$1`).
		WithArgs("cdm").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("concept").AddRow("person"))

	tables, err := adp.ListTables(context.Background(), "cdm")
	require.NoError(t, err)
	assert.Equal(t, []string{"concept", "person"}, tables)
}

func TestAdapter_GetTableMetadata(t *testing.T) {
	adp, mock := newMockAdapter(t)

	mock.ExpectQuery(`FROM information_schema.columns\s+WHERE table_schema = \$1 AND table_name = \$2`).
		WithArgs("public", "person").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("person_id", "integer", "NO", 1).
			AddRow("year_of_birth", "integer", "YES", 2).
			AddRow("birth_datetime", "timestamp without time zone", "YES", 3))
	mock.ExpectQuery(`tc.constraint_type = 'PRIMARY KEY'`).
		WithArgs("public", "person").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("person_id"))

	md, err := adp.GetTableMetadata(context.Background(), "person")
	require.NoError(t, err)

	assert.Equal(t, "public", md.Schema)
	assert.Equal(t, "person", md.Name)
	require.Len(t, md.Columns, 3)
	assert.Equal(t, []string{"person_id"}, md.PrimaryKey())
	assert.False(t, md.Columns[0].Nullable)
	assert.True(t, md.Columns[2].Nullable)
	assert.Equal(t, "timestamp without time zone", md.Columns[2].Type)
}

func TestAdapter_GetTableMetadata_NotFound(t *testing.T) {
	adp, mock := newMockAdapter(t)

	mock.ExpectQuery(`FROM information_schema.columns`).
		WithArgs("cdm", "nope").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

	_, err := adp.GetTableMetadata(context.Background(), "cdm.nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table cdm.nope not found")
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("postgres"), "postgres adapter should be registered")

	factory, ok := adapter.Get("postgres")
	require.True(t, ok, "should be able to get postgres factory")

	pg, ok := factory(nil).(*Adapter)
	require.True(t, ok, "factory should return *Adapter")
	assert.Equal(t, "postgres", pg.Dialect().Name)
}

func TestAdapter_Close(t *testing.T) {
	adp := New(nil)
	assert.NoError(t, adp.Close())
}
