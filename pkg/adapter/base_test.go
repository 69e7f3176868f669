package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backtick(s string) string { return "`" + s + "`" }

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		expectErr bool
	}{
		{
			name:      "close with nil DB",
			setupDB:   false,
			expectErr: false,
		},
		{
			name:      "close with open DB",
			setupDB:   true,
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			err := base.Close()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name         string
		setupDB      bool
		setupMock    func(mock sqlmock.Sqlmock)
		sql          string
		expectedRows int64
		expectErr    bool
		errMsg       string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE stars").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql: "CREATE TABLE stars (id INT)",
		},
		{
			name:    "exec reports affected rows",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("LOAD DATA").WillReturnResult(sqlmock.NewResult(0, 118218))
			},
			sql:          "LOAD DATA LOCAL INFILE '/tmp/hip_main.dat' INTO TABLE stars",
			expectedRows: 118218,
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			n, err := base.Exec(ctx, tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedRows, n)
			}
		})
	}
}

func TestParseQualifiedName(t *testing.T) {
	schema, name := ParseQualifiedName("Analysis.Hipparcos", "ignored")
	assert.Equal(t, "Analysis", schema)
	assert.Equal(t, "Hipparcos", name)

	schema, name = ParseQualifiedName("Hipparcos", "Analysis")
	assert.Equal(t, "Analysis", schema)
	assert.Equal(t, "Hipparcos", name)
}

func TestBaseSQLAdapter_GetTableMetadataCommon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("Analysis", "Hipparcos").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "column_comment", "is_nullable", "ordinal_position"}).
			AddRow("ID", "int unsigned", "", "NO", 1).
			AddRow("HIP", "int", "Identifier", "YES", 4))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM `Analysis`.`Hipparcos`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(118218))

	base := &BaseSQLAdapter{DB: db}
	meta, err := base.GetTableMetadataCommon(context.Background(), "Hipparcos", "Analysis", backtick)
	require.NoError(t, err)

	assert.Equal(t, "Hipparcos", meta.Name)
	require.Len(t, meta.Columns, 2)
	assert.False(t, meta.Columns[0].Nullable)
	assert.Equal(t, "Identifier", meta.Columns[1].Comment)
	assert.Equal(t, int64(118218), meta.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_GetTableMetadataCommon_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "column_comment", "is_nullable", "ordinal_position"}))

	base := &BaseSQLAdapter{DB: db}
	_, err = base.GetTableMetadataCommon(context.Background(), "Nope", "Analysis", backtick)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
