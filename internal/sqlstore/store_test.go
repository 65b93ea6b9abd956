package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// postgresDSNEnv names a database the postgres tests may create schemas in.
const postgresDSNEnv = "FORMSMITH_TEST_POSTGRES_DSN"

func openSQLiteStore(t *testing.T, driver string) *Store {
	t.Helper()
	s, err := Open(context.Background(), types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      t.TempDir(),
		SQLiteDriver: driver,
	}, nil)
	if err != nil && driver == types.DriverMattn {
		t.Skipf("mattn/go-sqlite3 unavailable (cgo disabled?): %v", err)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openPostgresStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", postgresDSNEnv)
	}
	schema := "formsmith_test_" + time.Now().UTC().Format("20060102150405")
	s, err := Open(context.Background(), types.Config{
		Backend:        types.BackendPostgres,
		PostgresDSN:    dsn,
		PostgresSchema: schema,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = s.DB().Exec("DROP SCHEMA " + quoteIdent(schema) + " CASCADE")
		_ = s.Close()
	})
	return s
}

func TestStoreModernc(t *testing.T) {
	runStoreSuite(t, openSQLiteStore(t, types.DriverModernc))
}

func TestStoreMattn(t *testing.T) {
	runStoreSuite(t, openSQLiteStore(t, types.DriverMattn))
}

func TestStorePostgres(t *testing.T) {
	runStoreSuite(t, openPostgresStore(t))
}

func feedbackLayout() types.Layout {
	return types.Layout{
		SchemaTable:   "Feedback_Form",
		ResponseTable: "Feedback_Form_responses",
		Columns: []types.Column{
			{Name: "Name", Question: "Name"},
			{Name: "How_satisfied_are_you", Question: "How satisfied are you"},
			{Name: "What's_your_email?", Question: "What's your email?"},
		},
	}
}

func runStoreSuite(t *testing.T, s *Store) {
	ctx := context.Background()
	layout := feedbackLayout()

	t.Run("empty store", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
		tables, err := s.Tables(ctx)
		require.NoError(t, err)
		assert.Empty(t, tables)

		cols, err := s.Columns(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, cols)
	})

	t.Run("ensure is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.NoError(t, s.EnsureSchemaTable(ctx, layout.SchemaTable))
			require.NoError(t, s.EnsureResponseTable(ctx, layout))
		}
		tables, err := s.Tables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Feedback_Form", "Feedback_Form_responses"}, tables)

		cols, err := s.Columns(ctx, layout.SchemaTable)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "json_data", "is_active"}, cols)

		cols, err = s.Columns(ctx, layout.ResponseTable)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "submitted_at", "_extra", "Name", "How_satisfied_are_you", "What's_your_email?"}, cols)
	})

	t.Run("schema records", func(t *testing.T) {
		id1, err := s.InsertSchemaRecord(ctx, layout.SchemaTable, []byte(`{"title":"Feedback Form"}`))
		require.NoError(t, err)
		id2, err := s.InsertSchemaRecord(ctx, layout.SchemaTable, []byte(`{"title":"Feedback Form","v":2}`))
		require.NoError(t, err)
		assert.Greater(t, id2, id1)

		recs, err := s.SchemaRecords(ctx, layout.SchemaTable)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, id1, recs[0].ID)
		assert.Equal(t, `{"title":"Feedback Form","v":2}`, string(recs[1].Blob))
		assert.True(t, recs[0].IsActive)
		assert.True(t, recs[1].IsActive)
	})

	t.Run("set active touches every row", func(t *testing.T) {
		n, err := s.SetActive(ctx, layout.SchemaTable, false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		recs, err := s.SchemaRecords(ctx, layout.SchemaTable)
		require.NoError(t, err)
		for _, r := range recs {
			assert.False(t, r.IsActive)
		}

		_, err = s.SetActive(ctx, layout.SchemaTable, true)
		require.NoError(t, err)
	})

	t.Run("responses", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))
		id1, err := s.InsertResponse(ctx, layout.ResponseTable, map[string]string{
			"Name":                  "Ada",
			"How_satisfied_are_you": "9",
			"_extra":                `{"utm":"mail"}`,
		}, at)
		require.NoError(t, err)
		id2, err := s.InsertResponse(ctx, layout.ResponseTable, map[string]string{
			"What's_your_email?": "b@example.com",
		}, at.Add(time.Minute))
		require.NoError(t, err)
		assert.Greater(t, id2, id1)

		recs, err := s.Responses(ctx, layout.ResponseTable)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		assert.Equal(t, id1, recs[0].ID)
		assert.True(t, recs[0].SubmittedAt.Equal(at), "submitted_at = %v", recs[0].SubmittedAt)
		assert.Equal(t, map[string]string{
			"Name":                  "Ada",
			"How_satisfied_are_you": "9",
			"_extra":                `{"utm":"mail"}`,
		}, recs[0].Fields)
		assert.Equal(t, map[string]string{"What's_your_email?": "b@example.com"}, recs[1].Fields)
	})

	t.Run("insert into missing table fails", func(t *testing.T) {
		_, err := s.InsertResponse(ctx, "nope_responses", map[string]string{"a": "b"}, time.Now())
		assert.Error(t, err)
	})
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	s, err := Open(context.Background(), types.Config{Backend: types.BackendSQLite, DataDir: dir}, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, types.BackendSQLite, s.Dialect())
	_, err = os.Stat(filepath.Join(dir, DatabaseFile))
	assert.NoError(t, err)
}

func TestOpenMemory(t *testing.T) {
	s, err := Open(context.Background(), types.Config{Backend: types.BackendSQLite, DataDir: MemoryDataDir}, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.EnsureSchemaTable(context.Background(), "T"))
	tables, err := s.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"T"}, tables)
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), types.Config{Backend: "mongo"}, nil)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"Feedback_Form"`, quoteIdent("Feedback_Form"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:/d/forms.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", sqliteDSN(types.DriverModernc, "/d/forms.db"))
	assert.Equal(t, "file:/d/forms.db?_busy_timeout=5000&_journal_mode=WAL", sqliteDSN(types.DriverMattn, "/d/forms.db"))
}
