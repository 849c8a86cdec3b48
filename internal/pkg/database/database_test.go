package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type sampleRow struct {
	ID   string
	Name string
}

// dryRunDB builds SQL without a live connection
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=postgres dbname=postgres sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return db
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default config", mutate: func(c *Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, wantErr: true},
		{name: "invalid port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "missing user", mutate: func(c *Config) { c.User = "" }, wantErr: true},
		{name: "missing dbname", mutate: func(c *Config) { c.DBName = "" }, wantErr: true},
		{name: "invalid ssl mode", mutate: func(c *Config) { c.SSLMode = "prefer" }, wantErr: true},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "debug" }, wantErr: true},
		{
			name: "idle exceeds open",
			mutate: func(c *Config) {
				c.MaxIdleConns = 20
				c.MaxOpenConns = 10
			},
			wantErr: true,
		},
		{
			name: "unlimited open conns",
			mutate: func(c *Config) {
				c.MaxIdleConns = 20
				c.MaxOpenConns = 0
			},
		},
		{name: "negative slow threshold", mutate: func(c *Config) { c.SlowThreshold = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBName = "exhibition_curator"
	cfg.Timezone = ""

	dsn := cfg.DSN()
	want := "host=localhost port=5432 user=postgres password=postgres dbname=exhibition_curator sslmode=disable TimeZone=UTC"
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}

func TestScopes(t *testing.T) {
	db := dryRunDB(t)

	tests := []struct {
		name   string
		scopes []func(*gorm.DB) *gorm.DB
		want   []string
		absent []string
	}{
		{
			name:   "order by name ascending",
			scopes: []func(*gorm.DB) *gorm.DB{OrderBy("name", false)},
			want:   []string{"ORDER BY name"},
			absent: []string{"DESC"},
		},
		{
			name:   "order by created_at descending",
			scopes: []func(*gorm.DB) *gorm.DB{OrderBy("created_at", true)},
			want:   []string{"ORDER BY created_at DESC"},
		},
		{
			name:   "paginate second page",
			scopes: []func(*gorm.DB) *gorm.DB{Paginate(2, 10)},
			want:   []string{"LIMIT 10", "OFFSET 10"},
		},
		{
			name:   "paginate clamps page size",
			scopes: []func(*gorm.DB) *gorm.DB{Paginate(0, 500)},
			want:   []string{"LIMIT 100"},
			absent: []string{"OFFSET"},
		},
		{
			name:   "where if true",
			scopes: []func(*gorm.DB) *gorm.DB{WhereIf(true, "user_id = ?", "u1")},
			want:   []string{"user_id = 'u1'"},
		},
		{
			name:   "where if false",
			scopes: []func(*gorm.DB) *gorm.DB{WhereIf(false, "user_id = ?", "u1")},
			absent: []string{"user_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var rows []sampleRow
				return tx.Table("collections").Scopes(tt.scopes...).Find(&rows)
			})
			for _, part := range tt.want {
				if !strings.Contains(sql, part) {
					t.Errorf("SQL %q missing %q", sql, part)
				}
			}
			for _, part := range tt.absent {
				if strings.Contains(sql, part) {
					t.Errorf("SQL %q should not contain %q", sql, part)
				}
			}
		})
	}
}

func TestTransactionContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := TransactionFromContext(ctx); ok {
		t.Fatal("empty context should carry no transaction")
	}

	tx := dryRunDB(t)
	ctx = ContextWithTransaction(ctx, tx)
	got, ok := TransactionFromContext(ctx)
	if !ok || got != tx {
		t.Fatal("failed to retrieve transaction from context")
	}

	db := &DB{DB: dryRunDB(t), config: DefaultConfig()}
	if db.GetDBFromContext(ctx) != tx {
		t.Error("GetDBFromContext() should prefer the transaction")
	}
	if db.GetDBFromContext(context.Background()) == tx {
		t.Error("GetDBFromContext() returned a transaction for a plain context")
	}
}

func TestTransactionReusesOuter(t *testing.T) {
	outer := dryRunDB(t)
	db := &DB{DB: dryRunDB(t), config: DefaultConfig()}
	ctx := ContextWithTransaction(context.Background(), outer)

	called := false
	err := db.Transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		called = true
		if tx != outer {
			t.Error("nested Transaction should reuse the outer transaction")
		}
		return nil
	})
	if err != nil || !called {
		t.Errorf("Transaction() err = %v, called = %v", err, called)
	}
}

func TestIsRecordNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "record not found",
			err:  gorm.ErrRecordNotFound,
			want: true,
		},
		{
			name: "wrapped record not found",
			err:  fmt.Errorf("get collection: %w", gorm.ErrRecordNotFound),
			want: true,
		},
		{
			name: "other error",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecordNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsRecordNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "wrapped gorm duplicated key", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "pg foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("duplicate entry"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateKeyError(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKeyError() = %v, want %v", got, tt.want)
			}
		})
	}
}
