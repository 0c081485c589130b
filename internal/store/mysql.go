package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/config"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
)

const insertSQL = `
	INSERT INTO business_cards (name, gender, phone, date_of_birth, email, address, photo_base64)
	VALUES (:name, :gender, :phone, :date_of_birth, :email, :address, :photo_base64)
`

const updateSQL = `
	UPDATE business_cards
	SET name = :name, gender = :gender, phone = :phone, date_of_birth = :date_of_birth,
		email = :email, address = :address, photo_base64 = :photo_base64
	WHERE id = :id
`

// MySQLStore keeps business cards in the business_cards table of a MySQL database.
type MySQLStore struct {
	db *sqlx.DB

	// Prepared statements offer a significant speed increase if executed many times.
	insert        *sqlx.NamedStmt
	selectAll     *sqlx.Stmt
	selectWhereId *sqlx.Stmt
	update        *sqlx.NamedStmt
	deleteWhereId *sqlx.Stmt
}

var _ Store = (*MySQLStore)(nil)

// DSN builds the MySQL data source name for the configured database.
func DSN(cfg config.Config) string {
	c := mysql.NewConfig()
	c.Net = "tcp"
	c.Addr = cfg.DBHost
	c.User = cfg.DBUser
	c.Passwd = cfg.DBPassword
	c.DBName = cfg.DBName
	c.ParseTime = true
	// An update that changes nothing must still count as a match.
	c.ClientFoundRows = true
	return c.FormatDSN()
}

// OpenMySQL opens a connection pool to the configured database and checks that it answers.
func OpenMySQL(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBHost, err)
	}
	return sqlDB, nil
}

// NewMySQLStore wraps the database handle and prepares all statements. The handle can be a real
// database or a mock within unit tests.
func NewMySQLStore(sqlDB *sql.DB) (*MySQLStore, error) {
	s := &MySQLStore{db: sqlx.NewDb(sqlDB, "mysql")}
	var err error
	if s.insert, err = s.db.PrepareNamed(insertSQL); err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	if s.selectAll, err = s.db.Preparex(`SELECT * FROM business_cards ORDER BY id`); err != nil {
		return nil, fmt.Errorf("prepare select: %w", err)
	}
	if s.selectWhereId, err = s.db.Preparex(`SELECT * FROM business_cards WHERE id = ?`); err != nil {
		return nil, fmt.Errorf("prepare select by id: %w", err)
	}
	if s.update, err = s.db.PrepareNamed(updateSQL); err != nil {
		return nil, fmt.Errorf("prepare update: %w", err)
	}
	if s.deleteWhereId, err = s.db.Preparex(`DELETE FROM business_cards WHERE id = ?`); err != nil {
		return nil, fmt.Errorf("prepare delete: %w", err)
	}
	return s, nil
}

func (s *MySQLStore) Create(ctx context.Context, card model.BusinessCard) (model.BusinessCard, error) {
	result, err := s.insert.ExecContext(ctx, &card)
	if err != nil {
		return model.BusinessCard{}, err
	}
	card.Id, err = result.LastInsertId()
	if err != nil {
		return model.BusinessCard{}, err
	}
	return card, nil
}

func (s *MySQLStore) CreateAll(ctx context.Context, cards []model.BusinessCard) ([]model.BusinessCard, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	created := make([]model.BusinessCard, 0, len(cards))
	for _, card := range cards {
		result, err := tx.NamedExecContext(ctx, insertSQL, &card)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if card.Id, err = result.LastInsertId(); err != nil {
			tx.Rollback()
			return nil, err
		}
		created = append(created, card)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MySQLStore) FindAll(ctx context.Context) ([]model.BusinessCard, error) {
	cards := []model.BusinessCard{}
	if err := s.selectAll.SelectContext(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *MySQLStore) FindByID(ctx context.Context, id int64) (model.BusinessCard, error) {
	var card model.BusinessCard
	err := s.selectWhereId.GetContext(ctx, &card, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BusinessCard{}, ErrNotFound
	}
	if err != nil {
		return model.BusinessCard{}, err
	}
	return card, nil
}

func (s *MySQLStore) Update(ctx context.Context, card model.BusinessCard) (model.BusinessCard, error) {
	result, err := s.update.ExecContext(ctx, &card)
	if err != nil {
		return model.BusinessCard{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.BusinessCard{}, err
	}
	if rowsAffected == 0 {
		return model.BusinessCard{}, ErrNotFound
	}
	return card, nil
}

func (s *MySQLStore) Delete(ctx context.Context, id int64) error {
	_, err := s.deleteWhereId.ExecContext(ctx, id)
	return err
}

// Close releases the prepared statements and the database handle.
func (s *MySQLStore) Close() error {
	return errors.Join(
		s.insert.Close(),
		s.selectAll.Close(),
		s.selectWhereId.Close(),
		s.update.Close(),
		s.deleteWhereId.Close(),
		s.db.Close(),
	)
}
