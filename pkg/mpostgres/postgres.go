package mpostgres

import (
	"database/sql"
	"errors"
	"net/url"
	"path/filepath"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bxcodec/dbresolver/v2"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	// File system migration source. We need to import it to be able to use it as source in migrate.NewWithSourceInstance
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// PostgresConnection is a hub which deal with postgres connections.
type PostgresConnection struct {
	ConnectionStringPrimary string
	ConnectionStringReplica string
	PrimaryDBName           string
	ReplicaDBName           string
	MigrationsPath          string
	Component               string
	MaxOpenConnections      int
	MaxIdleConnections      int
	ConnectionDB            *dbresolver.DB
	PrimaryDB               *sql.DB
	Connected               bool
	Logger                  mlog.Logger
}

// Connect opens the primary and replica pools, runs pending migrations on the
// primary and keeps a resolver routing reads to the replica.
func (pc *PostgresConnection) Connect() error {
	pc.Logger.Info("Connecting to primary and replica databases...")

	dbPrimary, err := sql.Open("pgx", pc.ConnectionStringPrimary)
	if err != nil {
		pc.Logger.Errorf("failed to open connect to primary database: %v", err)

		return err
	}

	dbReadOnlyReplica, err := sql.Open("pgx", pc.ConnectionStringReplica)
	if err != nil {
		pc.Logger.Errorf("failed to open connect to replica database: %v", err)

		return err
	}

	if pc.MaxOpenConnections > 0 {
		dbPrimary.SetMaxOpenConns(pc.MaxOpenConnections)
		dbReadOnlyReplica.SetMaxOpenConns(pc.MaxOpenConnections)
	}

	if pc.MaxIdleConnections > 0 {
		dbPrimary.SetMaxIdleConns(pc.MaxIdleConnections)
		dbReadOnlyReplica.SetMaxIdleConns(pc.MaxIdleConnections)
	}

	connectionDB := dbresolver.New(
		dbresolver.WithPrimaryDBs(dbPrimary),
		dbresolver.WithReplicaDBs(dbReadOnlyReplica),
		dbresolver.WithLoadBalancer(dbresolver.RoundRobinLB))

	if err := pc.migrate(dbPrimary); err != nil {
		return err
	}

	if err := dbPrimary.Ping(); err != nil {
		pc.Logger.Errorf("PostgresConnection.Ping %v", err)

		return err
	}

	pc.Connected = true
	pc.ConnectionDB = &connectionDB
	pc.PrimaryDB = dbPrimary

	pc.Logger.Info("Connected to postgres ✅ ")

	return nil
}

func (pc *PostgresConnection) migrate(dbPrimary *sql.DB) error {
	if pc.MigrationsPath == "" {
		return nil
	}

	migrationsPath, err := filepath.Abs(pc.MigrationsPath)
	if err != nil {
		pc.Logger.Errorf("failed to resolve migrations path: %v", err)

		return err
	}

	primaryURL, err := url.Parse(filepath.ToSlash(migrationsPath))
	if err != nil {
		pc.Logger.Errorf("failed to parse migrations url: %v", err)

		return err
	}

	primaryURL.Scheme = "file"

	primaryDriver, err := postgres.WithInstance(dbPrimary, &postgres.Config{
		MultiStatementEnabled: true,
		DatabaseName:          pc.PrimaryDBName,
		SchemaName:            "public",
	})
	if err != nil {
		pc.Logger.Errorf("failed to create migration driver: %v", err)

		return err
	}

	m, err := migrate.NewWithDatabaseInstance(primaryURL.String(), pc.PrimaryDBName, primaryDriver)
	if err != nil {
		pc.Logger.Errorf("failed to create migrate instance: %v", err)

		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		pc.Logger.Errorf("failed to run migrations: %v", err)

		return err
	}

	return nil
}

// GetDB returns a pointer to the postgres connection, initializing it if necessary.
func (pc *PostgresConnection) GetDB() (dbresolver.DB, error) {
	if pc.ConnectionDB == nil {
		if err := pc.Connect(); err != nil {
			pc.Logger.Infof("ERRCONECT %s", err)

			return nil, err
		}
	}

	return *pc.ConnectionDB, nil
}

// GetPrimaryDB returns the primary pool. Transactional writers use it so that
// a transaction never spans the read replica.
func (pc *PostgresConnection) GetPrimaryDB() (*sql.DB, error) {
	if pc.PrimaryDB == nil {
		if err := pc.Connect(); err != nil {
			pc.Logger.Infof("ERRCONECT %s", err)

			return nil, err
		}
	}

	return pc.PrimaryDB, nil
}
