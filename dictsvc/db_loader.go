package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"gendict/dict"
)

// Loader writes generated records into one data store.
type Loader interface {
	Name() string
	Load(ctx context.Context, records []dict.Record) (int, error)
	Close() error
}

type dialect struct {
	driver string
	create string // %s is the table
	insert string
	args   func(r dict.Record) []any
}

func defaultArgs(r dict.Record) []any {
	return []any{r.Name, r.Age, r.Email}
}

var dialects = map[string]dialect{
	"mysql": {
		driver: "mysql",
		create: "CREATE TABLE IF NOT EXISTS `%s` (" +
			"id BIGINT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(255) NOT NULL, " +
			"age INT NOT NULL, email VARCHAR(255) NOT NULL)",
		insert: "INSERT INTO `%s` (name, age, email) VALUES (?, ?, ?)",
		args:   defaultArgs,
	},
	"postgres": {
		driver: "postgres",
		create: `CREATE TABLE IF NOT EXISTS "%s" (` +
			`id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL, age INT NOT NULL, email TEXT NOT NULL)`,
		insert: `INSERT INTO "%s" (name, age, email) VALUES ($1, $2, $3)`,
		args:   defaultArgs,
	},
	"clickhouse": {
		driver: "clickhouse",
		create: "CREATE TABLE IF NOT EXISTS `%s` (" +
			"name String, age UInt8, email String) ENGINE = MergeTree ORDER BY tuple()",
		insert: "INSERT INTO `%s` (name, age, email)",
		// the native protocol wants the exact column type
		args: func(r dict.Record) []any {
			return []any{r.Name, uint8(r.Age), r.Email}
		},
	},
}

// DbLoader inserts records into a sql table, creating it on first use.
type DbLoader struct {
	Dbconfig *DBConfig
	name     string
	dialect  dialect
	dbname   string // database of dsn, for logging

	mu sync.Mutex
	db *sql.DB // dbpool
}

func NewDbLoader(name string, dbconfig *DBConfig) (*DbLoader, error) {
	dbtype := dbconfig.Dbtype
	if dbtype == "postgresql" {
		dbtype = "postgres"
	}
	d, ok := dialects[dbtype]
	if !ok {
		return nil, fmt.Errorf("dbtype '%s' not supported", dbconfig.Dbtype)
	}
	if len(dbconfig.Dsn) == 0 {
		return nil, fmt.Errorf("%s dsn is empty", name)
	}

	p := &DbLoader{Dbconfig: dbconfig, name: name, dialect: d}

	// parse dsn early so a typo fails at startup
	switch dbtype {
	case "mysql":
		cfg, err := mysql.ParseDSN(dbconfig.Dsn[0])
		if err != nil {
			log.Errorf("parse mysql dsn failed: %v", err)
			return nil, err
		}
		p.dbname = cfg.DBName
	case "clickhouse":
		opt, err := clickhouse.ParseDSN(dbconfig.Dsn[0])
		if err != nil {
			log.Errorf("parse clickhouse dsn failed: %v", err)
			return nil, err
		}
		p.dbname = opt.Auth.Database
	case "postgres":
		u, err := url.Parse(dbconfig.Dsn[0])
		if err != nil {
			log.Errorf("parse postgresql dsn failed: %v", err)
			return nil, err
		}
		if len(u.Path) > 1 {
			p.dbname = u.Path[1:]
		}
	}
	log.Debugf("%s loader on database '%s' table '%s'", name, p.dbname, dbconfig.Table)

	return p, nil
}

func (p *DbLoader) Name() string {
	return p.name
}

func (p *DbLoader) createSQL() string {
	return fmt.Sprintf(p.dialect.create, p.Dbconfig.Table)
}

func (p *DbLoader) insertSQL() string {
	return fmt.Sprintf(p.dialect.insert, p.Dbconfig.Table)
}

// Load inserts all records in one transaction, so a failure loads nothing.
func (p *DbLoader) Load(ctx context.Context, records []dict.Record) (int, error) {
	db, err := p.openDB(ctx)
	if err != nil {
		return 0, err
	}

	if _, err = db.ExecContext(ctx, p.createSQL()); err != nil {
		log.Errorf("%s create table '%s' failed: %v", p.name, p.Dbconfig.Table, err)
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, p.insertSQL())
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err = stmt.ExecContext(ctx, p.dialect.args(r)...); err != nil {
			log.Errorf("%s insert row %d failed: %v", p.name, i, err)
			tx.Rollback()
			return 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}

	log.Infof("%s loaded %d rows into '%s'", p.name, len(records), p.Dbconfig.Table)
	return len(records), nil
}

func (p *DbLoader) openDB(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db != nil {
		return p.db, nil
	}

	// parse idle time string to time.Duration
	maxIdleDuration, err := time.ParseDuration(p.Dbconfig.MaxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("parse dbconfig.maxidletime [%s] failed: %s", p.Dbconfig.MaxIdleTime, err)
	}

	db, err := sql.Open(p.dialect.driver, p.Dbconfig.Dsn[0])
	if err != nil {
		log.Errorf("open %s failed: %v", p.name, err)
		return nil, err
	}

	// <= 0 means unlimited open conns, or no idle conns kept
	db.SetMaxOpenConns(p.Dbconfig.MaxOpenConns)
	db.SetMaxIdleConns(p.Dbconfig.MaxIdleConns)
	db.SetConnMaxIdleTime(maxIdleDuration)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.Dbconfig.Timeout)*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		log.Errorf("ping %s database '%s' failed: %s", p.name, p.dbname, err)
		db.Close()
		return nil, err
	}

	log.Infof("ping %s database '%s' success", p.name, p.dbname)
	p.db = db
	return db, nil
}

func (p *DbLoader) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db != nil {
		err := p.db.Close()
		p.db = nil
		return err
	}
	return nil
}
