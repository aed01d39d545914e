package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/types"
	"github.com/yungbote/herbolario-backend/internal/utils"
)

type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabaseService opens the catalog database. DB_DRIVER selects the
// backend: "sqlite" (default, also what the hosted libsql deployment
// speaks) or "postgres".
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "sqlite", log))

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "herbolario", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "herbolario.db", log)
		dialector = sqlite.Open(sqliteDSN(path))
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}

	serviceLog.Info("Connecting to database...", "driver", driver)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to database", "driver", driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DatabaseService{db: gdb, log: serviceLog}, nil
}

// sqliteDSN forces foreign keys on so child cascades actually fire; sqlite
// ships with them off.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating catalog tables...")
	err := s.db.AutoMigrate(
		&types.Plant{},
		&types.Benefit{},
		&types.UsageMethod{},
		&types.ScientificBacking{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for catalog tables", "error", err)
		return err
	}
	return nil
}

func (s *DatabaseService) DB() *gorm.DB {
	return s.db
}
