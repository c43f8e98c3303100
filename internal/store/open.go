package store

import (
	"fmt"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/common/database"
)

// 驱动类型
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDriver 按配置创建驱动
func OpenDriver(storeCfg *config.StoreConfig, dbCfg *config.DatabaseConfig) (Driver, error) {
	switch storeCfg.Driver {
	case "", DriverFile:
		return NewFileDriver(storeCfg.DataDir)
	case DriverSQLite:
		db, err := database.OpenSQLite(storeCfg.SQLitePath, dbCfg.LogMode)
		if err != nil {
			return nil, err
		}
		return NewGormDriver(db)
	case DriverPostgres:
		db, err := database.OpenPostgres(dbCfg)
		if err != nil {
			return nil, err
		}
		return NewGormDriver(db)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", storeCfg.Driver)
	}
}
