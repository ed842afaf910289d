package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-records-api/config"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons. The pool itself is
// injected into repositories at wiring time, not looked up ambiently.

var (
	cfg    *config.Config
	logger *logrus.Logger
	pgPool *pgxpool.Pool
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetPGPool(p *pgxpool.Pool)  { pgPool = p }
func GetPGPool() *pgxpool.Pool   { return pgPool }
