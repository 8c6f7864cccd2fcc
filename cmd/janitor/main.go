package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Limpieza periódica (EventBridge diario): sesiones de voz viejas y miembros
// kickeados que ya no van a volver.
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, _ = pool.Exec(cctx, `DELETE FROM voice_sessions WHERE created_at < now() - INTERVAL '90 days';`)
	_, _ = pool.Exec(cctx, `
DELETE FROM members
WHERE status = 'kicked'
  AND updated_at < now() - INTERVAL '180 days';`)

	return "ok", nil
}

func main() { lambda.Start(handler) }
