package mysqlserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// readyProbeInterval is the pause between canary attempts. mysqld startup
// time varies with disk speed and OS caching, so a short interval under a
// generous ceiling keeps tests responsive without getting flaky.
const readyProbeInterval = 10 * time.Millisecond

// waitReady polls the server with a canary query until it answers correctly,
// bounded by StartupWait. A dead mysqld fails fast with ProcessExitedError
// instead of burning the whole wait.
func (s *EmbeddedMySQL) waitReady() error {
	db, err := sql.Open("mysql", s.AdminConfig("mysql").FormatDSN())
	if err != nil {
		return fmt.Errorf("opening admin connection: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.StartupWait)
	defer cancel()

	var lastErr error
	probe := func() error {
		err := checkReady(ctx, db)
		if err == nil {
			return nil
		}
		lastErr = err
		if s.bg.Exited() {
			return backoff.Permanent(&ProcessExitedError{ExitCode: s.bg.ExitCode()})
		}
		return err
	}
	err = backoff.Retry(probe, backoff.WithContext(backoff.NewConstantBackOff(readyProbeInterval), ctx))
	if err == nil {
		return nil
	}
	var exited *ProcessExitedError
	if errors.As(err, &exited) {
		return exited
	}
	return &StartupTimeoutError{Wait: s.opts.StartupWait, Cause: lastErr}
}

// checkReady runs the canary query and verifies the result: exactly one row,
// one column, value 42. Anything else means "not ready yet".
func checkReady(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "SELECT 42")
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		return errors.New("no rows in result set")
	}
	var value int
	if err := rows.Scan(&value); err != nil {
		return err
	}
	if value != 42 {
		return fmt.Errorf("wrong result: %d", value)
	}
	if rows.Next() {
		return errors.New("multiple rows in result set")
	}
	return rows.Err()
}
