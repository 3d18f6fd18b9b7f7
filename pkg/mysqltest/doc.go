// Package mysqltest constructs short-lived MySQL instances for unit-testing.
//
// A Server wraps an embedded mysqld with a provisioned user and set of
// databases. For tests that only need a database and do not care how it is
// run, Default picks the fastest available backend: a local subprocess from
// the bundled server archive, or a Docker container as fallback.
package mysqltest
