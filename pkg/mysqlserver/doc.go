// Package mysqlserver runs an embedded, ephemeral MySQL server.
//
// The server binary ships as a prepackaged archive per platform. Construction
// unpacks the archive into a private temp directory, initializes a fresh data
// directory, starts mysqld on a random port and polls it until it answers
// queries. Close kills the process and removes the directory; it is safe to
// call any number of times, including after a failed construction.
package mysqlserver
