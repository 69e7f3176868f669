// Package loadsql renders the SQL that creates a catalogue table and
// bulk-loads its fixed-width data file.
//
// The statements target MySQL-compatible servers: identifiers are quoted
// with backticks and the data is read with LOAD DATA LOCAL INFILE into a
// single session variable, from which every column is cut with SUBSTR.
// Nothing here talks to a database.
package loadsql
