// Package readme parses the byte-by-byte column tables found in
// astronomical catalogue ReadMe files.
//
// A ReadMe describes each column of a fixed-width data file on one line:
//
//	   1-  6  I6    ---     HIP       Identifier (HIP number)
//	  42- 46  F5.2  mag     Vmag      ? Magnitude in Johnson V
//
// Parse scans a ReadMe for the table that belongs to a given data file and
// returns one Field per column, in documentation order. The package does no
// I/O beyond reading the supplied stream and never touches a database.
package readme
