/*
Package ptio provides io functionality, including to/from stdin/stdout,
and helpful error messages when used in combination with bad filepaths
from commandline options
*/
package ptio

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/pflag"
)

func flagString(flag pflag.Flag) string {
	switch len(flag.Shorthand) {
	case 0:
		return "--" + flag.Name
	default:
		return "-" + flag.Shorthand + " / --" + flag.Name
	}
}

func parseInErr(err error, flagString string) error {
	switch x := err.(type) {
	case *fs.PathError:
		return errors.New(x.Op + " " + flagString + " " + x.Path + ": " + x.Err.Error())
	default:
		return err
	}
}

// OpenIn opens the file named by a commandline flag for reading, or returns
// stdin if the flag's value is "stdin".
func OpenIn(flag pflag.Flag) (*os.File, error) {
	inFile := flag.Value.String()

	if inFile == "stdin" {
		return os.Stdin, nil
	}

	f, err := os.Open(inFile)
	if err != nil {
		return f, parseInErr(err, flagString(flag))
	}

	return f, nil
}

// OpenOut creates the file named by a commandline flag for writing, or returns
// stdout if the flag's value is "stdout".
func OpenOut(flag pflag.Flag) (*os.File, error) {
	outFile := flag.Value.String()

	if outFile == "stdout" {
		return os.Stdout, nil
	}

	f, err := os.Create(outFile)
	if err != nil {
		return f, parseInErr(err, flagString(flag))
	}

	return f, nil
}

// MakeOutDir ensures that the directory named by a commandline flag exists,
// creating it (and any parents) if necessary.
func MakeOutDir(flag pflag.Flag) (string, error) {
	dir := flag.Value.String()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return dir, parseInErr(err, flagString(flag))
	}

	return dir, nil
}
