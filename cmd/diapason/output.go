//nolint:wrapcheck
package main

import (
	"os"

	"github.com/farcloser/primordium/format"
)

func printData(object string, meta map[string]any, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := &format.Data{
		Object: object,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}
